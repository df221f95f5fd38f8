package trilog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// callerInfo captures the source file, line and function name skip
// frames above callerInfo itself.
func callerInfo(skip int) (file string, line int, function string) {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown", 0, "unknown"
	}
	file = filepath.Base(file)
	return file, line, functionForPC(pc)
}

func functionForPC(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return trimFunction(fn.Name())
}

// trimFunction reduces a fully qualified function name to the bare
// function name without package path.
func trimFunction(full string) string {
	if lastSlash := strings.LastIndexByte(full, '/'); lastSlash >= 0 {
		full = full[lastSlash+1:]
	}
	if lastDot := strings.LastIndexByte(full, '.'); lastDot >= 0 {
		return full[lastDot+1:]
	}
	return full
}

// severityColors maps severities to ANSI colors for terminal fallback
// output.
var severityColors = map[Severity]string{
	INFO:    "\033[32m",
	WARNING: "\033[33m",
	ERROR:   "\033[31m",
	FATAL:   "\033[35m",
}

const colorReset = "\033[0m"

// formatHeader renders the fixed-shape record header.
//
// Format:
//
//	SEVERITY | file:line | function:
func formatHeader(severity Severity, file string, line int, function string, colorize bool) string {
	tag := severity.String()
	if colorize {
		tag = severityColors[severity] + tag + colorReset
	}
	return fmt.Sprintf("%s | %s:%d | %s: ", tag, file, line, function)
}

// isTerminal reports whether w is backed by a terminal device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
