package trilog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// groupOrAttrs holds either a group name or a list of slog.Attrs
// accumulated through WithGroup and WithAttrs.
type groupOrAttrs struct {
	group string
	attrs []slog.Attr
}

// slogHandler adapts a Logger to the slog.Handler interface. slog
// levels collapse onto the severity set: anything at or above
// slog.LevelError becomes ERROR, LevelWarn becomes WARNING, and the
// rest (including debug) becomes INFO. slog has no fatal level, so the
// handler never terminates the process.
type slogHandler struct {
	logger *Logger
	goas   []groupOrAttrs
}

// Handler returns a slog.Handler that routes records through the
// logger's severity destinations, with the same header-then-flush
// durability as Log.
func (l *Logger) Handler() slog.Handler {
	return &slogHandler{logger: l}
}

func severityFromLevel(level slog.Level) Severity {
	switch {
	case level >= slog.LevelError:
		return ERROR
	case level >= slog.LevelWarn:
		return WARNING
	default:
		return INFO
	}
}

func (h *slogHandler) withGroupOrAttrs(goa groupOrAttrs) *slogHandler {
	h2 := *h
	h2.goas = make([]groupOrAttrs, len(h.goas)+1)
	copy(h2.goas, h.goas)
	h2.goas[len(h2.goas)-1] = goa
	return &h2
}

// WithGroup implements the WithGroup method for slog.Handler.
func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.withGroupOrAttrs(groupOrAttrs{group: name})
}

// WithAttrs implements the WithAttrs method for slog.Handler.
func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.withGroupOrAttrs(groupOrAttrs{attrs: attrs})
}

// Enabled implements the Enabled method for slog.Handler. The
// destination table routes every severity, so no level is filtered.
func (h *slogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

// bufs is a pool of *bytes.Buffer used in formatting record bodies.
var bufs sync.Pool

// Handle implements the Handle method for slog.Handler. The record's
// PC supplies the source location for the header; message and attrs
// form the body of a single trilog record.
func (h *slogHandler) Handle(ctx context.Context, rec slog.Record) error {
	bufi := bufs.Get()
	var buf *bytes.Buffer
	if bufi == nil {
		buf = bytes.NewBuffer(nil)
		bufi = buf
	} else {
		buf = bufi.(*bytes.Buffer)
		buf.Reset()
	}
	defer bufs.Put(bufi)

	file, line, function := "unknown", 0, "unknown"
	if rec.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{rec.PC})
		f, _ := fs.Next()
		file, line = filepath.Base(f.File), f.Line
		function = trimFunction(f.Function)
	}

	buf.WriteString(rec.Message)

	// Handle state from WithGroup and WithAttrs. Trailing groups with
	// no attrs of their own are empty and dropped.
	goas := h.goas
	if rec.NumAttrs() == 0 {
		for len(goas) > 0 && goas[len(goas)-1].group != "" {
			goas = goas[:len(goas)-1]
		}
	}

	prefix := ""
	for _, goa := range goas {
		if goa.group != "" {
			prefix = fmt.Sprintf("%s%s.", prefix, goa.group)
		} else {
			for _, a := range goa.attrs {
				appendAttr(buf, a, prefix)
			}
		}
	}
	rec.Attrs(func(a slog.Attr) bool {
		appendAttr(buf, a, prefix)
		return true
	})

	r := h.logger.LogAt(severityFromLevel(rec.Level), file, line, function)
	_, _ = r.Write(buf.Bytes())
	r.Close()
	return nil
}

func appendAttr(buf *bytes.Buffer, a slog.Attr, prefix string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	switch a.Value.Kind() {
	case slog.KindString:
		// Quote string values, to make them easy to parse.
		fmt.Fprintf(buf, " %s%s=%q", prefix, a.Key, a.Value.String())

	case slog.KindTime:
		// Write times in a standard way, without the monotonic time.
		fmt.Fprintf(buf, " %s%s=%s", prefix, a.Key, a.Value.Time().Format(time.RFC3339Nano))

	case slog.KindGroup:
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return
		}
		if a.Key != "" {
			prefix = fmt.Sprintf("%s%s.", prefix, a.Key)
		}
		for _, ga := range attrs {
			appendAttr(buf, ga, prefix)
		}

	default:
		fmt.Fprintf(buf, " %s%s=%s", prefix, a.Key, a.Value)
	}
}
