package trilog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// exitFunc terminates the process after a FATAL record has flushed.
// A variable so the termination path stays reachable in subprocess
// tests without dumping core into the test tree.
var exitFunc = os.Exit

// destination is an output sink owned by its Logger: either a
// severity's destination file or the shared fallback sink. File-backed
// destinations buffer writes and sync to the device on flush; the
// fallback sink writes through unbuffered.
type destination struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
	sink io.Writer
}

func newFileDestination(file *os.File) *destination {
	buf := bufio.NewWriter(file)
	return &destination{file: file, buf: buf, sink: buf}
}

func newFallbackDestination(w io.Writer) *destination {
	return &destination{sink: w}
}

func (d *destination) write(p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.sink.Write(p)
	return err
}

// flush forces buffered output through to the underlying device. The
// fallback sink is unbuffered, so flushing it is a no-op.
func (d *destination) flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushLocked()
}

func (d *destination) flushLocked() error {
	if d.buf == nil {
		return nil
	}
	if err := d.buf.Flush(); err != nil {
		return err
	}
	return d.file.Sync()
}

// writeAndFlush appends p and flushes in one critical section, so no
// other record's output can land between p and its flush.
func (d *destination) writeAndFlush(p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.sink.Write(p); err != nil {
		return err
	}
	return d.flushLocked()
}

func (d *destination) close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	flushErr := d.flushLocked()
	if err := d.file.Close(); err != nil {
		return err
	}
	return flushErr
}

// Logger routes log records to severity-specific destination files.
//
// A Logger owns its destinations: the file handles opened by New are
// held for the Logger's lifetime and released by Close. ERROR and
// FATAL always resolve to the same destination; a severity whose file
// is not open resolves to the fallback sink.
type Logger struct {
	fallback     *destination
	dests        [3]*destination // INFO, WARNING, ERROR (FATAL shares ERROR)
	degraded     [3]bool
	colorize     bool
	errorHandler func(error)
	rateLimiter  *rate.Limiter
	closed       atomic.Bool
}

// destIndex maps a severity to its destination slot. FATAL is an
// escalated ERROR, not a distinct channel: a separate FATAL file would
// stay empty until the one moment it matters.
func destIndex(severity Severity) int {
	switch severity {
	case INFO:
		return 0
	case WARNING:
		return 1
	default:
		return 2
	}
}

// New creates a Logger from config. Each configured destination file
// is opened for append, created when absent, and truncated to empty
// first when a pre-existing file exceeds Config.MaxBytes.
//
// A destination that cannot be opened is not an error: the affected
// severity degrades to the fallback sink, the failure is reported
// through the error handler, and Degraded reports the condition. The
// returned error covers configuration mistakes only.
//
// Calling New again for the same paths re-runs the truncation pass and
// opens fresh handles; the previous Logger's handles stay open until
// its Close. Re-initialization concurrent with in-flight records is
// unsupported.
func New(cfg Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.setDefaults()

	l := &Logger{
		fallback:     newFallbackDestination(cfg.Fallback),
		colorize:     cfg.Colorize && isTerminal(cfg.Fallback),
		errorHandler: cfg.ErrorHandler,
	}
	if cfg.MaxLogRate > 0 {
		l.rateLimiter = rate.NewLimiter(rate.Limit(cfg.MaxLogRate), cfg.MaxLogRate)
	}

	paths := [3]string{cfg.InfoPath, cfg.WarnPath, cfg.ErrorPath}
	for i, path := range paths {
		if path == "" {
			continue
		}
		file, err := openDestinationFile(path, cfg.MaxBytes, cfg.FileMode)
		if err != nil {
			l.degraded[i] = true
			l.handleError(fmt.Errorf("failed to open log file %s: %w", path, err))
			continue
		}
		l.dests[i] = newFileDestination(file)
	}
	return l, nil
}

// openDestinationFile opens path for append, truncating the existing
// contents first when they exceed maxBytes.
func openDestinationFile(path string, maxBytes int64, mode os.FileMode) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if fi, err := os.Stat(path); err == nil && fi.Size() > maxBytes {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(path, flags, mode)
}

// destination resolves the output sink for a severity: the dedicated
// file when open, the shared fallback otherwise. A closed Logger
// resolves everything to the fallback.
func (l *Logger) destination(severity Severity) (*destination, bool) {
	if l.closed.Load() {
		return l.fallback, true
	}
	if d := l.dests[destIndex(severity)]; d != nil {
		return d, false
	}
	return l.fallback, true
}

// Degraded reports whether any configured destination failed to open,
// leaving its severities routed to the fallback sink. Silent fallback
// can mask misconfiguration; check this after New in production setups.
func (l *Logger) Degraded() bool {
	for _, d := range l.degraded {
		if d {
			return true
		}
	}
	return false
}

// DegradedSeverities lists the severities whose configured destination
// failed to open.
func (l *Logger) DegradedSeverities() []Severity {
	var out []Severity
	for _, s := range Severities() {
		if l.degraded[destIndex(s)] {
			out = append(out, s)
		}
	}
	return out
}

// Flush forces buffered output on every open destination.
func (l *Logger) Flush() error {
	var firstErr error
	for _, d := range l.dests {
		if d == nil {
			continue
		}
		if err := d.flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close flushes and releases the destination file handles. Records
// created after Close route to the fallback sink.
func (l *Logger) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	var firstErr error
	for _, d := range l.dests {
		if d == nil {
			continue
		}
		if err := d.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (l *Logger) handleError(err error) {
	if l.errorHandler != nil {
		l.errorHandler(err)
		return
	}
	_ = l.fallback.write([]byte(fmt.Sprintf("LOGGER ERROR: %v\n", err)))
}

// Record is an in-flight log statement. Log returns it with its header
// already emitted and flushed; writes append the message body to the
// same destination. Close performs the single end-of-message flush
// and, for FATAL records only, terminates the process.
//
// A Record belongs to one log statement on one goroutine. Records from
// different goroutines sharing a destination may interleave their
// header and body output; callers needing stronger guarantees must
// synchronize externally.
type Record struct {
	logger       *Logger
	severity     Severity
	dest         *destination
	usedFallback bool
	dropped      bool
	closed       bool
	pendingNL    bool
}

// Log starts a record at the given severity, emitting the message
// header with the caller's source location and flushing it before
// returning. The returned Record is an io.Writer for the message body;
// the caller must Close it to complete the statement.
func (l *Logger) Log(severity Severity) *Record {
	file, line, function := callerInfo(2)
	return l.newRecord(severity, file, line, function)
}

// LogAt is Log with an explicitly supplied source location, for
// callers that capture file, line and function themselves.
func (l *Logger) LogAt(severity Severity, file string, line int, function string) *Record {
	return l.newRecord(severity, file, line, function)
}

func (l *Logger) newRecord(severity Severity, file string, line int, function string) *Record {
	// FATAL records are never rate-limited; a dropped FATAL would skip
	// the termination contract.
	if l.rateLimiter != nil && severity < FATAL && !l.rateLimiter.Allow() {
		return &Record{logger: l, severity: severity, dropped: true}
	}

	dest, usedFallback := l.destination(severity)
	r := &Record{
		logger:       l,
		severity:     severity,
		dest:         dest,
		usedFallback: usedFallback,
		pendingNL:    true,
	}

	// The header is flushed before the caller writes any body. A crash
	// mid-statement loses at most the body of the in-flight record,
	// never its header and never an earlier record.
	header := formatHeader(severity, file, line, function, usedFallback && l.colorize)
	if err := dest.writeAndFlush([]byte(header)); err != nil {
		l.handleError(fmt.Errorf("log header write error: %w", err))
	}
	return r
}

// Write appends p to the record body. I/O failures are absorbed and
// reported through the logger's error handler; logging is
// fire-and-forget and never returns them to the caller.
func (r *Record) Write(p []byte) (int, error) {
	if r.dropped || r.closed || len(p) == 0 {
		return len(p), nil
	}
	if err := r.dest.write(p); err != nil {
		r.logger.handleError(fmt.Errorf("log body write error: %w", err))
		return len(p), nil
	}
	r.pendingNL = p[len(p)-1] != '\n'
	return len(p), nil
}

// Print appends the arguments to the record body in fmt.Sprint style.
func (r *Record) Print(v ...any) {
	fmt.Fprint(r, v...)
}

// Printf appends a formatted message to the record body.
func (r *Record) Printf(format string, v ...any) {
	fmt.Fprintf(r, format, v...)
}

// Severity returns the record's severity.
func (r *Record) Severity() Severity {
	return r.severity
}

// UsedFallback reports whether the record is routed to the shared
// fallback sink instead of a dedicated destination file.
func (r *Record) UsedFallback() bool {
	return r.usedFallback
}

// Close completes the log statement: the line is newline-terminated if
// the body did not end with one, the destination is flushed once for
// the complete message, and a FATAL record then aborts the process.
// Close is idempotent.
func (r *Record) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.dropped {
		return
	}

	if r.pendingNL {
		if err := r.dest.write([]byte{'\n'}); err != nil {
			r.logger.handleError(fmt.Errorf("log body write error: %w", err))
		}
	}
	if err := r.dest.flush(); err != nil {
		r.logger.handleError(fmt.Errorf("log flush error: %w", err))
	}
	if r.severity == FATAL {
		r.abort()
	}
}

// abort writes a goroutine dump for postmortem inspection, flushes it,
// and terminates the process. The termination is deliberate and
// unconditional; it runs only after the record's own flush completed.
func (r *Record) abort() {
	buf := make([]byte, 64*1024)
	n := runtime.Stack(buf, true)
	_ = r.dest.writeAndFlush([]byte(fmt.Sprintf("FATAL: aborting process\n%s\n", buf[:n])))
	exitFunc(1)
}

// Infof logs a formatted INFO message as a single complete record.
func (l *Logger) Infof(format string, v ...any) {
	l.logf(INFO, format, v...)
}

// Warningf logs a formatted WARNING message as a single complete record.
func (l *Logger) Warningf(format string, v ...any) {
	l.logf(WARNING, format, v...)
}

// Errorf logs a formatted ERROR message as a single complete record.
func (l *Logger) Errorf(format string, v ...any) {
	l.logf(ERROR, format, v...)
}

// Fatalf logs a formatted FATAL message and terminates the process.
func (l *Logger) Fatalf(format string, v ...any) {
	l.logf(FATAL, format, v...)
}

func (l *Logger) logf(severity Severity, format string, v ...any) {
	file, line, function := callerInfo(3)
	r := l.newRecord(severity, file, line, function)
	r.Printf(format, v...)
	r.Close()
}
