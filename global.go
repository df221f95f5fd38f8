package trilog

import "io"

// std is the process-wide default Logger. Until InitializeLogger runs,
// every severity resolves to the fallback sink (stderr).
var std = mustNew(Config{})

func mustNew(cfg Config) *Logger {
	l, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

// Option adjusts the configuration built by InitializeLogger.
type Option func(*Config)

// WithMaxBytes sets the truncation threshold for pre-existing
// destination files.
func WithMaxBytes(n int64) Option {
	return func(c *Config) {
		c.MaxBytes = n
	}
}

// WithFallback sets the shared sink used when a destination file is
// not open.
func WithFallback(w io.Writer) Option {
	return func(c *Config) {
		c.Fallback = w
	}
}

// WithErrorHandler sets the receiver for internal I/O errors.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.ErrorHandler = fn
	}
}

// WithMaxLogRate caps the number of records per second; excess
// non-FATAL records are dropped.
func WithMaxLogRate(n int) Option {
	return func(c *Config) {
		c.MaxLogRate = n
	}
}

// WithColor enables colorized severity tags on the fallback sink when
// it is a terminal.
func WithColor(enabled bool) Option {
	return func(c *Config) {
		c.Colorize = enabled
	}
}

// InitializeLogger configures the process-wide default logger with one
// destination file per severity class; FATAL shares the ERROR file.
// The call is best-effort and side-effecting: a destination that
// cannot be opened is absorbed and its severities keep using the
// fallback sink.
//
// Repeated initialization is unsupported: a second call reopens the
// destinations without closing the first set of handles and must not
// race with in-flight records.
func InitializeLogger(infoPath, warnPath, errorPath string, opts ...Option) {
	cfg := Config{
		InfoPath:  infoPath,
		WarnPath:  warnPath,
		ErrorPath: errorPath,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	l, err := New(cfg)
	if err != nil {
		std.handleError(err)
		return
	}
	std = l
}

// Default returns the process-wide default Logger.
func Default() *Logger {
	return std
}

// Log starts a record on the default logger, emitting and flushing the
// header with the caller's source location.
func Log(severity Severity) *Record {
	file, line, function := callerInfo(2)
	return std.newRecord(severity, file, line, function)
}

// Infof logs a formatted INFO message on the default logger.
func Infof(format string, v ...any) {
	std.logf(INFO, format, v...)
}

// Warningf logs a formatted WARNING message on the default logger.
func Warningf(format string, v ...any) {
	std.logf(WARNING, format, v...)
}

// Errorf logs a formatted ERROR message on the default logger.
func Errorf(format string, v ...any) {
	std.logf(ERROR, format, v...)
}

// Fatalf logs a formatted FATAL message on the default logger and
// terminates the process.
func Fatalf(format string, v ...any) {
	std.logf(FATAL, format, v...)
}

// Flush forces buffered output on the default logger.
func Flush() error {
	return std.Flush()
}
