// Package trilog provides a severity-routed file logging facility.
//
// Overview:
// trilog routes each log statement to one of a small number of
// destination files chosen by severity. Messages carry a fixed-shape
// header (severity, source file:line, function) that is flushed to the
// device before the message body is written, so a crash mid-statement
// loses at most the body of the one in-flight message. FATAL messages
// deliberately terminate the process after a guaranteed flush.
//
// Key behaviors:
// - Four ordered severities (INFO, WARNING, ERROR, FATAL)
// - One destination file per severity class; FATAL shares ERROR's file
// - Oversized pre-existing destination files truncated at open time
// - Shared fallback sink (stderr by default) when a file is not open
// - Header flushed before the body for crash durability
// - FATAL writes a goroutine dump and aborts the process
// - Queryable degraded state when a destination could not be opened
// - Optional rate limiting and terminal colorization
// - log/slog compatibility via Handler
//
// Getting Started:
//
//	package main
//
//	import "github.com/trilog/trilog"
//
//	func main() {
//	    logger, err := trilog.New(trilog.Config{
//	        InfoPath:  "/tmp/info.log",
//	        WarnPath:  "/tmp/warn.log",
//	        ErrorPath: "/tmp/error.log",
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//	    defer logger.Close()
//
//	    r := logger.Log(trilog.INFO)
//	    r.Print("an info message going into /tmp/info.log")
//	    r.Close()
//
//	    logger.Warningf("a warning going into /tmp/warn.log")
//	    logger.Fatalf("a fatal message going into /tmp/error.log; the process aborts")
//	}
//
// The classic process-wide form is also available:
//
//	trilog.InitializeLogger("/tmp/info.log", "/tmp/warn.log", "/tmp/error.log")
//	trilog.Infof("hello")
//
// Error handling:
// Logging is fire-and-forget. A destination that cannot be opened
// degrades its severities to the fallback sink; Logger.Degraded and
// Record.UsedFallback make the degradation observable, and
// Config.ErrorHandler receives the underlying errors. No I/O error is
// ever returned from a logging call.
//
// Concurrency:
// The design contract is single-threaded or externally synchronized
// use. Each destination carries a mutex, so individual writes do not
// tear, but two records built concurrently on different goroutines may
// still interleave their headers and bodies in the same file. Within a
// single goroutine, one statement's header and flush complete before
// the next statement's record is constructed.
//
// Re-initialization:
// Creating a second Logger (or calling InitializeLogger again) for the
// same paths re-runs the truncation pass and opens fresh handles
// without closing the previous ones. Doing so concurrently with active
// logging is unsupported.
package trilog
