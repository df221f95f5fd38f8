package trilog

import (
	"fmt"
	"io"
	"os"
)

var (
	defaultMaxBytes int64       = 10 * 1024 * 1024
	defaultFileMode os.FileMode = 0644
)

// Config defines the configuration parameters for a Logger.
//
// Each of the three path fields names the destination file for one
// severity class; FATAL always shares the ERROR destination. An empty
// path leaves that severity unconfigured, routing its messages to the
// fallback sink.
//
// Fields:
//   - InfoPath: destination file for INFO messages
//   - WarnPath: destination file for WARNING messages
//   - ErrorPath: destination file for ERROR and FATAL messages
//   - MaxBytes: size threshold above which a pre-existing destination
//     file is truncated at open time (default 10 MiB)
//   - FileMode: permissions for created destination files (default 0644)
//   - Fallback: shared sink used when a destination is not open
//     (default os.Stderr)
//   - MaxLogRate: maximum records per second, 0 disables limiting
//   - Colorize: colorize severity tags on the fallback sink when it is
//     a terminal
//   - ErrorHandler: receives internal I/O errors; nil reports them to
//     the fallback sink
//
// Example:
//
//	logger, err := trilog.New(trilog.Config{
//	    InfoPath:  "/var/log/app/info.log",
//	    WarnPath:  "/var/log/app/warn.log",
//	    ErrorPath: "/var/log/app/error.log",
//	})
//	if err != nil {
//	    panic(err)
//	}
//	defer logger.Close()
type Config struct {
	InfoPath     string
	WarnPath     string
	ErrorPath    string
	MaxBytes     int64
	FileMode     os.FileMode
	Fallback     io.Writer
	MaxLogRate   int
	Colorize     bool
	ErrorHandler func(error)
}

// Validate checks the configuration for programmer errors. Destination
// open failures are not validation errors; they degrade the affected
// severity at open time instead.
func (c *Config) Validate() error {
	if c.MaxBytes < 0 {
		return fmt.Errorf("MaxBytes cannot be negative")
	}
	if c.MaxLogRate < 0 {
		return fmt.Errorf("MaxLogRate cannot be negative")
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.MaxBytes == 0 {
		c.MaxBytes = defaultMaxBytes
	}
	if c.FileMode == 0 {
		c.FileMode = defaultFileMode
	}
	if c.Fallback == nil {
		c.Fallback = os.Stderr
	}
}
