package trilog

import (
	"fmt"
	"strings"
)

// Severity represents the importance of a log message.
//
// Severities are ordered from least to most severe:
// - INFO: General operational information
// - WARNING: Potentially harmful situations
// - ERROR: Serious problems
// - FATAL: Unrecoverable errors causing process termination
//
// The ordering expresses escalation only; the numeric values carry no
// other meaning.
type Severity int32

const (
	INFO Severity = iota
	WARNING
	ERROR
	FATAL
)

// String converts a Severity to its string representation.
func (s Severity) String() string {
	switch s {
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a string to its corresponding Severity.
// Matching is case-insensitive; "WARN" is accepted for WARNING.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARNING, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("invalid severity: %s", s)
	}
}

// Severities lists all severities in escalation order.
func Severities() []Severity {
	return []Severity{INFO, WARNING, ERROR, FATAL}
}
