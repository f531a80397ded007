// Package errors/handlers provides terminal-specific error handling.
//
// The CLI is the only front end of foam-notes, so a single handler formats
// AppErrors for display. Verbose mode adds the details and cause chain.
package errors

import (
	"fmt"
	"strings"
)

// CLIErrorHandler handles errors for CLI interface
type CLIErrorHandler struct {
	Verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(verbose bool) *CLIErrorHandler {
	return &CLIErrorHandler{
		Verbose: verbose,
	}
}

// FormatError formats an error for CLI display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	var prefix string
	switch appErr.Severity {
	case SeverityCritical:
		prefix = "CRITICAL"
	case SeverityError:
		prefix = "ERROR"
	case SeverityWarning:
		prefix = "WARNING"
	case SeverityInfo:
		prefix = "INFO"
	default:
		prefix = "ERROR"
	}

	msg := fmt.Sprintf("%s: %s", prefix, appErr.Message)
	if !h.Verbose {
		return msg
	}

	var b strings.Builder
	b.WriteString(msg)
	fmt.Fprintf(&b, "\n  code: %s", appErr.Code)
	if appErr.Details != "" {
		fmt.Fprintf(&b, "\n  details: %s", appErr.Details)
	}
	for cause := appErr.Cause; cause != nil; {
		fmt.Fprintf(&b, "\n  caused by: %v", cause)
		next, ok := cause.(interface{ Unwrap() error })
		if !ok {
			break
		}
		cause = next.Unwrap()
	}
	return b.String()
}

// ExitCode maps an error to a process exit code
func (h *CLIErrorHandler) ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
