package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Process exit codes by error category.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitValidation = 2
	ExitDiscovery  = 3
	ExitConversion = 4
	ExitAsset      = 6
	ExitConfig     = 7
	ExitInternal   = 10
	ExitPublish    = 11
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation:     ExitValidation,
	CategoryConfig:         ExitConfig,
	CategoryDiscovery:      ExitDiscovery,
	CategoryClassification: ExitDiscovery,
	CategoryConversion:     ExitConversion,
	CategoryAsset:          ExitAsset,
	CategoryPublish:        ExitPublish,
	CategoryInternal:       ExitInternal,
}

// CLIErrorAdapter turns a command error into a message and an exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr}
}

// WithOutput redirects user-facing messages (stderr by default).
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	if w != nil {
		a.out = w
	}
	return a
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	if classified, ok := AsClassified(err); ok {
		if code, known := exitCodes[classified.category]; known {
			return code
		}
	}
	return ExitGeneral
}

// FormatError renders err for the terminal. The offending path is always part
// of the message so a failed build can be fixed without -v.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok || a.verbose {
		return fmt.Sprintf("Error: %v", err)
	}

	msg := fmt.Sprintf("Error (%s): %s", classified.category, classified.message)
	if p := classified.Path(); p != "" {
		msg += fmt.Sprintf(" [%s]", p)
	}
	if classified.cause != nil {
		msg += fmt.Sprintf(": %v", classified.cause)
	}
	return msg
}

// Report prints err, logs it when verbose or non-fatal, and returns the exit code
// the process should use.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return ExitOK
	}
	classified, ok := AsClassified(err)
	switch {
	case !ok:
		a.logger.Error("Unclassified error", "error", err)
	case a.verbose || !classified.IsFatal():
		attrs := []slog.Attr{slog.String("category", string(classified.category))}
		if p := classified.Path(); p != "" {
			attrs = append(attrs, slog.String(ContextPath, p))
		}
		if classified.cause != nil {
			attrs = append(attrs, slog.String("cause", classified.cause.Error()))
		}
		level := slog.LevelError
		if classified.severity == SeverityWarning {
			level = slog.LevelWarn
		}
		a.logger.LogAttrs(context.Background(), level, classified.message, attrs...)
	}
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}
