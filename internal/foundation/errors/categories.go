package errors

import "maps"

// ErrorCategory groups failures by the pipeline stage that reports them.
// The CLI maps each category to its own exit code.
type ErrorCategory string

const (
	CategoryConfig         ErrorCategory = "config"         // unreadable or malformed configuration
	CategoryValidation     ErrorCategory = "validation"     // well-formed but inconsistent settings or flags
	CategoryDiscovery      ErrorCategory = "discovery"      // source tree cannot be walked
	CategoryClassification ErrorCategory = "classification" // source outside the catalog, or catalog entry without source
	CategoryConversion     ErrorCategory = "conversion"     // converter failed, timed out or produced bad output
	CategoryAsset          ErrorCategory = "asset"          // static file not allowed or not minifiable
	CategoryPublish        ErrorCategory = "publish"        // deployment directory cannot be written
	CategoryInternal       ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // build aborted
	SeverityError   ErrorSeverity = "error"   // operation failed
	SeverityWarning ErrorSeverity = "warning" // site published, follow-up step failed
)

// ErrorContext carries structured fields such as the offending path or page key.
type ErrorContext map[string]any

// with returns a copy of c with key set.
func (c ErrorContext) with(key string, value any) ErrorContext {
	out := make(ErrorContext, len(c)+1)
	maps.Copy(out, c)
	out[key] = value
	return out
}

// GetString returns the string stored under key.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}
