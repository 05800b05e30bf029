package convert

import "errors"

var (
	// ErrCommandNotFound indicates the configured converter executable is not on PATH.
	ErrCommandNotFound = errors.New("converter command not found")
	// ErrCommandFailed indicates the converter exited with a non-zero status.
	ErrCommandFailed = errors.New("converter exited with failure")
	// ErrInvalidEncoding indicates converter output is not valid UTF-8.
	ErrInvalidEncoding = errors.New("converter output is not valid UTF-8")
	// ErrTimeout indicates a conversion exceeded its per-job timeout.
	ErrTimeout = errors.New("conversion timed out")
	// ErrNoOutput indicates a StaticConverter has no fixture for the requested path.
	ErrNoOutput = errors.New("no output registered for path")
)
