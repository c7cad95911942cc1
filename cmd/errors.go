package cmd

import (
	"errors"
	"fmt"

	domainErrors "github.com/khanhnv2901/webcomply/internal/shared/errors"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFailures = 1
	ExitMisuse   = 2
)

// ExitError carries a process exit code. Err may be nil when the outcome has
// already been reported, as for a scan with failing checks.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// UsageError signals a malformed invocation: bad flags, bad arguments or
// invalid configuration values.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() []error {
	return []error{domainErrors.ErrConfiguration, e.Err}
}

// InvalidURLError indicates the positional argument is not a website URL.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	if e.URL == "" {
		return "a website url is required, e.g. webcomply scan example.com"
	}
	return fmt.Sprintf("%q is not a valid website url", e.URL)
}

func (e *InvalidURLError) Unwrap() error {
	return domainErrors.ErrInvalidTarget
}

// ModeConflictError is returned when verbose and silent output are both requested.
type ModeConflictError struct{}

func (e *ModeConflictError) Error() string {
	return "--verbose and --mute cannot be used together"
}

func (e *ModeConflictError) Unwrap() error {
	return domainErrors.ErrConfiguration
}

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, domainErrors.ErrConfiguration) {
		return ExitMisuse
	}
	return ExitFailures
}

// shouldPrintError reports whether err carries a message for the user.
func shouldPrintError(err error) bool {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Err != nil
	}
	return err != nil
}
