package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// ErrConfiguration is the parent of every caller-misuse error. A scan that
	// fails with it never executed a check.
	ErrConfiguration = errors.New("configuration error")

	// Registry errors
	ErrDuplicateCheck = fmt.Errorf("%w: check already registered", ErrConfiguration)
	ErrUnknownCheck   = fmt.Errorf("%w: unknown check", ErrConfiguration)
	ErrEmptyRegistry  = fmt.Errorf("%w: no checks registered", ErrConfiguration)
	ErrInvalidState   = fmt.Errorf("%w: invalid orchestrator state", ErrConfiguration)

	// Target errors
	ErrEmptyTarget   = fmt.Errorf("%w: target cannot be empty", ErrConfiguration)
	ErrInvalidTarget = fmt.Errorf("%w: invalid target url", ErrConfiguration)

	// Check execution errors, only ever surfaced inside a Result
	ErrCheckTimeout   = errors.New("check timed out")
	ErrCheckCancelled = errors.New("check cancelled")
	ErrCheckPanicked  = errors.New("check panicked")

	// Reporting errors
	ErrReporting = errors.New("reporting failed")
)
