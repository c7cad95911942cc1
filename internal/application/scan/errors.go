package scan

import (
	"fmt"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
	domainErrors "github.com/khanhnv2901/webcomply/internal/shared/errors"
)

// DuplicateCheckError is returned by Register when the check is already enabled.
type DuplicateCheckError struct {
	Name scan.CheckName
}

func (e *DuplicateCheckError) Error() string {
	return fmt.Sprintf("check %q is already registered", e.Name)
}

func (e *DuplicateCheckError) Unwrap() error {
	return domainErrors.ErrDuplicateCheck
}

// UnknownCheckError is returned by Register for a name without a dispatch entry.
type UnknownCheckError struct {
	Name scan.CheckName
	Err  error
}

func (e *UnknownCheckError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot register check %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("unknown check %q", e.Name)
}

func (e *UnknownCheckError) Unwrap() []error {
	if e.Err != nil {
		return []error{domainErrors.ErrUnknownCheck, e.Err}
	}
	return []error{domainErrors.ErrUnknownCheck}
}

// InvalidStateError is returned when Register or Run is called after Run started.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s: orchestrator is %s", e.Op, e.State)
}

func (e *InvalidStateError) Unwrap() error {
	return domainErrors.ErrInvalidState
}

// EmptyRegistryError is returned by Run when no check was registered.
type EmptyRegistryError struct{}

func (e *EmptyRegistryError) Error() string {
	return "no checks registered: enable at least one check"
}

func (e *EmptyRegistryError) Unwrap() error {
	return domainErrors.ErrEmptyRegistry
}

// ReportingError wraps a Reporter failure. The report itself is complete and
// is returned alongside it.
type ReportingError struct {
	Err error
}

func (e *ReportingError) Error() string {
	return fmt.Sprintf("%v: %v", domainErrors.ErrReporting, e.Err)
}

func (e *ReportingError) Unwrap() []error {
	return []error{domainErrors.ErrReporting, e.Err}
}
