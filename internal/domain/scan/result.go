package scan

import (
	"fmt"
	"time"
)

// Status represents the outcome class of a check
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusInfo  Status = "info"
	StatusError Status = "error"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPass, StatusFail, StatusInfo, StatusError:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Result is the outcome of running one check against the target.
type Result struct {
	Name     CheckName      `json:"name" yaml:"name"`
	Status   Status         `json:"status" yaml:"status"`
	Message  string         `json:"message" yaml:"message"`
	Details  map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Duration time.Duration  `json:"duration_ns" yaml:"duration"`
}

// NewResult builds a result with a formatted message.
func NewResult(name CheckName, status Status, format string, args ...any) Result {
	return Result{
		Name:    name,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

// Pass builds a passing result.
func Pass(name CheckName, format string, args ...any) Result {
	return NewResult(name, StatusPass, format, args...)
}

// Fail builds a failing result.
func Fail(name CheckName, format string, args ...any) Result {
	return NewResult(name, StatusFail, format, args...)
}

// Info builds an informational result.
func Info(name CheckName, format string, args ...any) Result {
	return NewResult(name, StatusInfo, format, args...)
}

// ErrorResult converts a check-level fault into a result.
func ErrorResult(name CheckName, err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{Name: name, Status: StatusError, Message: msg}
}

// WithDetail returns a copy of r carrying key=value in its details.
func (r Result) WithDetail(key string, value any) Result {
	details := make(map[string]any, len(r.Details)+1)
	for k, v := range r.Details {
		details[k] = v
	}
	details[key] = value
	r.Details = details
	return r
}

// Detail returns the detail stored under key, if any.
func (r Result) Detail(key string) (any, bool) {
	v, ok := r.Details[key]
	return v, ok
}

// IsSuccess reports whether the result counts as compliant (pass or info).
func (r Result) IsSuccess() bool {
	return r.Status == StatusPass || r.Status == StatusInfo
}

func (r Result) clone() Result {
	if r.Details == nil {
		return r
	}
	details := make(map[string]any, len(r.Details))
	for k, v := range r.Details {
		details[k] = v
	}
	r.Details = details
	return r
}
