package scan

import (
	"encoding/json"
	"time"
)

// Report is the sealed, ordered collection of results from one scan. It is
// built once by NewReport and never changes afterwards.
type Report struct {
	id          string
	target      Target
	startedAt   time.Time
	completedAt time.Time
	results     []Result
}

// NewReport seals results into a report. The slice order is kept as-is and
// the results are copied, so later changes to the argument are not visible.
func NewReport(id string, target Target, startedAt, completedAt time.Time, results []Result) *Report {
	sealed := make([]Result, len(results))
	for i, r := range results {
		sealed[i] = r.clone()
	}
	return &Report{
		id:          id,
		target:      target,
		startedAt:   startedAt,
		completedAt: completedAt,
		results:     sealed,
	}
}

// Business methods

// Counts returns the number of results per status.
func (r *Report) Counts() map[Status]int {
	counts := map[Status]int{
		StatusPass:  0,
		StatusFail:  0,
		StatusInfo:  0,
		StatusError: 0,
	}
	for _, res := range r.results {
		counts[res.Status]++
	}
	return counts
}

// HasFailures reports whether any result is fail or error.
func (r *Report) HasFailures() bool {
	for _, res := range r.results {
		if !res.IsSuccess() {
			return true
		}
	}
	return false
}

// Elapsed returns the wall-clock duration of the scan.
func (r *Report) Elapsed() time.Duration {
	return r.completedAt.Sub(r.startedAt)
}

// Getters

func (r *Report) ID() string {
	return r.id
}

func (r *Report) Target() Target {
	return r.target
}

func (r *Report) StartedAt() time.Time {
	return r.startedAt
}

func (r *Report) CompletedAt() time.Time {
	return r.completedAt
}

func (r *Report) Len() int {
	return len(r.results)
}

// Results returns a copy of the results in registration order.
func (r *Report) Results() []Result {
	out := make([]Result, len(r.results))
	for i, res := range r.results {
		out[i] = res.clone()
	}
	return out
}

// reportDocument is the serialised shape of a Report.
type reportDocument struct {
	ID          string         `json:"scan_id" yaml:"scan_id"`
	Target      string         `json:"target" yaml:"target"`
	StartedAt   time.Time      `json:"started_at" yaml:"started_at"`
	CompletedAt time.Time      `json:"completed_at" yaml:"completed_at"`
	Summary     map[Status]int `json:"summary" yaml:"summary"`
	Results     []Result       `json:"results" yaml:"results"`
}

func (r *Report) document() reportDocument {
	return reportDocument{
		ID:          r.id,
		Target:      r.target.String(),
		StartedAt:   r.startedAt,
		CompletedAt: r.completedAt,
		Summary:     r.Counts(),
		Results:     r.Results(),
	}
}

// MarshalJSON implements json.Marshaler.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.document())
}

// MarshalYAML implements yaml.Marshaler.
func (r *Report) MarshalYAML() (interface{}, error) {
	return r.document(), nil
}
