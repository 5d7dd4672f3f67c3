package harness

import (
	"github.com/roach88/sdkloader/internal/loader"
	"github.com/roach88/sdkloader/internal/metrics"
	"github.com/roach88/sdkloader/internal/trace"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace is everything the recording SDK observed, in order.
	Trace []trace.Event `json:"trace"`

	// Errors holds failed assertion messages.
	Errors []string `json:"errors,omitempty"`

	// Queue is the loader's queue at the end of the run.
	Queue []loader.Entry `json:"-"`

	Injected bool `json:"injected"`
	Loaded   bool `json:"loaded"`

	// Fetches lists the bundle URLs the page requested.
	Fetches []string `json:"fetches"`

	// PriorCalls counts calls that reached the pre-existing handlers,
	// keyed by "error" and "rejection".
	PriorCalls map[string]int `json:"prior_calls,omitempty"`

	// Effective is the configuration the SDK was last initialized with.
	Effective loader.Options `json:"effective"`

	// Metrics is the loader's counters at the end of the run.
	Metrics []metrics.Sample `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Trace:      []trace.Event{},
		Errors:     []string{},
		PriorCalls: make(map[string]int),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
