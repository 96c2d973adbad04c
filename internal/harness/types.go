package harness

import "github.com/roach88/deathnote/internal/note"

// Step outcomes recorded in the trace.
const (
	OutcomeOK              = "ok"
	OutcomeAccepted        = "accepted"
	OutcomeRejected        = "rejected"
	OutcomeInvalidArgument = ErrorInvalidArgument
	OutcomeInvalidState    = ErrorInvalidState
)

// TraceEvent is one executed step.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Action   string `json:"action"`
	Arg      string `json:"arg"`
	AtMillis int64  `json:"at_ms"`
	Outcome  string `json:"outcome"`
	Value    string `json:"value,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in step order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the notebook after the last step.
	Final note.Snapshot `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an executed step to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
