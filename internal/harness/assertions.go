package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/deathnote/internal/store"
)

// AssertionContext provides what assertions read from.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %q -> %s\n", event.Seq, event.Action, event.Arg, event.Outcome)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i+1, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertFinalState:
		return assertFinalState(a, actx)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a, actx)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertFinalState reads the stored record for a.Name and compares the
// fields a.State specifies.
func assertFinalState(a Assertion, actx *AssertionContext) error {
	entry, found, err := actx.Store.ReadEntry(actx.Ctx, a.Name)
	if err != nil {
		return fmt.Errorf("final_state: %w", err)
	}

	want := a.State
	if want.Written != nil && *want.Written != found {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%q written=%t", a.Name, *want.Written),
			Actual:   fmt.Sprintf("written=%t", found),
		}
	}
	if !found {
		if want.Cause != nil || want.Details != nil {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("record for %q", a.Name),
				Actual:   "name never written",
			}
		}
		return nil
	}

	if want.Cause != nil && *want.Cause != entry.Cause {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%q cause %q", a.Name, *want.Cause),
			Actual:   Diff(*want.Cause, entry.Cause),
		}
	}
	if want.Details != nil && *want.Details != entry.Details {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%q details %q", a.Name, *want.Details),
			Actual:   Diff(*want.Details, entry.Details),
		}
	}
	return nil
}

// assertTraceCount checks the journal holds the action exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	count, err := actx.Store.CountEvents(actx.Ctx, a.Action)
	if err != nil {
		return fmt.Errorf("trace_count: %w", err)
	}

	if count != *a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s journaled %d times", a.Action, *a.Count),
			Actual:   fmt.Sprintf("%d times", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceOrder checks that the first occurrences of Actions appear in
// the given order. Actions don't need to be consecutive.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if _, seen := positions[event.Action]; !seen {
			positions[event.Action] = i + 1
		}
	}

	for _, action := range a.Actions {
		if positions[action] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all actions present: %v", a.Actions),
				Actual:   fmt.Sprintf("missing action: %s", action),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Actions); i++ {
		prev, curr := a.Actions[i-1], a.Actions[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions in order: %v", a.Actions),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}
