package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/roach88/deathnote/internal/note"
	"github.com/roach88/deathnote/internal/store"
	"github.com/roach88/deathnote/internal/testutil"
)

// Harness executes scenario steps against a notebook.
type Harness struct {
	store  *store.Store
	note   *note.Note
	clock  *testutil.ManualClock
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a fixed notebook id
// and a manual clock starting at scenario.StartMillis.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Build the notebook (with the scenario's rulebook, if any)
// 3. Execute steps, journaling each and checking expectations
// 4. Save the final notebook and evaluate assertions
//
// Returns an error only if the scenario could not be executed; failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewFixedIDGenerator("")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := testutil.NewManualClock(scenario.StartMillis)

	opts := []note.Option{note.WithClock(clock), note.WithLogger(logger)}
	if len(scenario.Rules) > 0 {
		rb, err := note.NewRulebook(scenario.Rules...)
		if err != nil {
			return nil, fmt.Errorf("scenario rules: %w", err)
		}
		opts = append(opts, note.WithRulebook(rb))
	}

	h := &Harness{
		store:  st,
		note:   note.New(opts...),
		clock:  clock,
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i+1, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	result.Final = h.note.Snapshot()
	if err := st.SaveSnapshot(ctx, result.Final); err != nil {
		return nil, fmt.Errorf("failed to save final notebook: %w", err)
	}

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeStep runs one step, journals it and checks its expectation.
func (h *Harness) executeStep(ctx context.Context, n int, step Step, result *Result) error {
	action, arg, err := step.Action()
	if err != nil {
		return err
	}

	outcome, value, err := h.apply(action, arg, step)
	if err != nil {
		return err
	}

	ev := TraceEvent{
		Action:   action,
		Arg:      arg,
		AtMillis: h.clock.NowMillis(),
		Outcome:  outcome,
		Value:    value,
	}
	args := map[string]string{"arg": arg}
	if value != "" {
		args["value"] = value
	}
	ev.Seq, err = h.store.AppendEvent(ctx, store.Event{
		Action:   action,
		Args:     args,
		Outcome:  outcome,
		AtMillis: ev.AtMillis,
	})
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	result.AddTrace(ev)

	h.logger.Debug("step executed", "n", n, "action", action, "outcome", outcome)

	for _, msg := range checkExpect(step.Expect, outcome, value) {
		result.AddError(fmt.Sprintf("step %d (%s %q): %s", n, action, arg, msg))
	}
	return nil
}

// apply performs the action and returns its outcome and read value.
// Notebook errors become outcomes; only malformed steps return an error.
func (h *Harness) apply(action, arg string, step Step) (outcome, value string, err error) {
	switch action {
	case ActionWrite:
		return OutcomeOf(h.note.WriteName(arg), OutcomeOK), "", nil

	case ActionCause, ActionDetails:
		write := h.note.WriteDeathCause
		if action == ActionDetails {
			write = h.note.WriteDetails
		}
		accepted, err := write(arg)
		if err != nil {
			return OutcomeOf(err, ""), "", nil
		}
		if accepted {
			return OutcomeAccepted, "", nil
		}
		return OutcomeRejected, "", nil

	case ActionCauseOf, ActionDetailsOf:
		read := h.note.DeathCause
		if action == ActionDetailsOf {
			read = h.note.DeathDetails
		}
		v, err := read(arg)
		if err != nil {
			return OutcomeOf(err, ""), "", nil
		}
		return OutcomeOK, v, nil

	case ActionWritten:
		return OutcomeOK, strconv.FormatBool(h.note.IsNameWritten(arg)), nil

	case ActionRule:
		rule, err := h.note.GetRule(*step.Rule)
		if err != nil {
			return OutcomeOf(err, ""), "", nil
		}
		return OutcomeOK, rule, nil

	case ActionAdvance:
		d, err := time.ParseDuration(arg)
		if err != nil {
			return "", "", fmt.Errorf("advance: %w", err)
		}
		if d < 0 {
			return "", "", fmt.Errorf("advance: negative duration %s", arg)
		}
		h.clock.Advance(d)
		return OutcomeOK, "", nil
	}

	return "", "", fmt.Errorf("unknown action %q", action)
}

// OutcomeOf maps a notebook error to its outcome, or returns ok if err
// is nil.
func OutcomeOf(err error, ok string) string {
	switch {
	case err == nil:
		return ok
	case note.IsInvalidArgument(err):
		return OutcomeInvalidArgument
	case note.IsInvalidState(err):
		return OutcomeInvalidState
	default:
		return "error: " + err.Error()
	}
}

// checkExpect compares a step's outcome with its expectation and returns
// one message per mismatch.
func checkExpect(e *Expect, outcome, value string) []string {
	isError := outcome != OutcomeOK && outcome != OutcomeAccepted && outcome != OutcomeRejected

	if e == nil {
		if isError {
			return []string{fmt.Sprintf("unexpected error outcome %s", outcome)}
		}
		return nil
	}

	var msgs []string
	if e.Error != "" {
		if outcome != e.Error {
			msgs = append(msgs, fmt.Sprintf("expected error %s, got outcome %s", e.Error, outcome))
		}
		return msgs
	}
	if isError {
		return []string{fmt.Sprintf("unexpected error outcome %s", outcome)}
	}

	if e.Accepted != nil {
		want := OutcomeRejected
		if *e.Accepted {
			want = OutcomeAccepted
		}
		if outcome != want {
			msgs = append(msgs, fmt.Sprintf("expected %s, got %s", want, outcome))
		}
	}
	if e.Value != nil && *e.Value != value {
		msgs = append(msgs, fmt.Sprintf("value mismatch: %s", Diff(*e.Value, value)))
	}
	return msgs
}

// Diff renders the character-level difference from want to got as
// "[-deleted-]{+inserted+}" markup around the common text.
func Diff(want, got string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(want, got, false))

	var buf strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			buf.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			buf.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			buf.WriteString("{+" + d.Text + "+}")
		}
	}
	return buf.String()
}
