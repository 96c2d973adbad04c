package harness

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Step actions.
const (
	ActionWrite     = "write"
	ActionCause     = "cause"
	ActionDetails   = "details"
	ActionCauseOf   = "cause_of"
	ActionDetailsOf = "details_of"
	ActionWritten   = "written"
	ActionRule      = "rule"
	ActionAdvance   = "advance"
)

// Error names usable in expect.error.
const (
	ErrorInvalidArgument = "invalid_argument"
	ErrorInvalidState    = "invalid_state"
)

// Scenario defines a notebook scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// StartMillis is the manual clock's initial value.
	StartMillis int64 `yaml:"start_ms,omitempty"`

	// Rules replaces the built-in rulebook when non-empty.
	Rules []string `yaml:"rules,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the journal and final notebook.
	// Supported types: final_state, trace_count, trace_order
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one notebook operation. Exactly one action field is set.
type Step struct {
	Write     *string `yaml:"write,omitempty"`
	Cause     *string `yaml:"cause,omitempty"`
	Details   *string `yaml:"details,omitempty"`
	CauseOf   *string `yaml:"cause_of,omitempty"`
	DetailsOf *string `yaml:"details_of,omitempty"`
	Written   *string `yaml:"written,omitempty"`
	Rule      *int    `yaml:"rule,omitempty"`
	Advance   *string `yaml:"advance,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the step must not fail.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Accepted is the expected amendment result (cause, details).
	Accepted *bool `yaml:"accepted,omitempty"`

	// Value is the expected read result (cause_of, details_of, written, rule).
	// written yields "true" or "false".
	Value *string `yaml:"value,omitempty"`

	// Error is the expected error: invalid_argument or invalid_state.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the journal or the final notebook.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_state": Read the stored record for Name and compare with State
	// - "trace_count": Check Action was journaled exactly Count times
	// - "trace_order": Check Actions were first journaled in this order
	Type string `yaml:"type"`

	// Name is the notebook entry to check (final_state).
	Name string `yaml:"name,omitempty"`

	// State contains expected record fields (final_state).
	// Subset match - only specified fields are validated.
	State *StateExpect `yaml:"expect,omitempty"`

	// Action is the step action to count (trace_count).
	Action string `yaml:"action,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count *int `yaml:"count,omitempty"`

	// Actions is the expected action order (trace_order).
	Actions []string `yaml:"actions,omitempty"`
}

// StateExpect holds expected record fields for final_state.
type StateExpect struct {
	Written *bool   `yaml:"written,omitempty"`
	Cause   *string `yaml:"cause,omitempty"`
	Details *string `yaml:"details,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState = "final_state"
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
)

// Action returns the step's action and its argument rendered as text.
// Returns an error unless exactly one action field is set.
func (s Step) Action() (action, arg string, err error) {
	set := 0
	pick := func(name string, v *string) {
		if v != nil {
			set++
			action, arg = name, *v
		}
	}
	pick(ActionWrite, s.Write)
	pick(ActionCause, s.Cause)
	pick(ActionDetails, s.Details)
	pick(ActionCauseOf, s.CauseOf)
	pick(ActionDetailsOf, s.DetailsOf)
	pick(ActionWritten, s.Written)
	pick(ActionAdvance, s.Advance)
	if s.Rule != nil {
		set++
		action, arg = ActionRule, strconv.Itoa(*s.Rule)
	}

	switch set {
	case 0:
		return "", "", fmt.Errorf("step has no action")
	case 1:
		return action, arg, nil
	default:
		return "", "", fmt.Errorf("step sets %d actions, want exactly one", set)
	}
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is invalid.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertion %d: %w", i+1, err)
		}
	}

	return nil
}

func validateStep(step Step) error {
	action, arg, err := step.Action()
	if err != nil {
		return err
	}

	if action == ActionAdvance {
		d, err := time.ParseDuration(arg)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("advance: negative duration %s", arg)
		}
	}

	e := step.Expect
	if e == nil {
		return nil
	}
	switch e.Error {
	case "", ErrorInvalidArgument, ErrorInvalidState:
	default:
		return fmt.Errorf("expect.error: unknown error %q", e.Error)
	}
	if e.Accepted != nil && action != ActionCause && action != ActionDetails {
		return fmt.Errorf("expect.accepted is only valid for cause and details, not %s", action)
	}
	if e.Value != nil {
		switch action {
		case ActionCauseOf, ActionDetailsOf, ActionWritten, ActionRule:
		default:
			return fmt.Errorf("expect.value is only valid for reads, not %s", action)
		}
	}
	if e.Error != "" && (e.Accepted != nil || e.Value != nil) {
		return fmt.Errorf("expect.error excludes accepted and value")
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertFinalState:
		if a.Name == "" {
			return fmt.Errorf("final_state requires name")
		}
		if a.State == nil {
			return fmt.Errorf("final_state requires expect")
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("trace_count requires action")
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("trace_count requires a non-negative count")
		}
	case AssertTraceOrder:
		if len(a.Actions) < 2 {
			return fmt.Errorf("trace_order requires at least two actions")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
