package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// RulesResult is the output of the rules command without an index.
type RulesResult struct {
	Rules []string `json:"rules"`
}

func (r RulesResult) String() string {
	lines := make([]string, len(r.Rules))
	for i, rule := range r.Rules {
		lines[i] = fmt.Sprintf("%2d. %s", i+1, rule)
	}
	return strings.Join(lines, "\n")
}

// RuleResult is the output of the rules command with an index.
type RuleResult struct {
	Index int    `json:"index"`
	Rule  string `json:"rule"`
}

func (r RuleResult) String() string {
	return r.Rule
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules [index]",
		Short: "Print the notebook's rules",
		Long: `Print every rule, or the rule at a 1-based index.

The rulebook is built in unless --rules (or DEATHNOTE_RULES) names a CUE
file of the form:

  rules: ["The human whose name is written in this note shall die.", ...]

Example:
  deathnote rules
  deathnote rules 1`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(opts, args, cmd)
		},
	}
}

func runRules(opts *RootOptions, args []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	rb, err := opts.rulebook()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return out.Success(RulesResult{Rules: rb.Rules()})
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("rule index %q is not a number", args[0]))
	}
	rule, err := rb.Rule(index)
	if err != nil {
		return reportNoteError(out, err)
	}
	return out.Success(RuleResult{Index: index, Rule: rule})
}
