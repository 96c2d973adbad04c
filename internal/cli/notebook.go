package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/deathnote/internal/harness"
	"github.com/roach88/deathnote/internal/note"
)

// WriteResult is the output of the write command.
type WriteResult struct {
	Name        string `json:"name"`
	Cause       string `json:"cause"`
	CreatedAtMs int64  `json:"created_at_ms"`
}

func (r WriteResult) String() string {
	return fmt.Sprintf("Wrote %q (cause: %s)", r.Name, r.Cause)
}

// NewWriteCommand creates the write command.
func NewWriteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "write <name>",
		Short: "Write a name in the notebook",
		Long: `Write a name in the notebook with the default cause of death.

The name becomes the target of the next cause and details commands.
Writing a name again replaces its record.

Example:
  deathnote write "Danilo Pianini"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(cmd.Context(), opts, args[0], cmd)
		},
	}
}

func runWrite(ctx context.Context, opts *RootOptions, name string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	out.NotebookID = s.notebookID

	opErr := s.note.WriteName(name)
	outcome := harness.OutcomeOf(opErr, harness.OutcomeOK)
	if err := s.commit(ctx, harness.ActionWrite, map[string]string{"name": name}, outcome, opErr == nil); err != nil {
		return err
	}
	if opErr != nil {
		return reportNoteError(out, opErr)
	}

	rec, err := s.note.Record(name)
	if err != nil {
		return reportNoteError(out, err)
	}
	return out.Success(WriteResult{Name: name, Cause: rec.Cause(), CreatedAtMs: rec.CreatedAt()})
}

// amendField names the record field an amend command changes.
type amendField string

const (
	fieldCause   amendField = "cause"
	fieldDetails amendField = "details"
)

func (f amendField) label() string {
	if f == fieldCause {
		return "Cause"
	}
	return "Details"
}

// AmendResult is the output of the cause and details commands.
type AmendResult struct {
	Field    string `json:"field"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Accepted bool   `json:"accepted"`
}

func (r AmendResult) String() string {
	if r.Accepted {
		return fmt.Sprintf("%s of %q set to %q", amendField(r.Field).label(), r.Name, r.Value)
	}
	return fmt.Sprintf("Too late: %s of %q can no longer be changed", r.Field, r.Name)
}

// NewAmendCommand creates the cause or details command.
func NewAmendCommand(opts *RootOptions, field amendField) *cobra.Command {
	window := note.CauseWindow
	if field == fieldDetails {
		window = note.DetailsWindow
	}

	return &cobra.Command{
		Use:   string(field) + " [text]",
		Short: fmt.Sprintf("Write the %s of death for the last written name", field),
		Long: fmt.Sprintf(`Write the %[1]s of death for the most recently written name.

The %[1]s can only be changed within %[2]s of the name (or of the last
accepted change). A late change is reported and leaves the record as is.

Exit codes:
  0 - Change accepted or rejected as too late
  1 - No name written yet, or no %[1]s given
  2 - Command error`, field, window),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAmend(cmd.Context(), opts, field, args, cmd)
		},
	}
}

func runAmend(ctx context.Context, opts *RootOptions, field amendField, args []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	out.NotebookID = s.notebookID

	journalArgs := map[string]string{}
	var (
		value    string
		accepted bool
		opErr    error
	)
	if len(args) == 0 {
		opErr = &note.Error{Code: note.ErrCodeInvalidState, Message: fmt.Sprintf("no %s given", field)}
	} else {
		value = args[0]
		journalArgs["value"] = value
		write := s.note.WriteDeathCause
		if field == fieldDetails {
			write = s.note.WriteDetails
		}
		accepted, opErr = write(value)
	}

	ok := harness.OutcomeRejected
	if accepted {
		ok = harness.OutcomeAccepted
	}
	if err := s.commit(ctx, string(field), journalArgs, harness.OutcomeOf(opErr, ok), accepted); err != nil {
		return err
	}
	if opErr != nil {
		return reportNoteError(out, opErr)
	}

	name, _ := s.note.Last()
	return out.Success(AmendResult{Field: string(field), Name: name, Value: value, Accepted: accepted})
}

// ShowResult is the output of the show command.
type ShowResult struct {
	Name        string `json:"name"`
	Cause       string `json:"cause"`
	Details     string `json:"details"`
	CreatedAtMs int64  `json:"created_at_ms"`
}

func (r ShowResult) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Name:    %s\n", r.Name)
	fmt.Fprintf(&buf, "Cause:   %s\n", r.Cause)
	fmt.Fprintf(&buf, "Details: %s", r.Details)
	return buf.String()
}

// NewShowCommand creates the show command.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <name>",
		Short:         "Show the cause and details filed under a name",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), opts, args[0], cmd)
		},
	}
}

func runShow(ctx context.Context, opts *RootOptions, name string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	out.NotebookID = s.notebookID

	rec, err := s.note.Record(name)
	if err != nil {
		return reportNoteError(out, err)
	}
	return out.Success(ShowResult{
		Name:        name,
		Cause:       rec.Cause(),
		Details:     rec.Details(),
		CreatedAtMs: rec.CreatedAt(),
	})
}

// ListResult is the output of the list command.
type ListResult struct {
	Entries []note.Entry `json:"entries"`
	Last    string       `json:"last,omitempty"`
}

func (r ListResult) String() string {
	if len(r.Entries) == 0 {
		return "Notebook is empty."
	}
	lines := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		marker := " "
		if e.Name == r.Last {
			marker = "*"
		}
		lines[i] = fmt.Sprintf("%s %s: %s", marker, e.Name, e.Cause)
		if e.Details != "" {
			lines[i] += " (" + e.Details + ")"
		}
	}
	return strings.Join(lines, "\n")
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List written names in the order they were first written",
		Long: `List written names in the order they were first written.

The most recently written name is marked with "*".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), opts, cmd)
		},
	}
}

func runList(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	out.NotebookID = s.notebookID

	snap := s.note.Snapshot()
	return out.Success(ListResult{Entries: snap.Entries, Last: snap.Last})
}
