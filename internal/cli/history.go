package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/deathnote/internal/canon"
	"github.com/roach88/deathnote/internal/store"
)

// HistoryResult is the output of the history command.
type HistoryResult struct {
	Events []store.Event `json:"events"`
}

func (r HistoryResult) String() string {
	if len(r.Events) == 0 {
		return "No operations journaled."
	}
	lines := make([]string, len(r.Events))
	for i, ev := range r.Events {
		args, err := canon.Marshal(ev.Args)
		if err != nil {
			args = []byte(fmt.Sprint(ev.Args))
		}
		lines[i] = fmt.Sprintf("#%d  %d  %-8s %s  %s", ev.Seq, ev.AtMillis, ev.Action, args, ev.Outcome)
	}
	return strings.Join(lines, "\n")
}

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Action string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the journal of notebook operations",
		Long: `Show every write, cause and details operation in the order it ran,
including rejected and failed ones.

Example:
  deathnote history
  deathnote history --action cause --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Action, "action", "", "only show operations of this kind (write|cause|details)")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	s, err := openSession(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()
	out.NotebookID = s.notebookID

	events, err := s.store.ReadEvents(ctx, opts.Action)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	return out.Success(HistoryResult{Events: events})
}

// StatusResult is the output of the status command.
type StatusResult struct {
	NotebookID string `json:"notebook_id"`
	Database   string `json:"database"`
	Records    int    `json:"records"`
	Last       string `json:"last,omitempty"`
	Operations int    `json:"operations"`
}

func (r StatusResult) String() string {
	last := r.Last
	if last == "" {
		last = "(none)"
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "Notebook:   %s\n", r.NotebookID)
	fmt.Fprintf(&buf, "Database:   %s\n", r.Database)
	fmt.Fprintf(&buf, "Names:      %d\n", r.Records)
	fmt.Fprintf(&buf, "Last:       %s\n", last)
	fmt.Fprintf(&buf, "Operations: %d", r.Operations)
	return buf.String()
}

// NewStatusCommand creates the status command.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show notebook id, size and the last written name",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), opts, cmd)
		},
	}
}

func runStatus(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	out.NotebookID = s.notebookID

	ops, err := s.store.CountEvents(ctx, "")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	last, _ := s.note.Last()
	return out.Success(StatusResult{
		NotebookID: s.notebookID,
		Database:   opts.DBPath,
		Records:    len(s.note.Names()),
		Last:       last,
		Operations: ops,
	})
}
