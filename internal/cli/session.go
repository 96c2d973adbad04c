package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/roach88/deathnote/internal/config"
	"github.com/roach88/deathnote/internal/note"
	"github.com/roach88/deathnote/internal/store"
)

// session is a notebook loaded from the database for one command.
type session struct {
	store      *store.Store
	note       *note.Note
	clock      note.Clock
	notebookID string
	logger     *slog.Logger
}

// openSession opens the database and restores the notebook from it.
// The caller must Close the session.
func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	rules, err := opts.rulebook()
	if err != nil {
		return nil, err
	}

	logger := opts.logger()
	logger.Debug("opening notebook", "path", opts.DBPath)

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open notebook database", err)
	}

	id, err := st.NotebookID(ctx)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to read notebook", err)
	}

	snap, err := st.LoadSnapshot(ctx)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to read notebook", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = note.SystemClock{}
	}
	n := note.New(note.WithClock(clock), note.WithRulebook(rules), note.WithLogger(logger))
	if err := n.Restore(snap); err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "stored notebook is inconsistent", err)
	}

	logger.Debug("notebook ready", "id", id, "records", len(snap.Entries))
	return &session{store: st, note: n, clock: clock, notebookID: id, logger: logger}, nil
}

// Close closes the database.
func (s *session) Close() error {
	return s.store.Close()
}

// commit journals an operation and, if changed, saves the notebook.
func (s *session) commit(ctx context.Context, action string, args map[string]string, outcome string, changed bool) error {
	if changed {
		if err := s.store.SaveSnapshot(ctx, s.note.Snapshot()); err != nil {
			return WrapExitError(ExitCommandError, "failed to save notebook", err)
		}
	}

	seq, err := s.store.AppendEvent(ctx, store.Event{
		Action:   action,
		Args:     args,
		Outcome:  outcome,
		AtMillis: s.clock.NowMillis(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to journal operation", err)
	}

	s.logger.Debug("operation journaled", "seq", seq, "action", action, "outcome", outcome)
	return nil
}

// rulebook returns the configured rulebook, or the built-in one.
func (opts *RootOptions) rulebook() (*note.Rulebook, error) {
	if opts.RulesPath == "" {
		return note.DefaultRulebook(), nil
	}
	rb, err := config.LoadRulebook(opts.RulesPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load rulebook", err)
	}
	return rb, nil
}

// logger returns the configured logger, or one that discards.
func (opts *RootOptions) logger() *slog.Logger {
	if opts.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return opts.Logger
}

// reportNoteError renders a notebook error and returns the matching
// ExitError. Errors that are not notebook errors become command errors.
func reportNoteError(out *OutputFormatter, err error) error {
	var ne *note.Error
	if !errors.As(err, &ne) {
		return WrapExitError(ExitCommandError, "notebook operation failed", err)
	}

	code := ErrCodeInvalidArgument
	if ne.Code == note.ErrCodeInvalidState {
		code = ErrCodeInvalidState
	}

	var details any
	if ne.Name != "" {
		details = map[string]string{"name": ne.Name}
	}
	if ferr := out.Error(code, ne.Message, details); ferr != nil {
		return ferr
	}
	return &ExitError{Code: ExitFailure, Message: ne.Message, Err: err, Reported: true}
}
