package note

import (
	"io"
	"log/slog"
)

// Note is the record store.
//
// INVARIANTS:
//   - every name in names has exactly one record, and vice versa
//   - names keeps first-write order; rewriting a name does not move it
//   - last is "" (no cursor) or a key of records
//
// Note is not safe for concurrent use.
type Note struct {
	clock   Clock
	rules   *Rulebook
	logger  *slog.Logger
	records map[string]Record
	names   []string
	last    string
}

// Option configures a Note.
type Option func(*Note)

// WithClock sets the clock amendment windows are measured against.
// Default: SystemClock.
func WithClock(c Clock) Option {
	return func(n *Note) {
		n.clock = c
	}
}

// WithRulebook replaces the built-in rulebook.
func WithRulebook(r *Rulebook) Option {
	return func(n *Note) {
		n.rules = r
	}
}

// WithLogger sets the logger used for debug output. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(n *Note) {
		n.logger = l
	}
}

// New creates an empty notebook.
func New(opts ...Option) *Note {
	n := &Note{
		clock:   SystemClock{},
		rules:   DefaultRulebook(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		records: make(map[string]Record),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// GetRule returns the index-th rule of the note's rulebook, counting from 1.
func (n *Note) GetRule(index int) (string, error) {
	return n.rules.Rule(index)
}

// Rulebook returns the note's rulebook.
func (n *Note) Rulebook() *Rulebook {
	return n.rules
}

// WriteName files a fresh default record under name and moves the cursor
// to it. Writing a name again replaces its record and restarts both
// amendment windows.
func (n *Note) WriteName(name string) error {
	if name == "" {
		return invalidArgument(name, "name must not be empty")
	}
	if _, ok := n.records[name]; !ok {
		n.names = append(n.names, name)
	}
	rec := NewRecord(n.clock.NowMillis())
	n.records[name] = rec
	n.last = name

	n.logger.Debug("name written", "name", name, "created_at", rec.CreatedAt())
	return nil
}

// IsNameWritten reports whether name currently has a record.
func (n *Note) IsNameWritten(name string) bool {
	_, ok := n.records[name]
	return ok
}

// WriteDeathCause amends the cause of the most recently written name.
// Returns true if the amendment was inside CauseWindow and was applied.
// Returns an ErrCodeInvalidState error if no name has been written yet.
func (n *Note) WriteDeathCause(cause string) (bool, error) {
	return n.amend("cause", func(r Record, now int64) (Record, bool) {
		return r.withCause(cause, now)
	})
}

// WriteDetails amends the details of the most recently written name.
// Returns true if the amendment was inside DetailsWindow and was applied.
// Returns an ErrCodeInvalidState error if no name has been written yet.
func (n *Note) WriteDetails(details string) (bool, error) {
	return n.amend("details", func(r Record, now int64) (Record, bool) {
		return r.withDetails(details, now)
	})
}

// amend replaces the record under the cursor with the result of apply,
// if apply accepts.
func (n *Note) amend(field string, apply func(Record, int64) (Record, bool)) (bool, error) {
	if n.last == "" {
		return false, invalidState("no name written yet, cannot write %s", field)
	}
	prev := n.records[n.last]
	now := n.clock.NowMillis()
	next, ok := apply(prev, now)
	if !ok {
		n.logger.Debug("amendment rejected",
			"field", field,
			"name", n.last,
			"created_at", prev.CreatedAt(),
			"now", now,
		)
		return false, nil
	}
	n.records[n.last] = next

	n.logger.Debug("amendment accepted", "field", field, "name", n.last, "now", now)
	return true, nil
}

// DeathCause returns the cause filed under name.
// Returns an ErrCodeInvalidArgument error if name was never written.
func (n *Note) DeathCause(name string) (string, error) {
	rec, err := n.Record(name)
	if err != nil {
		return "", err
	}
	return rec.Cause(), nil
}

// DeathDetails returns the details filed under name.
// Returns an ErrCodeInvalidArgument error if name was never written.
func (n *Note) DeathDetails(name string) (string, error) {
	rec, err := n.Record(name)
	if err != nil {
		return "", err
	}
	return rec.Details(), nil
}

// Record returns the current record for name.
// Returns an ErrCodeInvalidArgument error if name was never written.
func (n *Note) Record(name string) (Record, error) {
	rec, ok := n.records[name]
	if !ok {
		return Record{}, invalidArgument(name, "name has never been written in this notebook")
	}
	return rec, nil
}

// Names returns every written name in first-write order.
func (n *Note) Names() []string {
	return append([]string(nil), n.names...)
}

// Last returns the cursor: the most recently written name.
// ok is false if no name has been written.
func (n *Note) Last() (name string, ok bool) {
	return n.last, n.last != ""
}
