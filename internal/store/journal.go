package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/deathnote/internal/canon"
)

// Event is one journaled notebook operation.
type Event struct {
	Seq      int64             `json:"seq"`
	Action   string            `json:"action"`
	Args     map[string]string `json:"args"`
	Outcome  string            `json:"outcome"`
	AtMillis int64             `json:"at_ms"`
}

// AppendEvent journals ev and returns the sequence number assigned to it.
// ev.Seq is ignored. Args are stored as canonical JSON.
func (s *Store) AppendEvent(ctx context.Context, ev Event) (int64, error) {
	if ev.Action == "" {
		return 0, fmt.Errorf("append event: action is required")
	}
	args := ev.Args
	if args == nil {
		args = map[string]string{}
	}
	argsJSON, err := canon.Marshal(args)
	if err != nil {
		return 0, fmt.Errorf("append event: marshal args: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO events (action, args, outcome, at_ms)
		VALUES (?, ?, ?, ?)
	`, ev.Action, string(argsJSON), ev.Outcome, ev.AtMillis)
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append event: read seq: %w", err)
	}
	return seq, nil
}

// ReadEvents returns journaled events ordered by seq ASC.
// If action is non-empty only events with that action are returned.
//
// Returns an empty slice (not nil) if there are no matching events.
func (s *Store) ReadEvents(ctx context.Context, action string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, action, args, outcome, at_ms
		FROM events
		WHERE ? = '' OR action = ?
		ORDER BY seq ASC
	`, action, action)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		var argsJSON string
		if err := rows.Scan(&ev.Seq, &ev.Action, &argsJSON, &ev.Outcome, &ev.AtMillis); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(argsJSON), &ev.Args); err != nil {
			return nil, fmt.Errorf("event %d: unmarshal args: %w", ev.Seq, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// CountEvents returns the number of journaled events with action,
// or of all events if action is empty.
func (s *Store) CountEvents(ctx context.Context, action string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events WHERE ? = '' OR action = ?
	`, action, action).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
