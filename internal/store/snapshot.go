package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/deathnote/internal/note"
)

// SaveSnapshot replaces the stored records and cursor with snap.
// The replacement is atomic: readers see either the old or the new notebook.
func (s *Store) SaveSnapshot(ctx context.Context, snap note.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("save snapshot: clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (name, position, cause, details, created_at_ms)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save snapshot: prepare: %w", err)
	}
	defer stmt.Close()

	for i, e := range snap.Entries {
		if _, err = stmt.ExecContext(ctx, e.Name, i, e.Cause, e.Details, e.CreatedAt); err != nil {
			return fmt.Errorf("save snapshot: insert %q: %w", e.Name, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `UPDATE notebook SET last_name = ? WHERE id = 1`, snap.Last); err != nil {
		return fmt.Errorf("save snapshot: update cursor: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored records in first-write order, and the cursor.
// An empty database yields a snapshot with no entries (not nil).
func (s *Store) LoadSnapshot(ctx context.Context) (note.Snapshot, error) {
	var last string
	err := s.db.QueryRowContext(ctx, `SELECT last_name FROM notebook WHERE id = 1`).Scan(&last)
	if err != nil {
		return note.Snapshot{}, fmt.Errorf("load snapshot: read cursor: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, cause, details, created_at_ms
		FROM records
		ORDER BY position ASC
	`)
	if err != nil {
		return note.Snapshot{}, fmt.Errorf("load snapshot: query records: %w", err)
	}
	defer rows.Close()

	entries := []note.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return note.Snapshot{}, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return note.Snapshot{}, fmt.Errorf("load snapshot: iterate records: %w", err)
	}

	return note.Snapshot{Entries: entries, Last: last}, nil
}

// ReadEntry returns the stored record for name.
// found is false if name has no record.
func (s *Store) ReadEntry(ctx context.Context, name string) (entry note.Entry, found bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, cause, details, created_at_ms
		FROM records
		WHERE name = ?
	`, name)
	entry, err = scanEntry(row)
	if err == sql.ErrNoRows {
		return note.Entry{}, false, nil
	}
	if err != nil {
		return note.Entry{}, false, err
	}
	return entry, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (note.Entry, error) {
	var e note.Entry
	if err := row.Scan(&e.Name, &e.Cause, &e.Details, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return note.Entry{}, err
		}
		return note.Entry{}, fmt.Errorf("scan record: %w", err)
	}
	return e, nil
}
