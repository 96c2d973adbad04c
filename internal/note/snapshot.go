package note

// Snapshot is the exportable state of a Note.
type Snapshot struct {
	Entries []Entry `json:"entries"`
	Last    string  `json:"last,omitempty"`
}

// Entry is one filed record in a Snapshot.
type Entry struct {
	Name      string `json:"name"`
	Cause     string `json:"cause"`
	Details   string `json:"details"`
	CreatedAt int64  `json:"created_at"`
}

// Snapshot exports the note's records in first-write order, and its cursor.
func (n *Note) Snapshot() Snapshot {
	s := Snapshot{
		Entries: make([]Entry, 0, len(n.names)),
		Last:    n.last,
	}
	for _, name := range n.names {
		rec := n.records[name]
		s.Entries = append(s.Entries, Entry{
			Name:      name,
			Cause:     rec.cause,
			Details:   rec.details,
			CreatedAt: rec.createdAt,
		})
	}
	return s
}

// Restore replaces the note's records and cursor with those in s.
// Returns an ErrCodeInvalidArgument error, leaving the note untouched, if s
// has an empty or duplicate name or a cursor that names no entry.
func (n *Note) Restore(s Snapshot) error {
	records := make(map[string]Record, len(s.Entries))
	names := make([]string, 0, len(s.Entries))
	for i, e := range s.Entries {
		if e.Name == "" {
			return invalidArgument("", "snapshot entry %d has an empty name", i)
		}
		if _, dup := records[e.Name]; dup {
			return invalidArgument(e.Name, "snapshot entry %d duplicates a name", i)
		}
		records[e.Name] = Record{cause: e.Cause, details: e.Details, createdAt: e.CreatedAt}
		names = append(names, e.Name)
	}
	if s.Last != "" {
		if _, ok := records[s.Last]; !ok {
			return invalidArgument(s.Last, "snapshot cursor names no entry")
		}
	}

	n.records = records
	n.names = names
	n.last = s.Last
	return nil
}
