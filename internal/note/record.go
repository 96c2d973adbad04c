package note

import "time"

// DefaultCause is the cause filed when none is written.
const DefaultCause = "heart attack"

const (
	// CauseWindow is how long after a record is produced its cause may
	// still be amended.
	CauseWindow = 40 * time.Millisecond

	// DetailsWindow is how long after a record is produced its details may
	// still be amended.
	DetailsWindow = 6000*time.Millisecond + CauseWindow
)

// Record is an immutable snapshot of what is filed under a name.
//
// Records are compared with ==. An amendment produces a new Record; the
// receiver is never changed.
type Record struct {
	cause     string
	details   string
	createdAt int64
}

// NewRecord returns a default record produced at the given reading.
func NewRecord(at int64) Record {
	return Record{cause: DefaultCause, createdAt: at}
}

// Cause returns the cause of death.
func (r Record) Cause() string { return r.cause }

// Details returns the details of death.
func (r Record) Details() string { return r.details }

// CreatedAt returns the clock reading (ms) at which r was produced.
func (r Record) CreatedAt() int64 { return r.createdAt }

// withCause returns a record carrying cause, stamped at now, if now is
// inside the cause window. Otherwise it returns r and false.
func (r Record) withCause(cause string, now int64) (Record, bool) {
	if !within(r.createdAt, now, CauseWindow) {
		return r, false
	}
	return Record{cause: cause, details: r.details, createdAt: now}, true
}

// withDetails is withCause for the details field and DetailsWindow.
func (r Record) withDetails(details string, now int64) (Record, bool) {
	if !within(r.createdAt, now, DetailsWindow) {
		return r, false
	}
	return Record{cause: r.cause, details: details, createdAt: now}, true
}

// within reports whether now < start + window.
func within(start, now int64, window time.Duration) bool {
	return now < start+window.Milliseconds()
}
