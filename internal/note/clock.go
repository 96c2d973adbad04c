package note

import "time"

// Clock supplies the millisecond readings that amendment windows are
// measured against. Readings must never decrease.
type Clock interface {
	NowMillis() int64
}

// SystemClock reads the wall clock in Unix milliseconds. Readings stay
// comparable across processes sharing a persisted notebook.
type SystemClock struct{}

// NowMillis returns the current Unix time in milliseconds.
func (SystemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}
