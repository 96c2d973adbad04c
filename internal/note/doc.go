// Package note implements the notebook: a record store that files a
// time-windowed record under a name, plus the static rulebook.
//
// # Records
//
// A Record is an immutable value holding a cause, details and the clock
// reading at which it was produced. Writing a name files a default record
// (cause "heart attack", empty details). Amendments never mutate a record:
// an accepted amendment replaces it with a new Record stamped at the time of
// the amendment, so each accepted amendment restarts the windows.
//
// # Amendment Windows
//
// Amendments always target the most recently written name (the cursor):
//
//   - cause:   accepted while now < createdAt + 40ms
//   - details: accepted while now < createdAt + 6040ms
//
// A rejected amendment leaves the store untouched and reports false.
// Queries work on any name ever written.
//
// # Time
//
// Windows are checked by comparing the record's creation reading against
// Clock.NowMillis at call time. There are no timers. Tests inject a manual
// clock (see internal/testutil) instead of sleeping.
//
// # Concurrency
//
// Note holds no lock. The cursor and the read-decide-write sequence of an
// amendment are not atomic, so concurrent callers must serialize access to
// the whole Note themselves.
package note
