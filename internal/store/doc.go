// Package store provides SQLite-backed persistence for a notebook.
//
// A database holds exactly one notebook:
//   - notebook: singleton row with the notebook id (UUIDv7) and the cursor
//   - records: one row per written name, with its first-write position
//   - events: append-only journal of operations, args as canonical JSON
//
// Journal reads are ordered by seq ASC. Wall-clock columns (created_at_ms,
// at_ms) are data, never ordering keys.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
