// Package store provides a SQLite-backed ledger of recorded fingerprints.
//
// The ledger is append-only. Each record holds one fingerprint (schema plus
// value and schema digests) under a logical name, such as an outbound call
// site or an endpoint, inside a recording session.
//
// # Identity and Ordering
//
// Record IDs are content-addressed: canonical.RecordID over session, name,
// both digests and seq. Writing the same record twice is a no-op.
//
// Ordering always uses seq, a per-ledger logical clock, never recorded_at.
// Every multi-row query ends in ORDER BY seq ASC, id COLLATE BINARY ASC so
// results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
