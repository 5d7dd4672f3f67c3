// Package store provides SQLite-backed storage for simulated loader
// sessions.
//
// Each session records:
//   - Sessions: one row per run, with the scenario name and final flags
//   - Queue entries: what the loader queued before the SDK loaded
//   - Trace events: what the SDK observed after it loaded
//
// This is an audit log of runs. It never feeds a live queue.
//
// # Ordering
//
// All ordering uses seq INTEGER columns (logical clocks), never
// timestamps. Queries order by seq ASC, so reads are identical across
// replays.
//
// # Idempotency
//
// Writes use ON CONFLICT DO NOTHING; writing the same session twice is a
// no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Payloads are canonical JSON (see internal/trace).
package store
