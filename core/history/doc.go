// Package history persists an audit trail of reconciliation runs.
//
// The retention algorithm itself keeps no state between invocations; this
// package only records what each run decided and did, so operators can answer
// "what deleted my instance and when". It is strictly best-effort: when the
// database cannot be opened the janitor logs a warning and reconciles without
// recording.
//
// # Storage
//
// GORM-backed, sqlite by default (one file next to the tool), mysql supported
// for teams recording janitor activity from several machines into a shared
// ops database.
//
// # Schema
//
//   - Run: one invocation (uuid, scope, counters, timestamps).
//   - Deletion: one deletion attempt under a run (entity, reason, outcome).
package history
