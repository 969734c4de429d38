// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [OutcomeRepository] : Match outcome caching with source-id lookups for repeat runs
//   - [PlaylistRepository] : Playlists created on Spotify by bridge runs
//   - [RunRepository] : Bridge run summaries for history inspection
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42, outcome #1500) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
