// Package tasks orchestrates the VipVGM-to-Spotify bridge with real-time progress reporting.
//
// # Core Operations
//
// The [BridgeEngine] interface defines two operations:
//
//  1. [BridgeEngine.Run] : Full roster → playlist bridge
//     - Extracts the track roster from the catalog service
//     - Resolves each track against Spotify with a bounded worker pool
//     - Creates the destination playlist and adds every matched URI
//     - Optionally writes a results report for later inspection
//
//  2. [BridgeEngine.Match] : Match-only dry pass
//     - Same extraction and resolution as Run
//     - Never touches the user's library
//     - Returns the aggregate report with one outcome per roster track
//
// # Concurrency
//
// Resolution fans out over a worker pool sharing a single token-bucket rate
// limiter, so the aggregate request rate stays constant regardless of worker
// count. Outcomes are written to slots indexed by roster position, which
// keeps the report in roster order without sorting. Authentication failures
// abort the whole run; per-track failures are contained in their outcome.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Outcome Caching
//
// The optional [OutcomeCacher] interface enables automatic outcome persistence during runs.
//
// Outcomes are cached silently (errors ignored) to avoid disrupting runs.
//
// # Implementation
//
// [MatchEngine] implements [BridgeEngine] with dependencies on:
//   - [services.CatalogService] : VipVGM roster client
//   - [services.SearchService] and [services.PlaylistService] : Spotify API client
//   - [OutcomeCacher] : Optional persistence layer (repositories.OutcomeRepository)
package tasks
