// Package models defines domain entities and persistence interfaces for the VGX catalog bridge.
//
// The package contains three categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [Descriptor] : A source-catalog track's identifying metadata (VipVGM roster entry)
//   - [Candidate] : A Spotify search result considered as a possible match
//   - [Playlist] : Basic playlist metadata from Spotify
//
// 2. Pipeline results:
//   - [MatchOutcome] : The final classification of one descriptor's resolution
//   - [RunReport] : Aggregate over all outcomes of a run, with summary statistics
//
// 3. Persistent Entities: Database-backed models with full lifecycle management
//   - [PersistedOutcome] : Cached match outcomes keyed by source id
//   - [PersistedPlaylist] : Playlists created on Spotify by past runs
//   - [PersistedRun] : Run history with counts and timing
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
