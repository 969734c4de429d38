// Package web implements an HTMX-based web application mirroring the TUI functionality.
//
// # HTMX Web Application Implementation Plan
//
// # Architecture
//
// The web app replicates the four-view TUI workflow using server-side rendering
// with HTMX for dynamic updates. Each view corresponds to a template and handler:
//
//  1. Catalog List: Server-rendered table of the VipVGM roster with search
//  2. Bridge Confirm: Modal confirmation with hx-post trigger
//  3. Progress Monitor: SSE (Server-Sent Events) streaming match progress
//  4. Results Display: Final report with matched/missed tracks breakdown
//
// Core Components
//
//   - HTTP Server: net/http server with html/template rendering
//   - Service Integration: Uses the same services and tasks.BridgeEngine as the TUI
//   - Session Management: Cookie-based sessions for OAuth state and user tracking
//   - SSE Handler: Streams real-time progress during bridge runs
//
// Routes
//
//	GET  /                  → Catalog roster view
//	GET  /auth/spotify      → OAuth initiation
//	GET  /callback          → OAuth completion (reuses internal/server handler)
//	GET  /catalog/search    → HTMX partial: filtered roster rows
//	POST /bridge            → Start bridge run, return SSE endpoint
//	GET  /bridge/{id}/stream → SSE progress stream
//	GET  /bridge/{id}/result → Final result view
//
// # State Management
//
// Unlike the TUI's in-memory state, the web app persists state in:
//   - Session cookies: Authentication tokens
//   - Run records: Match progress across requests via repositories.RunRepository
//   - In-memory channels: SSE connections for active runs
//
// # Progress Streaming
//
// Bridge progress uses Server-Sent Events:
//  1. POST /bridge creates a run record, returns run ID
//  2. Client opens SSE connection to /bridge/{id}/stream
//  3. Handler launches goroutine running BridgeEngine.Run
//  4. Progress channel updates stream as SSE events
//  5. On completion, send "done" event with redirect URL
//
// Implementation Tasks
//
//  1. HTTP server setup with route registration
//  2. Template structure with HTMX integration
//  3. Session middleware for auth state
//  4. Catalog handler with roster search partial
//  5. Bridge endpoint creating run records
//  6. SSE handler streaming progress updates
//  7. Result handler rendering the run report
//  8. OAuth handlers wrapping the existing callback server
package web
