// Package server provides the local HTTP plumbing for the Spotify OAuth2
// authorization code flow.
//
// # Callback Handler
//
// [CallbackHandler] implements the authorization code callback.
//
// The handler validates the state parameter (CSRF protection), exchanges the
// authorization code for tokens, and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Callback Server
//
// [CallbackServer] wraps [http.Server] for the lifetime of a single
// authorization: start it, direct the user's browser to the Spotify consent
// page, and call [CallbackServer.Wait] to block until the callback lands (or
// the flow times out). The server shuts itself down before Wait returns.
//
// # Current Usage
//
// When the user runs `vgx auth login`, a temporary HTTP server starts on the
// configured host and port (localhost:8080 by default), handles the redirect
// from Spotify, and shuts down after receiving the OAuth token. The resulting
// tokens are persisted to config.toml for subsequent commands.
package server
