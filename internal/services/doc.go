// Package services defines the external collaborator interfaces for the
// bridge and implements them for Spotify and the VipVGM catalog.
//
// # Interfaces
//
// [SearchService] is the candidate provider consumed by the matching core;
// [PlaylistService] covers the one-shot playlist calls made after a run;
// [CatalogService] is the source-catalog extractor.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 (authorization code flow) for authentication.
// The [oauth2] client automatically refreshes expired tokens using the
// refresh token. Track search, playlist creation, batched track addition
// (100 per request), playlist unfollow, and profile/playlist reads map
// directly onto the Web API.
//
// # VipVGM Implementation
//
// [VipVGMService] fetches the roster.json endpoint with resty and converts
// roster entries to [models.Descriptor] values, skipping entries without a
// title or composer. Substring search and collection stats operate over the
// fetched roster without additional requests.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAuthFailed] : credentials rejected (401/403), aborts a run
//   - [shared.ErrRateLimited] : 429 responses, retried by the resolver
//   - [shared.ErrServiceUnavailable] : upstream 5xx, retried by the resolver
//   - [shared.ErrAPIRequest] : other HTTP failures
package services
