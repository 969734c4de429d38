// Package matcher implements the track matching core: query variant
// construction, similarity scoring, genre filtering, and per-descriptor
// resolution against a search provider.
//
// The pipeline for one descriptor is:
//
//  1. [BuildVariants] derives an ordered list of search queries, most
//     specific first, always ending with the literal title as a fallback.
//  2. [Resolver.Resolve] issues each variant in order, scores candidates with
//     [Score], applies the configured [Filter], and accepts the first
//     candidate clearing both the similarity threshold and the filter.
//  3. The first accepted candidate short-circuits all remaining variants.
//
// Transport failures are retried per attempt with exponential backoff up to a
// configured cap; authentication failures are returned to the caller so the
// whole run can be aborted. [BuildVariants], [Score], and [Filter.Acceptable]
// are pure functions and require no network access to test.
package matcher
