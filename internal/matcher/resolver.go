package matcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"time"

	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/shared"
)

// SearchFunc issues one search query against the candidate provider.
type SearchFunc func(ctx context.Context, query string) ([]models.Candidate, error)

// Config carries the resolver tunables. All values come from configuration;
// none are hardcoded.
type Config struct {
	Threshold   float64       // Minimum acceptable similarity score (0-1)
	MaxAttempts int           // Search attempts per variant before demoting to Error
	Backoff     time.Duration // Base delay, doubled per retry
}

// Resolver resolves a single descriptor to a match outcome.
type Resolver struct {
	search SearchFunc
	filter *Filter
	cfg    Config
}

// NewResolver creates a Resolver over the given search function and genre filter.
func NewResolver(search SearchFunc, filter *Filter, cfg Config) *Resolver {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	return &Resolver{search: search, filter: filter, cfg: cfg}
}

// attemptState tracks the retry state machine for one variant's search.
type attemptState int

const (
	attemptPending attemptState = iota
	attemptAttempting
	attemptSuccess
	attemptRetryable
	attemptFatal
)

// Resolve walks the descriptor's query variants in order of specificity and
// returns the outcome. The returned error is non-nil only for failures that
// must abort the whole run (authentication, cancellation); per-track failures
// are contained in the outcome.
func (r *Resolver) Resolve(ctx context.Context, d models.Descriptor) (models.MatchOutcome, error) {
	outcome := models.MatchOutcome{Descriptor: d, Status: models.StatusNotFound}

	var filteredReason string

	for _, variant := range BuildVariants(d) {
		candidates, attempts, err := r.searchWithRetry(ctx, variant)
		outcome.Attempts = attempts

		switch {
		case err == nil:
		case errors.Is(err, shared.ErrAuthFailed) || errors.Is(err, context.Canceled):
			outcome.Status = models.StatusError
			outcome.Reason = err.Error()
			return outcome, err
		default:
			outcome.Status = models.StatusError
			outcome.Reason = err.Error()
			return outcome, nil
		}

		chosen, score, reason := r.pick(d, candidates)
		if chosen != nil {
			outcome.Status = models.StatusMatched
			outcome.Chosen = chosen
			outcome.Score = score
			outcome.Reason = ""
			return outcome, nil
		}
		if reason != "" && filteredReason == "" {
			filteredReason = reason
		}
	}

	if filteredReason != "" {
		outcome.Status = models.StatusFiltered
		outcome.Reason = filteredReason
	}
	return outcome, nil
}

// pick scores candidates in descending similarity order, applies the genre
// filter, and returns the first acceptable candidate. When every candidate
// above the threshold was rejected by genre, the rejecting token is returned
// so the caller can report Filtered rather than NotFound.
func (r *Resolver) pick(d models.Descriptor, candidates []models.Candidate) (*models.Candidate, float64, string) {
	type scored struct {
		candidate models.Candidate
		score     float64
	}

	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if s := Score(d, c); s >= r.cfg.Threshold {
			ranked = append(ranked, scored{candidate: c, score: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var rejectedBy string
	for _, sc := range ranked {
		ok, token := r.filter.Acceptable(sc.candidate)
		if ok {
			c := sc.candidate
			return &c, sc.score, ""
		}
		if rejectedBy == "" {
			rejectedBy = token
		}
	}

	return nil, 0, rejectedBy
}

// searchWithRetry runs the per-attempt state machine for one variant:
// pending → attempting → success, or retryable → backoff → attempting again,
// or fatal. Retries are bounded by MaxAttempts with doubling backoff.
func (r *Resolver) searchWithRetry(ctx context.Context, query string) ([]models.Candidate, int, error) {
	state := attemptPending
	attempts := 0
	delay := r.cfg.Backoff

	var candidates []models.Candidate
	var lastErr error

	for state != attemptSuccess && state != attemptFatal {
		state = attemptAttempting
		attempts++

		candidates, lastErr = r.search(ctx, query)

		switch {
		case lastErr == nil:
			state = attemptSuccess
		case !retryable(lastErr):
			state = attemptFatal
		case attempts >= r.cfg.MaxAttempts:
			state = attemptFatal
		default:
			state = attemptRetryable
			select {
			case <-ctx.Done():
				return nil, attempts, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	if state == attemptFatal {
		return nil, attempts, fmt.Errorf("search %q: %w", query, lastErr)
	}
	return candidates, attempts, nil
}

// retryable classifies transport errors that warrant another attempt:
// rate limits, timeouts, and upstream 5xx responses. Auth failures are never
// retried because no further call can succeed.
func retryable(err error) bool {
	if errors.Is(err, shared.ErrAuthFailed) || errors.Is(err, shared.ErrNotAuthenticated) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, shared.ErrRateLimited) || errors.Is(err, shared.ErrTimeout) || errors.Is(err, shared.ErrServiceUnavailable) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, shared.ErrAPIRequest)
}
