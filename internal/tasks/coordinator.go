package tasks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/desertthunder/vgx/internal/matcher"
	"github.com/desertthunder/vgx/internal/models"
	"golang.org/x/time/rate"
)

// joinDeadline bounds how long resolveAll waits for workers to drain after
// the job feed closes or the run is aborted. Variable so tests can shrink it.
var joinDeadline = 10 * time.Second

// resolveAll fans descriptors out to a pool of workers and collects one
// outcome per descriptor, in input order.
//
// Workers share a single rate limiter so the aggregate request rate stays
// bounded regardless of worker count. Outcomes land in preallocated slots
// indexed by the descriptor's original position, which keeps the result
// order deterministic without any post-hoc sorting.
func (e *MatchEngine) resolveAll(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	descriptors []models.Descriptor,
	resolver *matcher.Resolver,
	workers int,
) ([]models.MatchOutcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]models.MatchOutcome, len(descriptors))
	jobs := make(chan int, len(descriptors))

	var completed atomic.Int64
	var abortOnce sync.Once
	var abortErr error

	abort := func(err error) {
		abortOnce.Do(func() {
			abortErr = err
			cancel()
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				outcome, err := resolver.Resolve(ctx, descriptors[idx])
				outcomes[idx] = outcome

				step := int(completed.Add(1))
				e.sendProgress(prog, matchResultUpdate(step, len(descriptors), outcome))

				if e.cacher != nil {
					_ = e.cacher.CacheOutcome(outcome)
				}

				if err != nil {
					abort(err)
					return
				}
			}
		}()
	}

	for idx := range descriptors {
		select {
		case <-ctx.Done():
			goto done
		case jobs <- idx:
		}
	}

done:
	close(jobs)

	joined := make(chan struct{})
	go func() {
		wg.Wait()
		close(joined)
	}()

	select {
	case <-joined:
	case <-time.After(joinDeadline):
		// abandoned workers may still be writing their slots, so the
		// partial outcomes cannot be handed to the caller
		return nil, fmt.Errorf("workers failed to stop within %s", joinDeadline)
	}

	if abortErr != nil {
		return outcomes, abortErr
	}
	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// rateLimitedSearch wraps a search service call behind a shared limiter.
// Every search request, including retries of the same variant, waits for a
// token before hitting the API.
func rateLimitedSearch(limiter *rate.Limiter, search searchFn) matcher.SearchFunc {
	return func(ctx context.Context, query string) ([]models.Candidate, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return search(ctx, query)
	}
}
