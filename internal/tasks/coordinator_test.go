package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/vgx/internal/matcher"
	"github.com/desertthunder/vgx/internal/models"
	"golang.org/x/time/rate"
)

func TestResolveAll(t *testing.T) {
	t.Run("Context Cancellation Stops Workers", func(t *testing.T) {
		descriptors := testDescriptors(100)

		started := make(chan struct{})
		var once sync.Once
		search := func(ctx context.Context, query string) ([]models.Candidate, error) {
			once.Do(func() { close(started) })
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Millisecond):
			}
			return nil, nil
		}

		resolver := matcher.NewResolver(search, nil, matcher.Config{
			Threshold:   0.6,
			MaxAttempts: 1,
		})

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-started
			cancel()
		}()

		engine := NewMatchEngine(nil, nil, nil)
		_, err := engine.resolveAll(ctx, nil, descriptors, resolver, 4)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Join Deadline Abandons Stuck Workers", func(t *testing.T) {
		restore := joinDeadline
		joinDeadline = 20 * time.Millisecond
		defer func() { joinDeadline = restore }()

		release := make(chan struct{})
		defer close(release)

		// blocks without observing ctx, like a hung transport
		search := func(ctx context.Context, query string) ([]models.Candidate, error) {
			<-release
			return nil, nil
		}
		resolver := matcher.NewResolver(search, nil, matcher.Config{
			Threshold:   0.6,
			MaxAttempts: 1,
		})

		engine := NewMatchEngine(nil, nil, nil)
		outcomes, err := engine.resolveAll(context.Background(), nil, testDescriptors(2), resolver, 1)
		if err == nil {
			t.Fatal("expected error when workers fail to stop")
		}
		if !strings.Contains(err.Error(), "failed to stop") {
			t.Errorf("expected join deadline error, got %v", err)
		}
		if outcomes != nil {
			t.Error("expected no outcomes while workers may still be writing")
		}
	})

	t.Run("Slots Stay Indexed By Position", func(t *testing.T) {
		descriptors := testDescriptors(16)

		search := func(ctx context.Context, query string) ([]models.Candidate, error) {
			return echoSearch(query)
		}
		resolver := matcher.NewResolver(search, nil, matcher.Config{
			Threshold:   0.6,
			MaxAttempts: 1,
		})

		engine := NewMatchEngine(nil, nil, nil)
		outcomes, err := engine.resolveAll(context.Background(), nil, descriptors, resolver, 8)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for i, outcome := range outcomes {
			if outcome.Descriptor.SourceID != descriptors[i].SourceID {
				t.Errorf("slot %d holds outcome for %s", i, outcome.Descriptor.SourceID)
			}
		}
	})
}

func TestRateLimitedSearch(t *testing.T) {
	t.Run("Waits For Token", func(t *testing.T) {
		limiter := rate.NewLimiter(rate.Limit(1000), 1)

		calls := 0
		search := rateLimitedSearch(limiter, func(ctx context.Context, query string) ([]models.Candidate, error) {
			calls++
			return nil, nil
		})

		for i := 0; i < 3; i++ {
			if _, err := search(context.Background(), "query"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("Canceled Context Short Circuits", func(t *testing.T) {
		limiter := rate.NewLimiter(rate.Limit(0.001), 1)
		limiter.Allow() // drain the burst

		search := rateLimitedSearch(limiter, func(ctx context.Context, query string) ([]models.Candidate, error) {
			t.Error("search should not run without a token")
			return nil, nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := search(ctx, "query"); err == nil {
			t.Error("expected error from canceled context")
		}
	})
}
