package matcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/shared"
)

type scriptedSearch struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]models.Candidate
	errs    []error // consumed in order before results are served
}

func (s *scriptedSearch) search(ctx context.Context, query string) ([]models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, query)

	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}

	return s.results[query], nil
}

func testConfig() Config {
	return Config{Threshold: 0.6, MaxAttempts: 3, Backoff: time.Millisecond}
}

func TestResolve(t *testing.T) {
	descriptor := models.Descriptor{
		SourceID: "1",
		Title:    "Gerudo Valley",
		Artist:   "Koji Kondo",
		Game:     "Ocarina of Time",
	}

	perfect := models.Candidate{
		ID:      "c1",
		Title:   "Gerudo Valley",
		Artists: []string{"Koji Kondo"},
		URI:     "spotify:track:c1",
	}

	t.Run("First Variant Match Stops The Ladder", func(t *testing.T) {
		search := &scriptedSearch{results: map[string][]models.Candidate{
			`track:"Gerudo Valley" artist:"Koji Kondo"`: {perfect},
		}}
		r := NewResolver(search.search, nil, testConfig())

		outcome, err := r.Resolve(context.Background(), descriptor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if outcome.Status != models.StatusMatched {
			t.Fatalf("expected matched, got %s", outcome.Status)
		}
		if outcome.Chosen == nil || outcome.Chosen.ID != "c1" {
			t.Errorf("unexpected chosen candidate %+v", outcome.Chosen)
		}
		if outcome.Score < 0.999 {
			t.Errorf("expected score ~1.0, got %f", outcome.Score)
		}
		if len(search.calls) != 1 {
			t.Errorf("expected ladder to stop after first hit, got %d calls", len(search.calls))
		}
	})

	t.Run("Falls Through To Later Variants", func(t *testing.T) {
		search := &scriptedSearch{results: map[string][]models.Candidate{
			"Gerudo Valley": {perfect},
		}}
		r := NewResolver(search.search, nil, testConfig())

		outcome, err := r.Resolve(context.Background(), descriptor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome.Status != models.StatusMatched {
			t.Errorf("expected matched via fallback variant, got %s", outcome.Status)
		}
		if len(search.calls) != 4 {
			t.Errorf("expected all 4 variants tried, got %d", len(search.calls))
		}
	})

	t.Run("Below Threshold Is Not Found", func(t *testing.T) {
		search := &scriptedSearch{results: map[string][]models.Candidate{
			`track:"Gerudo Valley" artist:"Koji Kondo"`: {
				{ID: "junk", Title: "Jingle Bells", Artists: []string{"Holiday Singers"}},
			},
		}}
		r := NewResolver(search.search, nil, testConfig())

		outcome, err := r.Resolve(context.Background(), descriptor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome.Status != models.StatusNotFound {
			t.Errorf("expected not found, got %s", outcome.Status)
		}
		if outcome.Chosen != nil {
			t.Errorf("expected no chosen candidate, got %+v", outcome.Chosen)
		}
	})

	t.Run("Highest Scoring Candidate Wins", func(t *testing.T) {
		search := &scriptedSearch{results: map[string][]models.Candidate{
			`track:"Gerudo Valley" artist:"Koji Kondo"`: {
				{ID: "cover", Title: "Gerudo Valley", Artists: []string{"Cover Band"}},
				{ID: "orig", Title: "Gerudo Valley", Artists: []string{"Koji Kondo"}},
			},
		}}
		r := NewResolver(search.search, nil, testConfig())

		outcome, err := r.Resolve(context.Background(), descriptor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome.Chosen == nil || outcome.Chosen.ID != "orig" {
			t.Errorf("expected original to outrank cover, got %+v", outcome.Chosen)
		}
	})

	t.Run("Genre Rejection Demotes To Filtered", func(t *testing.T) {
		search := &scriptedSearch{results: map[string][]models.Candidate{
			`track:"Gerudo Valley" artist:"Koji Kondo"`: {
				{ID: "c1", Title: "Gerudo Valley", Artists: []string{"Koji Kondo"}, Genres: []string{"christmas"}},
			},
		}}
		filter := NewFilter(nil, []string{"christmas"})
		r := NewResolver(search.search, filter, testConfig())

		outcome, err := r.Resolve(context.Background(), descriptor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome.Status != models.StatusFiltered {
			t.Errorf("expected filtered, got %s", outcome.Status)
		}
		if outcome.Reason == "" {
			t.Error("expected the rejecting genre token in the reason")
		}
	})

	t.Run("Genre Filter Passes To Next Candidate", func(t *testing.T) {
		search := &scriptedSearch{results: map[string][]models.Candidate{
			`track:"Gerudo Valley" artist:"Koji Kondo"`: {
				{ID: "bad", Title: "Gerudo Valley", Artists: []string{"Koji Kondo"}, Genres: []string{"christmas"}},
				{ID: "good", Title: "Gerudo Valley", Artists: []string{"Koji Kondo"}, Genres: []string{"video game music"}},
			},
		}}
		filter := NewFilter(nil, []string{"christmas"})
		r := NewResolver(search.search, filter, testConfig())

		outcome, err := r.Resolve(context.Background(), descriptor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome.Status != models.StatusMatched {
			t.Fatalf("expected matched, got %s", outcome.Status)
		}
		if outcome.Chosen.ID != "good" {
			t.Errorf("expected filter to skip to acceptable candidate, got %s", outcome.Chosen.ID)
		}
	})

	t.Run("Retries Transient Errors", func(t *testing.T) {
		search := &scriptedSearch{
			errs: []error{
				fmt.Errorf("%w: retry after 1s", shared.ErrRateLimited),
				fmt.Errorf("%w: status 503", shared.ErrServiceUnavailable),
			},
			results: map[string][]models.Candidate{
				`track:"Gerudo Valley" artist:"Koji Kondo"`: {perfect},
			},
		}
		r := NewResolver(search.search, nil, testConfig())

		outcome, err := r.Resolve(context.Background(), descriptor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome.Status != models.StatusMatched {
			t.Errorf("expected match after retries, got %s", outcome.Status)
		}
		if outcome.Attempts != 3 {
			t.Errorf("expected 3 attempts recorded, got %d", outcome.Attempts)
		}
	})

	t.Run("Exhausted Retries Contain The Error", func(t *testing.T) {
		search := &scriptedSearch{
			errs: []error{
				shared.ErrServiceUnavailable, shared.ErrServiceUnavailable, shared.ErrServiceUnavailable,
				shared.ErrServiceUnavailable, shared.ErrServiceUnavailable, shared.ErrServiceUnavailable,
				shared.ErrServiceUnavailable, shared.ErrServiceUnavailable, shared.ErrServiceUnavailable,
				shared.ErrServiceUnavailable, shared.ErrServiceUnavailable, shared.ErrServiceUnavailable,
			},
		}
		r := NewResolver(search.search, nil, testConfig())

		outcome, err := r.Resolve(context.Background(), descriptor)
		if err != nil {
			t.Fatalf("expected contained error, got abort: %v", err)
		}
		if outcome.Status != models.StatusError {
			t.Errorf("expected error status, got %s", outcome.Status)
		}
		if outcome.Reason == "" {
			t.Error("expected failure reason")
		}
		if outcome.Attempts != 3 {
			t.Errorf("expected retry budget of 3 attempts spent, got %d", outcome.Attempts)
		}
	})

	t.Run("Auth Failure Aborts", func(t *testing.T) {
		search := &scriptedSearch{
			errs: []error{fmt.Errorf("%w: token revoked", shared.ErrAuthFailed)},
		}
		r := NewResolver(search.search, nil, testConfig())

		outcome, err := r.Resolve(context.Background(), descriptor)
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if outcome.Status != models.StatusError {
			t.Errorf("expected error outcome, got %s", outcome.Status)
		}
		if len(search.calls) != 1 {
			t.Errorf("expected no retry after auth failure, got %d calls", len(search.calls))
		}
	})

	t.Run("Canceled Context Aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := NewResolver(func(ctx context.Context, query string) ([]models.Candidate, error) {
			return nil, ctx.Err()
		}, nil, testConfig())

		_, err := r.Resolve(ctx, descriptor)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Rate Limited", shared.ErrRateLimited, true},
		{"Timeout", shared.ErrTimeout, true},
		{"Service Unavailable", shared.ErrServiceUnavailable, true},
		{"Generic API Error", shared.ErrAPIRequest, true},
		{"Auth Failed", shared.ErrAuthFailed, false},
		{"Not Authenticated", shared.ErrNotAuthenticated, false},
		{"Canceled", context.Canceled, false},
		{"Deadline Exceeded", context.DeadlineExceeded, false},
		{"Wrapped Rate Limit", fmt.Errorf("search: %w", shared.ErrRateLimited), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := retryable(tc.err); got != tc.want {
				t.Errorf("retryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
