package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/vgx/internal/models"
)

// OutcomeCacheAdapter implements tasks.OutcomeCacher using OutcomeRepository.
//
// Provides automatic outcome caching with deduplication via the source_id
// constraint. An existing outcome for the same roster track is replaced so
// the cache always holds the most recent resolution.
type OutcomeCacheAdapter struct {
	repo *OutcomeRepository
}

// NewOutcomeCacheAdapter creates a new OutcomeCacheAdapter with the given repository
func NewOutcomeCacheAdapter(repo *OutcomeRepository) *OutcomeCacheAdapter {
	return &OutcomeCacheAdapter{repo: repo}
}

// CacheOutcome persists an outcome from a run.
// Updates in place when the roster track was cached by an earlier run.
func (a *OutcomeCacheAdapter) CacheOutcome(outcome models.MatchOutcome) error {
	existing, err := a.repo.GetBySourceID(outcome.Descriptor.SourceID)
	if err == nil && existing != nil {
		replacement := models.NewPersistedOutcome(existing.Sequence(), outcome)
		replacement.SetID(existing.ID())
		if err := a.repo.Update(replacement); err != nil {
			return fmt.Errorf("failed to refresh cached outcome: %w", err)
		}
		return nil
	}

	persisted := models.NewPersistedOutcome(0, outcome)

	if err := a.repo.Create(persisted); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache outcome: %w", err)
	}

	return nil
}
