package storage

import (
	"context"

	"github.com/claude/rpecalc/internal/models"
	"github.com/claude/rpecalc/internal/rpe"
)

// WithStrategy returns a store whose unsaved defaults use strategy. Once
// preferences have been saved the stored strategy wins. An empty strategy
// returns store unchanged.
func WithStrategy(store PreferenceStore, strategy rpe.Strategy) PreferenceStore {
	if strategy == "" {
		return store
	}
	return &strategyStore{PreferenceStore: store, strategy: strategy}
}

type strategyStore struct {
	PreferenceStore
	strategy rpe.Strategy
}

func (s *strategyStore) GetPreferences(ctx context.Context) (models.Preferences, error) {
	p, err := s.PreferenceStore.GetPreferences(ctx)
	if err != nil {
		return models.Preferences{}, err
	}
	if p.UpdatedAt.IsZero() {
		p.Strategy = s.strategy
	}
	return p, nil
}
