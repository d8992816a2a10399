package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/refbook/refbook/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = m
	}
	return &MatchRepository{items: items}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return m, true, nil
}

// GetByIDs returns the matches that exist; unknown ids are skipped rather
// than reported.
func (r *MatchRepository) GetByIDs(_ context.Context, matchIDs []string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]match.Match, 0, len(matchIDs))
	for _, id := range matchIDs {
		if m, ok := r.items[id]; ok {
			matches = append(matches, m)
		}
	}

	return matches, nil
}

func (r *MatchRepository) ListByClub(_ context.Context, clubID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]match.Match, 0)
	for _, m := range r.items {
		if m.ClubID == clubID {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Date != matches[j].Date {
			return matches[i].Date < matches[j].Date
		}
		if matches[i].Time != matches[j].Time {
			return matches[i].Time < matches[j].Time
		}
		return matches[i].ID < matches[j].ID
	})

	return matches, nil
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.ID] = m
	return nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.ID]; !ok {
		return false, nil
	}
	r.items[m.ID] = m
	return true, nil
}

func (r *MatchRepository) Delete(_ context.Context, matchID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[matchID]; !ok {
		return false, nil
	}
	delete(r.items, matchID)
	return true, nil
}
