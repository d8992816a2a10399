package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/refbook/refbook/internal/domain/postulation"
)

type PostulationRepository struct {
	mu    sync.RWMutex
	items map[string]postulation.Postulation
}

func NewPostulationRepository() *PostulationRepository {
	return &PostulationRepository{items: make(map[string]postulation.Postulation)}
}

func (r *PostulationRepository) GetByID(_ context.Context, postulationID string) (postulation.Postulation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[postulationID]
	if !ok {
		return postulation.Postulation{}, false, nil
	}

	return clonePostulation(p), true, nil
}

func (r *PostulationRepository) GetPendingByUserAndClub(_ context.Context, userID, clubID string) (postulation.Postulation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.findPendingLocked(userID, clubID)
	if !ok {
		return postulation.Postulation{}, false, nil
	}

	return clonePostulation(p), true, nil
}

func (r *PostulationRepository) ListByClub(_ context.Context, clubID string) ([]postulation.Postulation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	postulations := make([]postulation.Postulation, 0)
	for _, p := range r.items {
		if p.ClubID == clubID {
			postulations = append(postulations, clonePostulation(p))
		}
	}
	sort.Slice(postulations, func(i, j int) bool {
		return postulations[i].SubmittedAt.Before(postulations[j].SubmittedAt)
	})

	return postulations, nil
}

// Create mirrors the partial unique index the postgres schema enforces on
// pending rows.
func (r *PostulationRepository) Create(_ context.Context, p postulation.Postulation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.Status == postulation.StatusPending {
		if _, ok := r.findPendingLocked(p.UserID, p.ClubID); ok {
			return fmt.Errorf("%w: user=%s club=%s", postulation.ErrPendingExists, p.UserID, p.ClubID)
		}
	}
	r.items[p.ID] = clonePostulation(p)
	return nil
}

func (r *PostulationRepository) ReplaceSelections(_ context.Context, p postulation.Postulation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.ID] = clonePostulation(p)
	return nil
}

func (r *PostulationRepository) findPendingLocked(userID, clubID string) (postulation.Postulation, bool) {
	for _, p := range r.items {
		if p.UserID == userID && p.ClubID == clubID && p.Status == postulation.StatusPending {
			return p, true
		}
	}
	return postulation.Postulation{}, false
}

func clonePostulation(p postulation.Postulation) postulation.Postulation {
	copied := p
	copied.MatchIDs = append([]string(nil), p.MatchIDs...)
	return copied
}
