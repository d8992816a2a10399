package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/refbook/refbook/internal/domain/assignment"
)

type AssignmentRepository struct {
	mu    sync.RWMutex
	items map[string]assignment.Assignment // keyed by match id
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{items: make(map[string]assignment.Assignment)}
}

func (r *AssignmentRepository) GetByMatch(_ context.Context, matchID string) (assignment.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[matchID]
	if !ok {
		return assignment.Assignment{}, false, nil
	}

	return a, true, nil
}

func (r *AssignmentRepository) ListByClub(_ context.Context, clubID string) ([]assignment.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectLocked(func(a assignment.Assignment) bool {
		return a.ClubID == clubID
	}), nil
}

func (r *AssignmentRepository) ListByRefereeAndClub(_ context.Context, refereeID, clubID string) ([]assignment.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectLocked(func(a assignment.Assignment) bool {
		return a.RefereeID == refereeID && a.ClubID == clubID
	}), nil
}

func (r *AssignmentRepository) Upsert(_ context.Context, a assignment.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[a.MatchID] = a
	return nil
}

func (r *AssignmentRepository) Delete(_ context.Context, matchID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[matchID]; !ok {
		return false, nil
	}
	delete(r.items, matchID)
	return true, nil
}

func (r *AssignmentRepository) collectLocked(keep func(assignment.Assignment) bool) []assignment.Assignment {
	assignments := make([]assignment.Assignment, 0)
	for _, a := range r.items {
		if keep(a) {
			assignments = append(assignments, a)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].MatchID < assignments[j].MatchID
	})
	return assignments
}
