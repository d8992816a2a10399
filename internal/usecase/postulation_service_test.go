package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/refbook/refbook/internal/domain/assignment"
	"github.com/refbook/refbook/internal/infrastructure/repository/memory"
	idgen "github.com/refbook/refbook/internal/platform/id"
	"github.com/refbook/refbook/internal/platform/logging"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type sequenceIDGenerator struct {
	ids  []string
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	if g.next >= len(g.ids) {
		return "", errors.New("id sequence exhausted")
	}
	id := g.ids[g.next]
	g.next++
	return id, nil
}

func newPostulationServiceForTest(t *testing.T, idGen idgen.Generator) (*PostulationService, *memory.PostulationRepository, *memory.AssignmentRepository) {
	t.Helper()

	clubRepo := memory.NewClubRepository(memory.SeedClubs())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	postulationRepo := memory.NewPostulationRepository()
	assignmentRepo := memory.NewAssignmentRepository()

	service := NewPostulationService(clubRepo, matchRepo, postulationRepo, assignmentRepo, idGen, logging.NewNop())
	return service, postulationRepo, assignmentRepo
}

func TestPostulationService_Create(t *testing.T) {
	service, _, _ := newPostulationServiceForTest(t, staticIDGenerator{id: "post-001"})

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	created, err := service.Create(t.Context(), CreatePostulationInput{
		UserID:   "ref-1",
		ClubID:   memory.ClubIDNordwest,
		MatchIDs: []string{"mx-nw-001", "mx-nw-002"},
		HasCar:   true,
		Notes:    "prefer morning games",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != "post-001" {
		t.Fatalf("expected id post-001, got %s", created.ID)
	}
	if created.Status != "PENDING" {
		t.Fatalf("expected status PENDING, got %s", created.Status)
	}
	if !created.SubmittedAt.Equal(now) {
		t.Fatalf("expected submitted_at %v, got %v", now, created.SubmittedAt)
	}
}

func TestPostulationService_Create_RejectsSecondPending(t *testing.T) {
	service, _, _ := newPostulationServiceForTest(t, &sequenceIDGenerator{ids: []string{"post-001", "post-002"}})

	if _, err := service.Create(t.Context(), CreatePostulationInput{
		UserID:   "ref-1",
		ClubID:   memory.ClubIDNordwest,
		MatchIDs: []string{"mx-nw-001"},
	}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := service.Create(t.Context(), CreatePostulationInput{
		UserID:   "ref-1",
		ClubID:   memory.ClubIDNordwest,
		MatchIDs: []string{"mx-nw-003"},
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Same referee in a different club is fine.
	if _, err := service.Create(t.Context(), CreatePostulationInput{
		UserID:   "ref-1",
		ClubID:   memory.ClubIDSuedstern,
		MatchIDs: []string{"mx-ss-001"},
	}); err != nil {
		t.Fatalf("create in second club failed: %v", err)
	}
}

func TestPostulationService_Create_Validation(t *testing.T) {
	service, _, _ := newPostulationServiceForTest(t, staticIDGenerator{id: "post-001"})

	tests := []struct {
		name  string
		input CreatePostulationInput
		want  error
	}{
		{
			name:  "missing user",
			input: CreatePostulationInput{ClubID: memory.ClubIDNordwest},
			want:  ErrInvalidInput,
		},
		{
			name:  "missing club",
			input: CreatePostulationInput{UserID: "ref-1"},
			want:  ErrInvalidInput,
		},
		{
			name:  "unknown club",
			input: CreatePostulationInput{UserID: "ref-1", ClubID: "club-ghost"},
			want:  ErrNotFound,
		},
		{
			name:  "unknown match",
			input: CreatePostulationInput{UserID: "ref-1", ClubID: memory.ClubIDNordwest, MatchIDs: []string{"mx-ghost"}},
			want:  ErrInvalidInput,
		},
		{
			name:  "match from another club",
			input: CreatePostulationInput{UserID: "ref-1", ClubID: memory.ClubIDNordwest, MatchIDs: []string{"mx-ss-001"}},
			want:  ErrInvalidInput,
		},
		{
			name:  "duplicate match ids",
			input: CreatePostulationInput{UserID: "ref-1", ClubID: memory.ClubIDNordwest, MatchIDs: []string{"mx-nw-001", "mx-nw-001"}},
			want:  ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Create(t.Context(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("Create = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPostulationService_Update_ReplacesSelectionWholesale(t *testing.T) {
	service, _, _ := newPostulationServiceForTest(t, staticIDGenerator{id: "post-001"})

	createdAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return createdAt }

	created, err := service.Create(t.Context(), CreatePostulationInput{
		UserID:   "ref-1",
		ClubID:   memory.ClubIDNordwest,
		MatchIDs: []string{"mx-nw-001", "mx-nw-002"},
		HasCar:   true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updatedAt := createdAt.Add(2 * time.Hour)
	service.now = func() time.Time { return updatedAt }

	updated, err := service.Update(t.Context(), UpdatePostulationInput{
		PostulationID: created.ID,
		UserID:        "ref-1",
		MatchIDs:      []string{"mx-nw-003"},
		HasCar:        false,
		Notes:         "car in the shop",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if len(updated.MatchIDs) != 1 || updated.MatchIDs[0] != "mx-nw-003" {
		t.Fatalf("expected selection replaced wholesale, got %v", updated.MatchIDs)
	}
	if updated.HasCar {
		t.Fatalf("expected has_car overwritten to false")
	}
	if !updated.SubmittedAt.Equal(updatedAt) {
		t.Fatalf("expected submitted_at refreshed to %v, got %v", updatedAt, updated.SubmittedAt)
	}

	// Clearing every selected match is not a valid edit.
	_, err = service.Update(t.Context(), UpdatePostulationInput{
		PostulationID: created.ID,
		UserID:        "ref-1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty selection, got %v", err)
	}
}

func TestPostulationService_Create_EmptySelection(t *testing.T) {
	service, _, _ := newPostulationServiceForTest(t, staticIDGenerator{id: "post-001"})

	for _, matchIDs := range [][]string{nil, {}} {
		_, err := service.Create(t.Context(), CreatePostulationInput{
			UserID:   "ref-1",
			ClubID:   memory.ClubIDNordwest,
			MatchIDs: matchIDs,
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for selection %v, got %v", matchIDs, err)
		}
	}

	// The rejection happens before storage is touched.
	_, exists, err := service.postulationRepo.GetPendingByUserAndClub(t.Context(), "ref-1", memory.ClubIDNordwest)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if exists {
		t.Fatalf("expected no postulation persisted for empty selection")
	}
}

func TestPostulationService_Update_OwnershipMismatchReadsAsNotFound(t *testing.T) {
	service, _, _ := newPostulationServiceForTest(t, staticIDGenerator{id: "post-001"})

	created, err := service.Create(t.Context(), CreatePostulationInput{
		UserID:   "ref-1",
		ClubID:   memory.ClubIDNordwest,
		MatchIDs: []string{"mx-nw-001"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = service.Update(t.Context(), UpdatePostulationInput{
		PostulationID: created.ID,
		UserID:        "ref-2",
		MatchIDs:      []string{"mx-nw-003"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign postulation, got %v", err)
	}

	_, err = service.Update(t.Context(), UpdatePostulationInput{
		PostulationID: "post-ghost",
		UserID:        "ref-1",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing postulation, got %v", err)
	}
}

func TestPostulationService_Update_FrozenByAssignment(t *testing.T) {
	service, _, assignmentRepo := newPostulationServiceForTest(t, staticIDGenerator{id: "post-001"})

	created, err := service.Create(t.Context(), CreatePostulationInput{
		UserID:   "ref-1",
		ClubID:   memory.ClubIDNordwest,
		MatchIDs: []string{"mx-nw-001", "mx-nw-003"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = assignmentRepo.Upsert(t.Context(), assignment.Assignment{
		ID:        "asg-001",
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-003",
		RefereeID: "ref-1",
	})
	if err != nil {
		t.Fatalf("seed assignment failed: %v", err)
	}

	_, err = service.Update(t.Context(), UpdatePostulationInput{
		PostulationID: created.ID,
		UserID:        "ref-1",
		MatchIDs:      []string{"mx-nw-002"},
	})
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed, got %v", err)
	}
}

func TestPostulationService_Update_FrozenByWindow(t *testing.T) {
	service, _, _ := newPostulationServiceForTest(t, staticIDGenerator{id: "post-001"})

	service.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	}
	created, err := service.Create(t.Context(), CreatePostulationInput{
		UserID:   "ref-1",
		ClubID:   memory.ClubIDNordwest,
		MatchIDs: []string{"mx-nw-001"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// mx-nw-001 kicks off 2026-09-12 15:00; eleven hours out the window has
	// closed.
	service.now = func() time.Time {
		return time.Date(2026, 9, 12, 4, 0, 0, 0, time.UTC)
	}
	_, err = service.Update(t.Context(), UpdatePostulationInput{
		PostulationID: created.ID,
		UserID:        "ref-1",
		MatchIDs:      []string{"mx-nw-003"},
	})
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed, got %v", err)
	}

	// Exactly twelve hours before kickoff the edit still goes through.
	service.now = func() time.Time {
		return time.Date(2026, 9, 12, 3, 0, 0, 0, time.UTC)
	}
	if _, err := service.Update(t.Context(), UpdatePostulationInput{
		PostulationID: created.ID,
		UserID:        "ref-1",
		MatchIDs:      []string{"mx-nw-003"},
	}); err != nil {
		t.Fatalf("update at window boundary failed: %v", err)
	}
}

func TestPostulationService_Update_DeletedMatchDoesNotFreeze(t *testing.T) {
	service, postulationRepo, _ := newPostulationServiceForTest(t, staticIDGenerator{id: "post-001"})

	created, err := service.Create(t.Context(), CreatePostulationInput{
		UserID:   "ref-1",
		ClubID:   memory.ClubIDNordwest,
		MatchIDs: []string{"mx-nw-001"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Point the stored selection at a match that no longer exists.
	created.MatchIDs = []string{"mx-vanished"}
	if err := postulationRepo.ReplaceSelections(t.Context(), created); err != nil {
		t.Fatalf("seed orphan selection failed: %v", err)
	}

	if _, err := service.Update(t.Context(), UpdatePostulationInput{
		PostulationID: created.ID,
		UserID:        "ref-1",
		MatchIDs:      []string{"mx-nw-002"},
	}); err != nil {
		t.Fatalf("update with orphaned selection failed: %v", err)
	}
}
