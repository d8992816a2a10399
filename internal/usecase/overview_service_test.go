package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/refbook/refbook/internal/domain/assignment"
	"github.com/refbook/refbook/internal/domain/postulation"
	"github.com/refbook/refbook/internal/infrastructure/repository/memory"
	"github.com/refbook/refbook/internal/platform/logging"
)

func TestOverviewService_ClubOverview(t *testing.T) {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	postulationRepo := memory.NewPostulationRepository()
	assignmentRepo := memory.NewAssignmentRepository()
	service := NewOverviewService(matchRepo, postulationRepo, assignmentRepo, 4, logging.NewNop())

	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	seed := []postulation.Postulation{
		{
			ID: "post-1", UserID: "ref-1", ClubID: memory.ClubIDNordwest,
			MatchIDs: []string{"mx-nw-001", "mx-nw-002"},
			Status:   postulation.StatusPending, SubmittedAt: base,
		},
		{
			ID: "post-2", UserID: "ref-2", ClubID: memory.ClubIDNordwest,
			MatchIDs: []string{"mx-nw-003"},
			Status:   postulation.StatusPending, SubmittedAt: base.Add(time.Hour),
		},
		{
			ID: "post-3", UserID: "ref-3", ClubID: memory.ClubIDSuedstern,
			MatchIDs: []string{"mx-ss-001"},
			Status:   postulation.StatusPending, SubmittedAt: base.Add(2 * time.Hour),
		},
	}
	for _, p := range seed {
		if err := postulationRepo.Create(t.Context(), p); err != nil {
			t.Fatalf("seed postulation %s failed: %v", p.ID, err)
		}
	}
	err := assignmentRepo.Upsert(t.Context(), assignment.Assignment{
		ID: "asg-1", ClubID: memory.ClubIDNordwest, MatchID: "mx-nw-003", RefereeID: "ref-2",
	})
	if err != nil {
		t.Fatalf("seed assignment failed: %v", err)
	}

	rows, err := service.ClubOverview(t.Context(), adminOfNordwest(), memory.ClubIDNordwest)
	if err != nil {
		t.Fatalf("club overview failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for the club, got %d", len(rows))
	}

	// Newest submission first.
	if rows[0].Postulation.ID != "post-2" || rows[1].Postulation.ID != "post-1" {
		t.Fatalf("unexpected row order: %s, %s", rows[0].Postulation.ID, rows[1].Postulation.ID)
	}

	if rows[0].Editable {
		t.Fatalf("expected post-2 frozen by its assignment")
	}
	if rows[0].FrozenBy == "" {
		t.Fatalf("expected frozen reason on post-2")
	}
	if !rows[1].Editable {
		t.Fatalf("expected post-1 editable, frozen by %q", rows[1].FrozenBy)
	}
	if len(rows[1].Matches) != 2 {
		t.Fatalf("expected 2 joined matches on post-1, got %d", len(rows[1].Matches))
	}
}

func TestOverviewService_ClubOverview_RequiresAdmin(t *testing.T) {
	service := NewOverviewService(
		memory.NewMatchRepository(nil),
		memory.NewPostulationRepository(),
		memory.NewAssignmentRepository(),
		0,
		logging.NewNop(),
	)

	_, err := service.ClubOverview(t.Context(), adminOfNordwest(), memory.ClubIDSuedstern)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestOverviewService_ClubOverview_EmptyClub(t *testing.T) {
	service := NewOverviewService(
		memory.NewMatchRepository(memory.SeedMatches()),
		memory.NewPostulationRepository(),
		memory.NewAssignmentRepository(),
		0,
		logging.NewNop(),
	)

	rows, err := service.ClubOverview(t.Context(), adminOfNordwest(), memory.ClubIDNordwest)
	if err != nil {
		t.Fatalf("club overview failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
