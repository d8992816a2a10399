package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/refbook/refbook/internal/domain/user"
	"github.com/refbook/refbook/internal/infrastructure/repository/memory"
	"github.com/refbook/refbook/internal/platform/logging"
)

func newAssignmentServiceForTest(t *testing.T) (*AssignmentService, *memory.AssignmentRepository) {
	t.Helper()

	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	assignmentRepo := memory.NewAssignmentRepository()
	service := NewAssignmentService(matchRepo, assignmentRepo, &sequenceIDGenerator{ids: []string{"asg-001", "asg-002", "asg-003"}}, logging.NewNop())
	return service, assignmentRepo
}

func adminOfNordwest() user.Principal {
	return user.Principal{
		UserID:       "admin-1",
		Role:         user.RoleAdmin,
		AdminClubIDs: []string{memory.ClubIDNordwest},
	}
}

func TestAssignmentService_Assign(t *testing.T) {
	service, _ := newAssignmentServiceForTest(t)

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	a, err := service.Assign(t.Context(), adminOfNordwest(), AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-001",
		RefereeID: "ref-1",
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if a.ID != "asg-001" {
		t.Fatalf("expected id asg-001, got %s", a.ID)
	}
	if !a.AssignedAt.Equal(now) {
		t.Fatalf("expected assigned_at %v, got %v", now, a.AssignedAt)
	}
}

func TestAssignmentService_Assign_RequiresClubAdmin(t *testing.T) {
	service, _ := newAssignmentServiceForTest(t)

	referee := user.Principal{UserID: "ref-1", Role: user.RoleReferee, MemberClubIDs: []string{memory.ClubIDNordwest}}
	_, err := service.Assign(t.Context(), referee, AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-001",
		RefereeID: "ref-1",
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAssignmentService_Assign_LiteralSlotsDoNotClash(t *testing.T) {
	service, _ := newAssignmentServiceForTest(t)
	admin := adminOfNordwest()

	if _, err := service.Assign(t.Context(), admin, AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-001",
		RefereeID: "ref-1",
	}); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}

	// Different day, same time string: no conflict.
	if _, err := service.Assign(t.Context(), admin, AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-003",
		RefereeID: "ref-1",
	}); err != nil {
		t.Fatalf("assign on different day failed: %v", err)
	}

	// Same day at a different time: still no conflict.
	if _, err := service.Assign(t.Context(), admin, AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-002",
		RefereeID: "ref-1",
	}); err != nil {
		t.Fatalf("assign at different time failed: %v", err)
	}
}

func TestAssignmentService_Assign_ConflictNamesHeldMatch(t *testing.T) {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	assignmentRepo := memory.NewAssignmentRepository()
	service := NewAssignmentService(matchRepo, assignmentRepo, &sequenceIDGenerator{ids: []string{"asg-001", "asg-002"}}, logging.NewNop())
	admin := adminOfNordwest()

	clash := memory.SeedMatches()[0] // mx-nw-001, 2026-09-12 15:00
	clash.ID = "mx-nw-900"
	clash.Description = "SV Nordwest III vs SG Deich"
	if err := matchRepo.Create(t.Context(), clash); err != nil {
		t.Fatalf("seed clashing match failed: %v", err)
	}

	if _, err := service.Assign(t.Context(), admin, AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-001",
		RefereeID: "ref-1",
	}); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}

	_, err := service.Assign(t.Context(), admin, AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-900",
		RefereeID: "ref-1",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if !strings.Contains(err.Error(), "SV Nordwest II vs TuS Hafen") {
		t.Fatalf("expected conflict error to name the held match, got %q", err)
	}
}

func TestAssignmentService_Assign_OverwritesHolder(t *testing.T) {
	service, assignmentRepo := newAssignmentServiceForTest(t)
	admin := adminOfNordwest()

	first, err := service.Assign(t.Context(), admin, AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-001",
		RefereeID: "ref-1",
	})
	if err != nil {
		t.Fatalf("first assign failed: %v", err)
	}

	second, err := service.Assign(t.Context(), admin, AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-001",
		RefereeID: "ref-2",
	})
	if err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected reassign to keep row id %s, got %s", first.ID, second.ID)
	}

	stored, exists, err := assignmentRepo.GetByMatch(t.Context(), "mx-nw-001")
	if err != nil || !exists {
		t.Fatalf("expected stored assignment, exists=%v err=%v", exists, err)
	}
	if stored.RefereeID != "ref-2" {
		t.Fatalf("expected holder replaced by ref-2, got %s", stored.RefereeID)
	}
}

func TestAssignmentService_Unassign_Idempotent(t *testing.T) {
	service, _ := newAssignmentServiceForTest(t)
	admin := adminOfNordwest()

	if _, err := service.Assign(t.Context(), admin, AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-nw-001",
		RefereeID: "ref-1",
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	if err := service.Unassign(t.Context(), admin, memory.ClubIDNordwest, "mx-nw-001"); err != nil {
		t.Fatalf("unassign failed: %v", err)
	}
	// Second removal of the same match is a no-op, not an error.
	if err := service.Unassign(t.Context(), admin, memory.ClubIDNordwest, "mx-nw-001"); err != nil {
		t.Fatalf("repeat unassign failed: %v", err)
	}
}

func TestAssignmentService_Assign_UnknownMatch(t *testing.T) {
	service, _ := newAssignmentServiceForTest(t)

	_, err := service.Assign(t.Context(), adminOfNordwest(), AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-ghost",
		RefereeID: "ref-1",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// A real match from another club is just as invisible.
	_, err = service.Assign(t.Context(), adminOfNordwest(), AssignInput{
		ClubID:    memory.ClubIDNordwest,
		MatchID:   "mx-ss-001",
		RefereeID: "ref-1",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign-club match, got %v", err)
	}
}
