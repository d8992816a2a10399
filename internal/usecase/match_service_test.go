package usecase

import (
	"errors"
	"testing"

	"github.com/refbook/refbook/internal/infrastructure/repository/memory"
	"github.com/refbook/refbook/internal/platform/logging"
)

func newMatchServiceForTest(t *testing.T) (*MatchService, *memory.MatchRepository) {
	t.Helper()

	clubRepo := memory.NewClubRepository(memory.SeedClubs())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	service := NewMatchService(clubRepo, matchRepo, staticIDGenerator{id: "mx-new-001"}, logging.NewNop())
	return service, matchRepo
}

func TestMatchService_Create(t *testing.T) {
	service, _ := newMatchServiceForTest(t)

	created, err := service.Create(t.Context(), adminOfNordwest(), UpsertMatchInput{
		ClubID:      memory.ClubIDNordwest,
		Description: "SV Nordwest U17 vs FC Deichkicker",
		Date:        "2026-10-03",
		Time:        "10:00",
		Location:    "Sportplatz Nordwest",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != "mx-new-001" {
		t.Fatalf("expected id mx-new-001, got %s", created.ID)
	}
	if created.Status != "SCHEDULED" {
		t.Fatalf("expected default status SCHEDULED, got %s", created.Status)
	}
}

func TestMatchService_Create_Validation(t *testing.T) {
	service, _ := newMatchServiceForTest(t)
	admin := adminOfNordwest()

	tests := []struct {
		name  string
		input UpsertMatchInput
		want  error
	}{
		{
			name: "bad date format",
			input: UpsertMatchInput{
				ClubID: memory.ClubIDNordwest, Description: "x",
				Date: "03.10.2026", Time: "10:00",
			},
			want: ErrInvalidInput,
		},
		{
			name: "bad time format",
			input: UpsertMatchInput{
				ClubID: memory.ClubIDNordwest, Description: "x",
				Date: "2026-10-03", Time: "10:00:00",
			},
			want: ErrInvalidInput,
		},
		{
			name: "unknown status",
			input: UpsertMatchInput{
				ClubID: memory.ClubIDNordwest, Description: "x",
				Date: "2026-10-03", Time: "10:00", Status: "MAYBE",
			},
			want: ErrInvalidInput,
		},
		{
			name: "unknown club",
			input: UpsertMatchInput{
				ClubID: "club-ghost", Description: "x",
				Date: "2026-10-03", Time: "10:00",
			},
			want: ErrUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Create(t.Context(), admin, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("Create = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestMatchService_SetStatus(t *testing.T) {
	service, _ := newMatchServiceForTest(t)

	m, err := service.SetStatus(t.Context(), adminOfNordwest(), memory.ClubIDNordwest, "mx-nw-001", "cancelled")
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if m.Status != "CANCELLED" {
		t.Fatalf("expected CANCELLED, got %s", m.Status)
	}

	if _, err := service.SetStatus(t.Context(), adminOfNordwest(), memory.ClubIDNordwest, "mx-nw-001", "done"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestMatchService_Delete_LeavesSelectionsDangling(t *testing.T) {
	service, matchRepo := newMatchServiceForTest(t)

	if err := service.Delete(t.Context(), adminOfNordwest(), memory.ClubIDNordwest, "mx-nw-001"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, exists, _ := matchRepo.GetByID(t.Context(), "mx-nw-001"); exists {
		t.Fatalf("expected match removed")
	}

	// Deleting again reads as not found.
	if err := service.Delete(t.Context(), adminOfNordwest(), memory.ClubIDNordwest, "mx-nw-001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
