package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/refbook/refbook/internal/domain/assignment"
	"github.com/refbook/refbook/internal/domain/match"
	"github.com/refbook/refbook/internal/domain/user"
	idgen "github.com/refbook/refbook/internal/platform/id"
	"github.com/refbook/refbook/internal/platform/logging"
)

// AssignInput binds a referee to a club match.
type AssignInput struct {
	ClubID    string
	MatchID   string
	RefereeID string
}

type AssignmentService struct {
	matchRepo      match.Repository
	assignmentRepo assignment.Repository
	idGen          idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewAssignmentService(
	matchRepo match.Repository,
	assignmentRepo assignment.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *AssignmentService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AssignmentService{
		matchRepo:      matchRepo,
		assignmentRepo: assignmentRepo,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *AssignmentService) Assign(ctx context.Context, principal user.Principal, input AssignInput) (assignment.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "AssignmentService.Assign")
	defer span.End()

	input.ClubID = strings.TrimSpace(input.ClubID)
	input.MatchID = strings.TrimSpace(input.MatchID)
	input.RefereeID = strings.TrimSpace(input.RefereeID)

	if input.ClubID == "" || input.MatchID == "" || input.RefereeID == "" {
		return assignment.Assignment{}, fmt.Errorf("%w: club_id, match_id and referee_id are required", ErrInvalidInput)
	}
	if !principal.IsAdminOf(input.ClubID) {
		return assignment.Assignment{}, fmt.Errorf("%w: user=%s does not administer club=%s", ErrUnauthorized, principal.UserID, input.ClubID)
	}

	candidate, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists || candidate.ClubID != input.ClubID {
		return assignment.Assignment{}, fmt.Errorf("%w: match=%s in club=%s", ErrNotFound, input.MatchID, input.ClubID)
	}

	held, err := s.heldMatches(ctx, input.RefereeID, input.ClubID)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if clash, found := assignment.FindConflict(candidate, held); found {
		return assignment.Assignment{}, fmt.Errorf("%w: referee already assigned to %q at %s %s", ErrConflict, clash.Description, clash.Date, clash.Time)
	}

	a := assignment.Assignment{
		ClubID:     input.ClubID,
		MatchID:    input.MatchID,
		RefereeID:  input.RefereeID,
		AssignedAt: s.now().UTC(),
	}
	existing, exists, err := s.assignmentRepo.GetByMatch(ctx, input.MatchID)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("get assignment by match: %w", err)
	}
	if exists {
		a.ID = existing.ID
	} else {
		a.ID, err = s.idGen.NewID()
		if err != nil {
			return assignment.Assignment{}, fmt.Errorf("generate assignment id: %w", err)
		}
	}

	if err := s.assignmentRepo.Upsert(ctx, a); err != nil {
		return assignment.Assignment{}, fmt.Errorf("upsert assignment: %w", err)
	}

	s.logger.InfoContext(ctx, "referee assigned",
		"club_id", a.ClubID,
		"match_id", a.MatchID,
		"referee_id", a.RefereeID,
		"replaced", exists,
	)

	return a, nil
}

// Unassign clears whoever holds the match. Removing an already empty match is
// not an error.
func (s *AssignmentService) Unassign(ctx context.Context, principal user.Principal, clubID, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "AssignmentService.Unassign")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	matchID = strings.TrimSpace(matchID)
	if clubID == "" || matchID == "" {
		return fmt.Errorf("%w: club_id and match_id are required", ErrInvalidInput)
	}
	if !principal.IsAdminOf(clubID) {
		return fmt.Errorf("%w: user=%s does not administer club=%s", ErrUnauthorized, principal.UserID, clubID)
	}

	deleted, err := s.assignmentRepo.Delete(ctx, matchID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}

	s.logger.InfoContext(ctx, "referee unassigned",
		"club_id", clubID,
		"match_id", matchID,
		"existed", deleted,
	)

	return nil
}

func (s *AssignmentService) ListByClub(ctx context.Context, principal user.Principal, clubID string) ([]assignment.Assignment, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}
	if !principal.IsAdminOf(clubID) {
		return nil, fmt.Errorf("%w: user=%s does not administer club=%s", ErrUnauthorized, principal.UserID, clubID)
	}

	assignments, err := s.assignmentRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	return assignments, nil
}

// heldMatches resolves the matches a referee currently officiates in the
// club. Assignments whose match has since been deleted drop out silently.
func (s *AssignmentService) heldMatches(ctx context.Context, refereeID, clubID string) ([]match.Match, error) {
	held, err := s.assignmentRepo.ListByRefereeAndClub(ctx, refereeID, clubID)
	if err != nil {
		return nil, fmt.Errorf("list referee assignments: %w", err)
	}
	if len(held) == 0 {
		return nil, nil
	}

	matchIDs := make([]string, 0, len(held))
	for _, a := range held {
		matchIDs = append(matchIDs, a.MatchID)
	}
	matches, err := s.matchRepo.GetByIDs(ctx, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("get held matches: %w", err)
	}

	return matches, nil
}
