package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/refbook/refbook/internal/domain/assignment"
	"github.com/refbook/refbook/internal/domain/club"
	"github.com/refbook/refbook/internal/domain/match"
	"github.com/refbook/refbook/internal/domain/postulation"
	"github.com/refbook/refbook/internal/domain/user"
	idgen "github.com/refbook/refbook/internal/platform/id"
	"github.com/refbook/refbook/internal/platform/logging"
)

// CreatePostulationInput is the incoming payload for a new availability
// submission.
type CreatePostulationInput struct {
	UserID   string
	ClubID   string
	MatchIDs []string
	HasCar   bool
	Notes    string
}

// UpdatePostulationInput replaces an existing submission wholesale.
type UpdatePostulationInput struct {
	PostulationID string
	UserID        string
	MatchIDs      []string
	HasCar        bool
	Notes         string
}

type PostulationService struct {
	clubRepo        club.Repository
	matchRepo       match.Repository
	postulationRepo postulation.Repository
	assignmentRepo  assignment.Repository
	idGen           idgen.Generator
	logger          *logging.Logger
	now             func() time.Time
}

func NewPostulationService(
	clubRepo club.Repository,
	matchRepo match.Repository,
	postulationRepo postulation.Repository,
	assignmentRepo assignment.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PostulationService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PostulationService{
		clubRepo:        clubRepo,
		matchRepo:       matchRepo,
		postulationRepo: postulationRepo,
		assignmentRepo:  assignmentRepo,
		idGen:           idGen,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *PostulationService) Create(ctx context.Context, input CreatePostulationInput) (postulation.Postulation, error) {
	ctx, span := startUsecaseSpan(ctx, "PostulationService.Create")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.ClubID = strings.TrimSpace(input.ClubID)
	input.Notes = strings.TrimSpace(input.Notes)

	if input.UserID == "" {
		return postulation.Postulation{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.ClubID == "" {
		return postulation.Postulation{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	if err := s.validateClub(ctx, input.ClubID); err != nil {
		return postulation.Postulation{}, err
	}

	matchIDs, err := cleanMatchIDs(input.MatchIDs)
	if err != nil {
		return postulation.Postulation{}, err
	}
	if err := s.validateSelection(ctx, input.ClubID, matchIDs); err != nil {
		return postulation.Postulation{}, err
	}

	_, exists, err := s.postulationRepo.GetPendingByUserAndClub(ctx, input.UserID, input.ClubID)
	if err != nil {
		return postulation.Postulation{}, fmt.Errorf("get pending postulation: %w", err)
	}
	if exists {
		return postulation.Postulation{}, fmt.Errorf("%w: pending postulation already exists for club=%s", ErrConflict, input.ClubID)
	}

	postulationID, err := s.idGen.NewID()
	if err != nil {
		return postulation.Postulation{}, fmt.Errorf("generate postulation id: %w", err)
	}

	p := postulation.Postulation{
		ID:          postulationID,
		UserID:      input.UserID,
		ClubID:      input.ClubID,
		MatchIDs:    matchIDs,
		HasCar:      input.HasCar,
		Notes:       input.Notes,
		Status:      postulation.StatusPending,
		SubmittedAt: s.now().UTC(),
	}
	if err := p.ValidateBasic(); err != nil {
		return postulation.Postulation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.postulationRepo.Create(ctx, p); err != nil {
		// The unique pending index catches creates that raced past the
		// check above.
		if errors.Is(err, postulation.ErrPendingExists) {
			return postulation.Postulation{}, fmt.Errorf("%w: pending postulation already exists for club=%s", ErrConflict, input.ClubID)
		}
		return postulation.Postulation{}, fmt.Errorf("create postulation: %w", err)
	}

	s.logger.InfoContext(ctx, "postulation created",
		"postulation_id", p.ID,
		"user_id", p.UserID,
		"club_id", p.ClubID,
		"match_count", len(p.MatchIDs),
	)

	return p, nil
}

func (s *PostulationService) Update(ctx context.Context, input UpdatePostulationInput) (postulation.Postulation, error) {
	ctx, span := startUsecaseSpan(ctx, "PostulationService.Update")
	defer span.End()

	input.PostulationID = strings.TrimSpace(input.PostulationID)
	input.UserID = strings.TrimSpace(input.UserID)
	input.Notes = strings.TrimSpace(input.Notes)

	if input.PostulationID == "" {
		return postulation.Postulation{}, fmt.Errorf("%w: postulation id is required", ErrInvalidInput)
	}
	if input.UserID == "" {
		return postulation.Postulation{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	existing, exists, err := s.postulationRepo.GetByID(ctx, input.PostulationID)
	if err != nil {
		return postulation.Postulation{}, fmt.Errorf("get postulation: %w", err)
	}
	// Ownership mismatch reads the same as a missing row so that ids
	// cannot be probed across users.
	if !exists || existing.UserID != input.UserID {
		return postulation.Postulation{}, fmt.Errorf("%w: postulation=%s", ErrNotFound, input.PostulationID)
	}

	if err := s.checkEditable(ctx, existing); err != nil {
		return postulation.Postulation{}, err
	}

	matchIDs, err := cleanMatchIDs(input.MatchIDs)
	if err != nil {
		return postulation.Postulation{}, err
	}
	if err := s.validateSelection(ctx, existing.ClubID, matchIDs); err != nil {
		return postulation.Postulation{}, err
	}

	updated := existing
	updated.MatchIDs = matchIDs
	updated.HasCar = input.HasCar
	updated.Notes = input.Notes
	updated.SubmittedAt = s.now().UTC()

	if err := updated.ValidateBasic(); err != nil {
		return postulation.Postulation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.postulationRepo.ReplaceSelections(ctx, updated); err != nil {
		return postulation.Postulation{}, fmt.Errorf("replace postulation selections: %w", err)
	}

	s.logger.InfoContext(ctx, "postulation updated",
		"postulation_id", updated.ID,
		"user_id", updated.UserID,
		"club_id", updated.ClubID,
		"match_count", len(updated.MatchIDs),
	)

	return updated, nil
}

func (s *PostulationService) Get(ctx context.Context, userID, postulationID string) (postulation.Postulation, error) {
	userID = strings.TrimSpace(userID)
	postulationID = strings.TrimSpace(postulationID)
	if userID == "" || postulationID == "" {
		return postulation.Postulation{}, fmt.Errorf("%w: user_id and postulation_id are required", ErrInvalidInput)
	}

	p, exists, err := s.postulationRepo.GetByID(ctx, postulationID)
	if err != nil {
		return postulation.Postulation{}, fmt.Errorf("get postulation: %w", err)
	}
	if !exists || p.UserID != userID {
		return postulation.Postulation{}, fmt.Errorf("%w: postulation=%s", ErrNotFound, postulationID)
	}

	return p, nil
}

func (s *PostulationService) ListByClub(ctx context.Context, principal user.Principal, clubID string) ([]postulation.Postulation, error) {
	ctx, span := startUsecaseSpan(ctx, "PostulationService.ListByClub")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}
	if !principal.IsAdminOf(clubID) {
		return nil, fmt.Errorf("%w: user=%s does not administer club=%s", ErrUnauthorized, principal.UserID, clubID)
	}

	postulations, err := s.postulationRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list postulations: %w", err)
	}

	return postulations, nil
}

// checkEditable evaluates the freeze rules against the stored selection, not
// the incoming one: a submission that already references a locked match stays
// locked no matter what the caller wants to change it to.
func (s *PostulationService) checkEditable(ctx context.Context, existing postulation.Postulation) error {
	matches, err := s.matchRepo.GetByIDs(ctx, existing.MatchIDs)
	if err != nil {
		return fmt.Errorf("get selected matches: %w", err)
	}
	held, err := s.assignmentRepo.ListByRefereeAndClub(ctx, existing.UserID, existing.ClubID)
	if err != nil {
		return fmt.Errorf("list referee assignments: %w", err)
	}

	if err := postulation.CanEdit(existing, matches, held, s.now().UTC()); err != nil {
		return fmt.Errorf("%w: %v", ErrPreconditionFailed, err)
	}
	return nil
}

func (s *PostulationService) validateClub(ctx context.Context, clubID string) error {
	_, exists, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return fmt.Errorf("get club by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}

	return nil
}

// validateSelection requires every selected match to exist and belong to the
// club.
func (s *PostulationService) validateSelection(ctx context.Context, clubID string, matchIDs []string) error {
	matches, err := s.matchRepo.GetByIDs(ctx, matchIDs)
	if err != nil {
		return fmt.Errorf("get matches by ids: %w", err)
	}
	byID := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}
	for _, matchID := range matchIDs {
		m, ok := byID[matchID]
		if !ok {
			return fmt.Errorf("%w: match id %s not found", ErrInvalidInput, matchID)
		}
		if m.ClubID != clubID {
			return fmt.Errorf("%w: match id %s does not belong to club=%s", ErrInvalidInput, matchID, clubID)
		}
	}

	return nil
}

func cleanMatchIDs(matchIDs []string) ([]string, error) {
	if len(matchIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one match must be selected", ErrInvalidInput)
	}

	cleaned := make([]string, 0, len(matchIDs))
	seen := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: match id cannot be empty", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate match id %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		cleaned = append(cleaned, id)
	}

	return cleaned, nil
}
