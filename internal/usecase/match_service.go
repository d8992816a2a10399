package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/refbook/refbook/internal/domain/club"
	"github.com/refbook/refbook/internal/domain/match"
	"github.com/refbook/refbook/internal/domain/user"
	idgen "github.com/refbook/refbook/internal/platform/id"
	"github.com/refbook/refbook/internal/platform/logging"
)

// UpsertMatchInput carries the admin-entered match sheet. Date and Time stay
// strings end to end; the service only verifies they parse.
type UpsertMatchInput struct {
	MatchID     string
	ClubID      string
	Description string
	Date        string
	Time        string
	Location    string
	Status      string
}

type MatchService struct {
	clubRepo  club.Repository
	matchRepo match.Repository
	idGen     idgen.Generator
	logger    *logging.Logger
}

func NewMatchService(
	clubRepo club.Repository,
	matchRepo match.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		clubRepo:  clubRepo,
		matchRepo: matchRepo,
		idGen:     idGen,
		logger:    logger,
	}
}

func (s *MatchService) Create(ctx context.Context, principal user.Principal, input UpsertMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Create")
	defer span.End()

	m, err := s.buildMatch(ctx, principal, input)
	if err != nil {
		return match.Match{}, err
	}

	m.ID, err = s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	if err := s.matchRepo.Create(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created",
		"match_id", m.ID,
		"club_id", m.ClubID,
		"date", m.Date,
		"time", m.Time,
	)

	return m, nil
}

func (s *MatchService) Update(ctx context.Context, principal user.Principal, input UpsertMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Update")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.MatchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, err := s.buildMatch(ctx, principal, input)
	if err != nil {
		return match.Match{}, err
	}
	m.ID = input.MatchID

	updated, err := s.matchRepo.Update(ctx, m)
	if err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}
	if !updated {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, m.ID)
	}

	s.logger.InfoContext(ctx, "match updated", "match_id", m.ID, "club_id", m.ClubID)

	return m, nil
}

func (s *MatchService) SetStatus(ctx context.Context, principal user.Principal, clubID, matchID, status string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.SetStatus")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	matchID = strings.TrimSpace(matchID)
	status = match.NormalizeStatus(status)

	if clubID == "" || matchID == "" {
		return match.Match{}, fmt.Errorf("%w: club_id and match_id are required", ErrInvalidInput)
	}
	if !principal.IsAdminOf(clubID) {
		return match.Match{}, fmt.Errorf("%w: user=%s does not administer club=%s", ErrUnauthorized, principal.UserID, clubID)
	}
	if !match.IsValidStatus(status) {
		return match.Match{}, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, status)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists || m.ClubID != clubID {
		return match.Match{}, fmt.Errorf("%w: match=%s in club=%s", ErrNotFound, matchID, clubID)
	}

	m.Status = status
	updated, err := s.matchRepo.Update(ctx, m)
	if err != nil {
		return match.Match{}, fmt.Errorf("update match status: %w", err)
	}
	if !updated {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	s.logger.InfoContext(ctx, "match status changed", "match_id", m.ID, "status", m.Status)

	return m, nil
}

// Delete removes the match sheet. Postulation selections keep their dangling
// match ids; the edit rules skip matches they cannot load.
func (s *MatchService) Delete(ctx context.Context, principal user.Principal, clubID, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Delete")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	matchID = strings.TrimSpace(matchID)
	if clubID == "" || matchID == "" {
		return fmt.Errorf("%w: club_id and match_id are required", ErrInvalidInput)
	}
	if !principal.IsAdminOf(clubID) {
		return fmt.Errorf("%w: user=%s does not administer club=%s", ErrUnauthorized, principal.UserID, clubID)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match by id: %w", err)
	}
	if !exists || m.ClubID != clubID {
		return fmt.Errorf("%w: match=%s in club=%s", ErrNotFound, matchID, clubID)
	}

	if _, err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	s.logger.InfoContext(ctx, "match deleted", "match_id", matchID, "club_id", clubID)

	return nil
}

func (s *MatchService) ListByClub(ctx context.Context, clubID string) ([]match.Match, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return matches, nil
}

func (s *MatchService) buildMatch(ctx context.Context, principal user.Principal, input UpsertMatchInput) (match.Match, error) {
	input.ClubID = strings.TrimSpace(input.ClubID)
	input.Description = strings.TrimSpace(input.Description)
	input.Date = strings.TrimSpace(input.Date)
	input.Time = strings.TrimSpace(input.Time)
	input.Location = strings.TrimSpace(input.Location)
	input.Status = match.NormalizeStatus(input.Status)

	if input.ClubID == "" {
		return match.Match{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}
	if !principal.IsAdminOf(input.ClubID) {
		return match.Match{}, fmt.Errorf("%w: user=%s does not administer club=%s", ErrUnauthorized, principal.UserID, input.ClubID)
	}
	if input.Description == "" {
		return match.Match{}, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if _, err := match.Instant(input.Date, input.Time); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !match.IsValidStatus(input.Status) {
		return match.Match{}, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, input.Status)
	}

	_, exists, err := s.clubRepo.GetByID(ctx, input.ClubID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get club by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: club=%s", ErrNotFound, input.ClubID)
	}

	return match.Match{
		ClubID:      input.ClubID,
		Description: input.Description,
		Date:        input.Date,
		Time:        input.Time,
		Location:    input.Location,
		Status:      input.Status,
	}, nil
}
