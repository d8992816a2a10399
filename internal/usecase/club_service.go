package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/refbook/refbook/internal/domain/club"
	"github.com/refbook/refbook/internal/platform/logging"
)

type ClubService struct {
	clubRepo club.Repository
	logger   *logging.Logger
}

func NewClubService(clubRepo club.Repository, logger *logging.Logger) *ClubService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ClubService{clubRepo: clubRepo, logger: logger}
}

func (s *ClubService) List(ctx context.Context) ([]club.Club, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}

	return clubs, nil
}

func (s *ClubService) Get(ctx context.Context, clubID string) (club.Club, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return club.Club{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	c, exists, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return club.Club{}, fmt.Errorf("get club: %w", err)
	}
	if !exists {
		return club.Club{}, fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}

	return c, nil
}
