package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/refbook/refbook/internal/domain/assignment"
	"github.com/refbook/refbook/internal/domain/match"
	"github.com/refbook/refbook/internal/domain/postulation"
	"github.com/refbook/refbook/internal/domain/user"
	"github.com/refbook/refbook/internal/platform/logging"
)

const defaultOverviewWorkers = 8

// PostulationOverview is one dashboard row: a submission joined with its
// matches and the freeze verdict computed for it.
type PostulationOverview struct {
	Postulation postulation.Postulation `json:"postulation"`
	Matches     []match.Match           `json:"matches"`
	Editable    bool                    `json:"editable"`
	FrozenBy    string                  `json:"frozenBy,omitempty"`
}

type OverviewService struct {
	matchRepo       match.Repository
	postulationRepo postulation.Repository
	assignmentRepo  assignment.Repository
	maxWorkers      int
	logger          *logging.Logger
	now             func() time.Time
}

func NewOverviewService(
	matchRepo match.Repository,
	postulationRepo postulation.Repository,
	assignmentRepo assignment.Repository,
	maxWorkers int,
	logger *logging.Logger,
) *OverviewService {
	if maxWorkers <= 0 {
		maxWorkers = defaultOverviewWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &OverviewService{
		matchRepo:       matchRepo,
		postulationRepo: postulationRepo,
		assignmentRepo:  assignmentRepo,
		maxWorkers:      maxWorkers,
		logger:          logger,
		now:             time.Now,
	}
}

// ClubOverview evaluates every postulation in the club. Rows come back sorted
// by submission time, newest first, so the dashboard shows recent activity on
// top.
func (s *OverviewService) ClubOverview(ctx context.Context, principal user.Principal, clubID string) ([]PostulationOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "OverviewService.ClubOverview")
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
	if len(postulations) == 0 {
		return []PostulationOverview{}, nil
	}

	clubMatches, err := s.matchRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	matchByID := make(map[string]match.Match, len(clubMatches))
	for _, m := range clubMatches {
		matchByID[m.ID] = m
	}

	now := s.now().UTC()
	rows := make([]PostulationOverview, len(postulations))

	workerCount := s.maxWorkers
	if workerCount > len(postulations) {
		workerCount = len(postulations)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	var firstErr error
	var errOnce sync.Once
	for i, p := range postulations {
		i, p := i, p
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row, rowErr := s.buildRow(ctx, p, matchByID, now)
			if rowErr != nil {
				errOnce.Do(func() { firstErr = rowErr })
				return
			}
			rows[i] = row
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit overview task: %w", err)
		}
	}
	workers.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Postulation.SubmittedAt.After(rows[j].Postulation.SubmittedAt)
	})

	s.logger.DebugContext(ctx, "club overview built", "club_id", clubID, "rows", len(rows))

	return rows, nil
}

func (s *OverviewService) buildRow(ctx context.Context, p postulation.Postulation, matchByID map[string]match.Match, now time.Time) (PostulationOverview, error) {
	selected := make([]match.Match, 0, len(p.MatchIDs))
	for _, matchID := range p.MatchIDs {
		if m, ok := matchByID[matchID]; ok {
			selected = append(selected, m)
		}
	}

	held, err := s.assignmentRepo.ListByRefereeAndClub(ctx, p.UserID, p.ClubID)
	if err != nil {
		return PostulationOverview{}, fmt.Errorf("list referee assignments: %w", err)
	}

	row := PostulationOverview{
		Postulation: p,
		Matches:     selected,
		Editable:    true,
	}
	if err := postulation.CanEdit(p, selected, held, now); err != nil {
		row.Editable = false
		row.FrozenBy = err.Error()
	}

	return row, nil
}
