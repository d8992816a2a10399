package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/refbook/refbook/internal/domain/assignment"
	"github.com/refbook/refbook/internal/domain/club"
	"github.com/refbook/refbook/internal/domain/match"
	"github.com/refbook/refbook/internal/domain/postulation"
	"github.com/refbook/refbook/internal/platform/logging"
	"github.com/refbook/refbook/internal/usecase"
)

type Handler struct {
	clubService        *usecase.ClubService
	matchService       *usecase.MatchService
	postulationService *usecase.PostulationService
	assignmentService  *usecase.AssignmentService
	overviewService    *usecase.OverviewService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	clubService *usecase.ClubService,
	matchService *usecase.MatchService,
	postulationService *usecase.PostulationService,
	assignmentService *usecase.AssignmentService,
	overviewService *usecase.OverviewService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		clubService:        clubService,
		matchService:       matchService,
		postulationService: postulationService,
		assignmentService:  assignmentService,
		overviewService:    overviewService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubs")
	defer span.End()

	clubs, err := h.clubService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list clubs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]clubDTO, 0, len(clubs))
	for _, c := range clubs {
		items = append(items, clubToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClub")
	defer span.End()

	clubID := r.PathValue("clubID")
	c, err := h.clubService.Get(ctx, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "get club failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clubToDTO(c))
}

func (h *Handler) decodeRequest(ctx context.Context, body io.Reader, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, target)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type clubDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortCode string `json:"shortCode"`
}

type matchDTO struct {
	ID          string `json:"id"`
	ClubID      string `json:"clubId"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Status      string `json:"status"`
}

type postulationDTO struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	ClubID      string   `json:"clubId"`
	MatchIDs    []string `json:"matchIds"`
	HasCar      bool     `json:"hasCar"`
	Notes       string   `json:"notes"`
	Status      string   `json:"status"`
	SubmittedAt string   `json:"submittedAt"`
}

type assignmentDTO struct {
	ID         string `json:"id"`
	ClubID     string `json:"clubId"`
	MatchID    string `json:"matchId"`
	RefereeID  string `json:"refereeId"`
	AssignedAt string `json:"assignedAt"`
}

type overviewRowDTO struct {
	Postulation postulationDTO `json:"postulation"`
	Matches     []matchDTO     `json:"matches"`
	Editable    bool           `json:"editable"`
	FrozenBy    string         `json:"frozenBy,omitempty"`
}

func clubToDTO(v club.Club) clubDTO {
	return clubDTO{
		ID:        v.ID,
		Name:      v.Name,
		ShortCode: v.ShortCode,
	}
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:          v.ID,
		ClubID:      v.ClubID,
		Description: v.Description,
		Date:        v.Date,
		Time:        v.Time,
		Location:    v.Location,
		Status:      v.Status,
	}
}

func postulationToDTO(v postulation.Postulation) postulationDTO {
	return postulationDTO{
		ID:          v.ID,
		UserID:      v.UserID,
		ClubID:      v.ClubID,
		MatchIDs:    append([]string(nil), v.MatchIDs...),
		HasCar:      v.HasCar,
		Notes:       v.Notes,
		Status:      v.Status,
		SubmittedAt: v.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

func assignmentToDTO(v assignment.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:         v.ID,
		ClubID:     v.ClubID,
		MatchID:    v.MatchID,
		RefereeID:  v.RefereeID,
		AssignedAt: v.AssignedAt.UTC().Format(time.RFC3339),
	}
}

func overviewRowToDTO(v usecase.PostulationOverview) overviewRowDTO {
	matches := make([]matchDTO, 0, len(v.Matches))
	for _, m := range v.Matches {
		matches = append(matches, matchToDTO(m))
	}

	return overviewRowDTO{
		Postulation: postulationToDTO(v.Postulation),
		Matches:     matches,
		Editable:    v.Editable,
		FrozenBy:    v.FrozenBy,
	}
}

func trimmedPathValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PathValue(key))
}
