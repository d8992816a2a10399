package httpapi

import (
	"fmt"
	"net/http"

	"github.com/refbook/refbook/internal/usecase"
)

type postulationUpsertRequest struct {
	MatchIDs []string `json:"matchIds" validate:"min=1,max=200,dive,required"`
	HasCar   bool     `json:"hasCar"`
	Notes    string   `json:"notes" validate:"max=500"`
}

func (h *Handler) CreatePostulation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePostulation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clubID := trimmedPathValue(r, "clubID")
	var req postulationUpsertRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.postulationService.Create(ctx, usecase.CreatePostulationInput{
		UserID:   principal.UserID,
		ClubID:   clubID,
		MatchIDs: req.MatchIDs,
		HasCar:   req.HasCar,
		Notes:    req.Notes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create postulation failed", "user_id", principal.UserID, "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, postulationToDTO(created))
}

func (h *Handler) UpdatePostulation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePostulation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	postulationID := trimmedPathValue(r, "postulationID")
	var req postulationUpsertRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.postulationService.Update(ctx, usecase.UpdatePostulationInput{
		PostulationID: postulationID,
		UserID:        principal.UserID,
		MatchIDs:      req.MatchIDs,
		HasCar:        req.HasCar,
		Notes:         req.Notes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update postulation failed", "user_id", principal.UserID, "postulation_id", postulationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, postulationToDTO(updated))
}

func (h *Handler) GetPostulation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPostulation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	postulationID := trimmedPathValue(r, "postulationID")
	p, err := h.postulationService.Get(ctx, principal.UserID, postulationID)
	if err != nil {
		h.logger.WarnContext(ctx, "get postulation failed", "user_id", principal.UserID, "postulation_id", postulationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, postulationToDTO(p))
}

func (h *Handler) ListClubPostulations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubPostulations")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clubID := trimmedPathValue(r, "clubID")
	postulations, err := h.postulationService.ListByClub(ctx, principal, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "list postulations failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]postulationDTO, 0, len(postulations))
	for _, p := range postulations {
		items = append(items, postulationToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetClubOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClubOverview")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clubID := trimmedPathValue(r, "clubID")
	rows, err := h.overviewService.ClubOverview(ctx, principal, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "club overview failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]overviewRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, overviewRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
