package httpapi

import (
	"fmt"
	"net/http"

	"github.com/refbook/refbook/internal/usecase"
)

type matchUpsertRequest struct {
	Description string `json:"description" validate:"required,max=200"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Location    string `json:"location" validate:"max=200"`
	Status      string `json:"status"`
}

type matchStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	clubID := trimmedPathValue(r, "clubID")
	matches, err := h.matchService.ListByClub(ctx, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clubID := trimmedPathValue(r, "clubID")
	var req matchUpsertRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.Create(ctx, principal, usecase.UpsertMatchInput{
		ClubID:      clubID,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Status:      req.Status,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(created))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clubID := trimmedPathValue(r, "clubID")
	matchID := trimmedPathValue(r, "matchID")
	var req matchUpsertRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.Update(ctx, principal, usecase.UpsertMatchInput{
		MatchID:     matchID,
		ClubID:      clubID,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Status:      req.Status,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "club_id", clubID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) SetMatchStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMatchStatus")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clubID := trimmedPathValue(r, "clubID")
	matchID := trimmedPathValue(r, "matchID")
	var req matchStatusRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.SetStatus(ctx, principal, clubID, matchID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "set match status failed", "club_id", clubID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clubID := trimmedPathValue(r, "clubID")
	matchID := trimmedPathValue(r, "matchID")
	if err := h.matchService.Delete(ctx, principal, clubID, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "club_id", clubID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}
