package httpapi

import (
	"fmt"
	"net/http"

	"github.com/refbook/refbook/internal/usecase"
)

type assignRefereeRequest struct {
	RefereeID string `json:"refereeId" validate:"required"`
}

func (h *Handler) AssignReferee(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignReferee")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clubID := trimmedPathValue(r, "clubID")
	matchID := trimmedPathValue(r, "matchID")
	var req assignRefereeRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	a, err := h.assignmentService.Assign(ctx, principal, usecase.AssignInput{
		ClubID:    clubID,
		MatchID:   matchID,
		RefereeID: req.RefereeID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "assign referee failed", "club_id", clubID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, assignmentToDTO(a))
}

func (h *Handler) UnassignReferee(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnassignReferee")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clubID := trimmedPathValue(r, "clubID")
	matchID := trimmedPathValue(r, "matchID")
	if err := h.assignmentService.Unassign(ctx, principal, clubID, matchID); err != nil {
		h.logger.WarnContext(ctx, "unassign referee failed", "club_id", clubID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "unassigned"})
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAssignments")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clubID := trimmedPathValue(r, "clubID")
	assignments, err := h.assignmentService.ListByClub(ctx, principal, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "list assignments failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]assignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, assignmentToDTO(a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
