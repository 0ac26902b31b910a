package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/overlap-planner/internal/application"
	"github.com/example/overlap-planner/internal/roster"
)

// PlanHandler serves the single evaluation endpoint.
type PlanHandler struct {
	service   *application.PlanService
	responder responder
	logger    *slog.Logger
}

// NewPlanHandler constructs a PlanHandler.
func NewPlanHandler(service *application.PlanService, logger *slog.Logger) *PlanHandler {
	logger = defaultLogger(logger)
	return &PlanHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type viewerRequest struct {
	UTCOffset  int  `json:"utc_offset"`
	DST        bool `json:"dst"`
	LocalTimes bool `json:"local_times"`
}

type planRequest struct {
	RosterID    string               `json:"roster_id"`
	People      []roster.Person      `json:"people"`
	Constraints roster.ConstraintMap `json:"constraints"`
	Mode        string               `json:"mode"`
	Date        string               `json:"date"`
	Viewer      *viewerRequest       `json:"viewer"`
}

// Compute handles POST /plan.
func (h *PlanHandler) Compute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := handlerLogger(ctx, h.logger, "PlanHandler", "Compute")

	principal, _ := PrincipalFromContext(ctx)

	var payload planRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	params := application.ComputePlanParams{
		Principal:   principal,
		RosterID:    payload.RosterID,
		People:      payload.People,
		Constraints: payload.Constraints,
		Mode:        application.PlanMode(payload.Mode),
		Date:        payload.Date,
	}
	if payload.Viewer != nil {
		params.Viewer = application.ViewerOptions{
			UTCOffset:  payload.Viewer.UTCOffset,
			DST:        payload.Viewer.DST,
			LocalTimes: payload.Viewer.LocalTimes,
		}
	}

	result, err := h.service.ComputePlan(ctx, params)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "plan computed", "mode", result.Mode, "empty", result.Empty)
	h.responder.writeJSON(ctx, w, http.StatusOK, result)
}
