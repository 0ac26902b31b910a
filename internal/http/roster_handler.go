package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/overlap-planner/internal/application"
	"github.com/example/overlap-planner/internal/roster"
)

// RosterHandler serves CRUD operations over stored roster snapshots.
type RosterHandler struct {
	service   *application.RosterService
	responder responder
	logger    *slog.Logger
}

// NewRosterHandler constructs a RosterHandler.
func NewRosterHandler(service *application.RosterService, logger *slog.Logger) *RosterHandler {
	logger = defaultLogger(logger)
	return &RosterHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type rosterRequest struct {
	Name        string               `json:"name"`
	People      []roster.Person      `json:"people"`
	Constraints roster.ConstraintMap `json:"constraints"`
}

type rosterDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	People      []roster.Person      `json:"people"`
	Constraints roster.ConstraintMap `json:"constraints"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
}

func toRosterDTO(snapshot roster.Snapshot) rosterDTO {
	return rosterDTO{
		ID:          snapshot.ID,
		Name:        snapshot.Name,
		People:      snapshot.People,
		Constraints: snapshot.Constraints,
		CreatedAt:   snapshot.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   snapshot.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /rosters.
func (h *RosterHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := handlerLogger(ctx, h.logger, "RosterHandler", "Create")

	principal, _ := PrincipalFromContext(ctx)

	var payload rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	snapshot, err := h.service.CreateRoster(ctx, application.CreateRosterParams{
		Principal: principal,
		Input: application.RosterInput{
			Name:        payload.Name,
			People:      payload.People,
			Constraints: payload.Constraints,
		},
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "roster created", "roster_id", snapshot.ID)
	h.responder.writeJSON(ctx, w, http.StatusCreated, toRosterDTO(snapshot))
}

// List handles GET /rosters.
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, _ := PrincipalFromContext(ctx)

	snapshots, err := h.service.ListRosters(ctx, principal)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	dtos := make([]rosterDTO, 0, len(snapshots))
	for _, snapshot := range snapshots {
		dtos = append(dtos, toRosterDTO(snapshot))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, map[string]any{"rosters": dtos})
}

// Get handles GET /rosters/{id}.
func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, _ := PrincipalFromContext(ctx)
	id, ok := RosterIDFromContext(ctx)
	if !ok || id == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidRosterID)
		return
	}

	snapshot, err := h.service.GetRoster(ctx, principal, id)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toRosterDTO(snapshot))
}

// Update handles PUT /rosters/{id}. The stored snapshot is replaced in full.
func (h *RosterHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := handlerLogger(ctx, h.logger, "RosterHandler", "Update")

	principal, _ := PrincipalFromContext(ctx)
	id, ok := RosterIDFromContext(ctx)
	if !ok || id == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidRosterID)
		return
	}

	var payload rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	snapshot, err := h.service.UpdateRoster(ctx, application.UpdateRosterParams{
		Principal: principal,
		RosterID:  id,
		Input: application.RosterInput{
			Name:        payload.Name,
			People:      payload.People,
			Constraints: payload.Constraints,
		},
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "roster updated", "roster_id", snapshot.ID)
	h.responder.writeJSON(ctx, w, http.StatusOK, toRosterDTO(snapshot))
}

// Delete handles DELETE /rosters/{id}.
func (h *RosterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := handlerLogger(ctx, h.logger, "RosterHandler", "Delete")

	principal, _ := PrincipalFromContext(ctx)
	id, ok := RosterIDFromContext(ctx)
	if !ok || id == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidRosterID)
		return
	}

	if err := h.service.DeleteRoster(ctx, principal, id); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "roster deleted", "roster_id", id)
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}
