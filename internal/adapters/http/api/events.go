package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/wapoints/internal/domain/model"
)

// EventDependencies defines the interface for event listing.
type EventDependencies interface {
	ListEvents(ctx context.Context, gender string) ([]model.EventInfo, error)
	GetEvent(ctx context.Context, id string) (model.EventInfo, error)
}

// EventsHandler handles event catalog requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleListEvents handles GET /events?gender= requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.ListEvents(r.Context(), r.URL.Query().Get("gender"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(events))
}

// HandleGetEvent handles GET /events/{id} requests. The id may be an alias.
func (h *EventsHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.deps.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
