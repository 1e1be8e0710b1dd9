package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/wapoints/internal/domain/model"
	"github.com/okian/wapoints/internal/domain/placement"
	"github.com/okian/wapoints/pkg/errs"
)

// PlacementDependencies defines the interface for placement scoring.
type PlacementDependencies interface {
	CalculatePlacement(ctx context.Context, req model.PlacementRequest) (model.PlacementResult, error)
	Categories(ctx context.Context) ([]placement.Category, error)
}

// PlacementHandler handles placement requests.
type PlacementHandler struct {
	deps   PlacementDependencies
	decode decodeFunc
}

// NewPlacementHandler creates a new placement handler.
func NewPlacementHandler(deps PlacementDependencies, decode decodeFunc) *PlacementHandler {
	return &PlacementHandler{deps: deps, decode: decode}
}

// HandlePlacement handles POST /placement requests.
func (h *PlacementHandler) HandlePlacement(w http.ResponseWriter, r *http.Request) {
	const op = "api.placement"

	var req model.PlacementRequest
	if err := h.decode(w, r, &req); err != nil {
		writeFailure(w, errs.Wrap(op, err))
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeFailure(w, errs.NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.CalculatePlacement(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleCategories handles GET /categories requests.
func (h *PlacementHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.deps.Categories(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(cats))
}
