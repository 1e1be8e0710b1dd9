package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/wapoints/internal/domain/model"
	"github.com/okian/wapoints/pkg/errs"
)

// CalculateDependencies defines the interface for performance scoring.
type CalculateDependencies interface {
	Calculate(ctx context.Context, req model.ScoreRequest) (model.ScoreResult, error)
	CalculateTotal(ctx context.Context, req model.TotalRequest) (model.TotalResult, error)
}

// CalculateHandler handles scoring requests.
type CalculateHandler struct {
	deps   CalculateDependencies
	decode decodeFunc
}

// NewCalculateHandler creates a new calculate handler.
func NewCalculateHandler(deps CalculateDependencies, decode decodeFunc) *CalculateHandler {
	return &CalculateHandler{deps: deps, decode: decode}
}

// HandleScore handles POST /score requests.
func (h *CalculateHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"

	var req model.ScoreRequest
	if err := h.decode(w, r, &req); err != nil {
		writeFailure(w, errs.Wrap(op, err))
		return
	}
	if strings.TrimSpace(req.EventID) == "" {
		writeFailure(w, errs.NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Calculate(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleTotal handles POST /total requests.
func (h *CalculateHandler) HandleTotal(w http.ResponseWriter, r *http.Request) {
	const op = "api.total"

	var req model.TotalRequest
	if err := h.decode(w, r, &req); err != nil {
		writeFailure(w, errs.Wrap(op, err))
		return
	}
	if strings.TrimSpace(req.EventID) == "" || strings.TrimSpace(req.Category) == "" {
		writeFailure(w, errs.NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.CalculateTotal(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
