// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	service "github.com/okian/wapoints/internal/app"
	"github.com/okian/wapoints/pkg/errs"
	"github.com/okian/wapoints/pkg/logger"
)

const defaultMaxRequestBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	EventDependencies
	CalculateDependencies
	PlacementDependencies
	StatsProvider
}

// Server wires HTTP routes for the calculator API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	eventsHandler    *EventsHandler
	calculateHandler *CalculateHandler
	placementHandler *PlacementHandler

	maxRequestBytes int64
	clock           clockwork.Clock
	logger          logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxRequestBytes caps request bodies.
func WithMaxRequestBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxRequestBytes = n
		}
	}
}

// WithClock sets the clock used to time requests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Server) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		maxRequestBytes: defaultMaxRequestBytes,
		clock:           clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}

	decode := func(w http.ResponseWriter, r *http.Request, v any) error {
		return decodeJSON(w, r, s.maxRequestBytes, v)
	}
	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	s.eventsHandler = NewEventsHandler(deps)
	s.calculateHandler = NewCalculateHandler(deps, decode)
	s.placementHandler = NewPlacementHandler(deps, decode)
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(MetricsMiddleware(s.clock, s.logger))

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Handle("/metrics", s.healthHandler.MetricsHandler())
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Get("/events", s.eventsHandler.HandleListEvents)
	r.Get("/events/{id}", s.eventsHandler.HandleGetEvent)

	r.Post("/score", s.calculateHandler.HandleScore)
	r.Post("/total", s.calculateHandler.HandleTotal)

	r.Post("/placement", s.placementHandler.HandlePlacement)
	r.Get("/categories", s.placementHandler.HandleCategories)
}

// Routes returns a router with every route registered.
func (s *Server) Routes(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	s.Register(ctx, r)
	return r
}

type decodeFunc func(w http.ResponseWriter, r *http.Request, v any) error

// decodeJSON reads a single JSON document of at most limit bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	const op = "api.decode"

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.WrapKind(op, ErrBodyTooLarge, err)
		}
		return errs.WrapKind(op, ErrBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.WrapKind(op, ErrBadRequest, fmt.Errorf("trailing data after JSON body"))
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto its status and code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

// compile-time check that the service satisfies the handler contracts.
var _ Dependencies = (*service.Service)(nil)
