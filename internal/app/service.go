// Package service provides the application service behind the HTTP API and
// the command line: listing events and calculating performance, placement
// and combined points.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/okian/wapoints/internal/domain/adjust"
	"github.com/okian/wapoints/internal/domain/catalog"
	"github.com/okian/wapoints/internal/domain/model"
	"github.com/okian/wapoints/internal/domain/performance"
	"github.com/okian/wapoints/internal/domain/placement"
	"github.com/okian/wapoints/internal/domain/scoring"
	"github.com/okian/wapoints/internal/domain/types"
	"github.com/okian/wapoints/pkg/errs"
	"github.com/okian/wapoints/pkg/logger"
	"github.com/okian/wapoints/pkg/metrics"
)

// Adjustment effects used as metric labels.
const (
	effectApplied         = "applied"
	effectWithinAllowance = "within_allowance"
	effectIgnored         = "ignored"
	unknownLabel          = "unknown"
)

// Service implements the calculator operations. Tables are loaded once by
// Start and are read-only afterwards.
type Service struct {
	mu sync.RWMutex

	// Tables
	catalog  *catalog.Catalog
	tables   *placement.Tables
	adjuster *adjust.Adjuster

	// Configuration
	coefficientsFile string
	placementFile    string
	defaultGender    types.Gender
	lenient          bool
	verifySamples    int

	// State
	started   bool
	startedAt time.Time
	clock     clockwork.Clock

	calculations atomic.Int64
	failures     atomic.Int64
	placements   atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog uses c instead of loading a coefficient table.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithPlacementTables uses t instead of loading placement tables.
func WithPlacementTables(t *placement.Tables) Option {
	return func(s *Service) {
		if t != nil {
			s.tables = t
		}
	}
}

// WithCoefficientsFile loads the coefficient table from path on Start.
func WithCoefficientsFile(path string) Option {
	return func(s *Service) {
		s.coefficientsFile = path
	}
}

// WithPlacementFile loads the placement tables from path on Start.
func WithPlacementFile(path string) Option {
	return func(s *Service) {
		s.placementFile = path
	}
}

// WithDefaultGender sets the gender used when a request names none.
func WithDefaultGender(g types.Gender) Option {
	return func(s *Service) {
		if g != "" {
			s.defaultGender = g
		}
	}
}

// WithLenientModifiers ignores inapplicable wind or elevation readings.
func WithLenientModifiers(lenient bool) Option {
	return func(s *Service) {
		s.lenient = lenient
	}
}

// WithVerifySamples sets how densely the startup self-check samples each range.
func WithVerifySamples(n int) Option {
	return func(s *Service) {
		if n > 1 {
			s.verifySamples = n
		}
	}
}

// WithClock sets the clock used for timings and uptime.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultGender: types.Men,
		verifySamples: scoring.DefaultSamples,
		clock:         clockwork.NewRealClock(),
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the tables and runs the direction self-check. A table that
// fails the check aborts start.
func (s *Service) Start(ctx context.Context) error {
	const op = "service.Start"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting points service...")

	cat, err := s.loadCatalog()
	if err != nil {
		return errs.Wrap(op, err)
	}
	tables, err := s.loadTables()
	if err != nil {
		return errs.Wrap(op, err)
	}

	began := s.clock.Now()
	err = scoring.VerifyCatalog(cat, s.verifySamples)
	elapsed := s.clock.Since(began)
	metrics.RecordSelfCheck(float64(elapsed.Microseconds())/1000, err != nil)
	if err != nil {
		s.logger.Error(ctx, "coefficient self-check failed", logger.Error(err))
		return errs.Wrap(op, err)
	}

	s.catalog = cat
	s.tables = tables
	s.adjuster = adjust.New(adjust.WithLenient(s.lenient))
	s.startedAt = s.clock.Now()
	s.started = true
	metrics.UpdateTables(cat.Len(), len(tables.Categories()))

	s.logger.Info(ctx, "points service started",
		logger.Int("events", cat.Len()),
		logger.String("coefficientsVersion", cat.Version()),
		logger.Int("categories", len(tables.Categories())),
		logger.String("placementVersion", tables.Version()),
		logger.String("defaultGender", string(s.defaultGender)),
		logger.Bool("lenientModifiers", s.lenient),
		logger.Duration("selfCheck", elapsed),
	)

	return nil
}

func (s *Service) loadCatalog() (*catalog.Catalog, error) {
	switch {
	case s.catalog != nil:
		return s.catalog, nil
	case s.coefficientsFile != "":
		return catalog.LoadFile(s.coefficientsFile)
	default:
		return catalog.Default()
	}
}

func (s *Service) loadTables() (*placement.Tables, error) {
	switch {
	case s.tables != nil:
		return s.tables, nil
	case s.placementFile != "":
		return placement.LoadFile(s.placementFile)
	default:
		return placement.Default()
	}
}

// Stop marks the service as stopped. Loaded tables are kept for a restart.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "points service stopped",
		logger.Int("calculations", int(s.calculations.Load())),
		logger.Int("failures", int(s.failures.Load())),
	)
}

type snapshot struct {
	catalog  *catalog.Catalog
	tables   *placement.Tables
	adjuster *adjust.Adjuster
}

func (s *Service) snapshot(op string) (snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return snapshot{}, errs.NewKind(op, ErrNotStarted)
	}
	return snapshot{catalog: s.catalog, tables: s.tables, adjuster: s.adjuster}, nil
}

func (s *Service) gender(raw string) (types.Gender, error) {
	if raw == "" {
		return s.defaultGender, nil
	}
	g, err := types.ParseGender(raw)
	if err != nil {
		return "", errs.WrapKind("service.gender", ErrInvalidGender, err)
	}
	return g, nil
}

// ListEvents returns the events contested by gender, or every event when
// gender is empty.
func (s *Service) ListEvents(_ context.Context, gender string) ([]model.EventInfo, error) {
	const op = "service.ListEvents"

	snap, err := s.snapshot(op)
	if err != nil {
		return nil, err
	}

	var events []catalog.Event
	if gender == "" {
		events = snap.catalog.Events()
	} else {
		g, err := s.gender(gender)
		if err != nil {
			return nil, errs.Wrap(op, err)
		}
		events = snap.catalog.EventsFor(g)
	}

	out := make([]model.EventInfo, len(events))
	for i, ev := range events {
		out[i] = model.NewEventInfo(ev)
	}
	return out, nil
}

// GetEvent returns one event by id or alias.
func (s *Service) GetEvent(_ context.Context, id string) (model.EventInfo, error) {
	const op = "service.GetEvent"

	snap, err := s.snapshot(op)
	if err != nil {
		return model.EventInfo{}, err
	}
	ev, err := snap.catalog.Lookup(id)
	if err != nil {
		return model.EventInfo{}, errs.Wrap(op, err)
	}
	return model.NewEventInfo(ev), nil
}

// Calculate parses, adjusts and scores one performance.
func (s *Service) Calculate(ctx context.Context, req model.ScoreRequest) (model.ScoreResult, error) {
	const op = "service.Calculate"

	began := s.clock.Now()
	res, family, err := s.calculate(req)
	if err != nil {
		s.failures.Add(1)
		label := res.EventID
		if label == "" {
			label = unknownLabel
		}
		metrics.RecordCalculationError(label, ErrorCode(err))
		s.logDebug(ctx, "calculation rejected",
			logger.String("event", req.EventID),
			logger.String("performance", req.Performance),
			logger.Error(err),
		)
		return model.ScoreResult{}, errs.Wrap(op, err)
	}

	s.calculations.Add(1)
	metrics.RecordCalculation(res.EventID, string(family), res.Points, float64(s.clock.Since(began).Microseconds())/1000)
	recordAdjustments(res.Adjustment)
	s.logDebug(ctx, "calculated",
		logger.String("event", res.EventID),
		logger.String("gender", string(res.Gender)),
		logger.String("performance", res.Display),
		logger.String("adjusted", res.AdjustedDisplay),
		logger.Int("points", res.Points),
	)
	return res, nil
}

// calculate returns the event id in res even on failure, once it is known.
func (s *Service) calculate(req model.ScoreRequest) (model.ScoreResult, types.Family, error) {
	snap, err := s.snapshot("service.calculate")
	if err != nil {
		return model.ScoreResult{}, "", err
	}
	g, err := s.gender(req.Gender)
	if err != nil {
		return model.ScoreResult{}, "", err
	}
	ev, _, err := snap.catalog.LookupFor(g, req.EventID)
	if err != nil {
		return model.ScoreResult{}, "", err
	}
	res := model.ScoreResult{EventID: ev.ID, Gender: g, Unit: ev.Unit()}

	perf, err := performance.Parse(req.Performance, ev.Unit())
	if err != nil {
		return res, ev.Family, err
	}
	adjusted, applied, err := snap.adjuster.Adjust(perf, adjust.Context{Wind: req.Wind, Elevation: req.Elevation}, ev, g)
	if err != nil {
		return res, ev.Family, err
	}
	points, err := scoring.Score(adjusted, ev, g)
	if err != nil {
		return res, ev.Family, err
	}

	res.Points = points
	res.Performance = perf.Value
	res.Adjusted = adjusted.Value
	res.Display = perf.String()
	res.AdjustedDisplay = adjusted.String()
	res.Adjustment = applied
	return res, ev.Family, nil
}

func recordAdjustments(a adjust.Applied) {
	if a.Wind != nil {
		metrics.RecordAdjustment(adjust.ModifierWind, effect(a.WindOffset))
	}
	if a.Elevation != nil {
		metrics.RecordAdjustment(adjust.ModifierElevation, effect(a.ElevationOffset))
	}
	for _, m := range a.Ignored {
		metrics.RecordAdjustment(m, effectIgnored)
	}
}

func effect(offset float64) string {
	if offset == 0 {
		return effectWithinAllowance
	}
	return effectApplied
}

// CalculatePlacement scores a finishing place. The event, when given,
// selects its placement group; otherwise the track and field tables apply.
func (s *Service) CalculatePlacement(ctx context.Context, req model.PlacementRequest) (model.PlacementResult, error) {
	const op = "service.CalculatePlacement"

	res, err := s.calculatePlacement(req)
	if err != nil {
		metrics.RecordPlacement(categoryLabel(req.Category, err), metrics.OutcomeError)
		s.logDebug(ctx, "placement rejected",
			logger.String("category", req.Category),
			logger.Int("place", req.Place),
			logger.Error(err),
		)
		return model.PlacementResult{}, errs.Wrap(op, err)
	}

	s.placements.Add(1)
	outcome := metrics.OutcomeOK
	if res.Fallback {
		outcome = metrics.OutcomeFallback
	}
	metrics.RecordPlacement(res.Category, outcome)
	return res, nil
}

func (s *Service) calculatePlacement(req model.PlacementRequest) (model.PlacementResult, error) {
	snap, err := s.snapshot("service.calculatePlacement")
	if err != nil {
		return model.PlacementResult{}, err
	}

	group := placement.DefaultGroup
	if req.EventID != "" {
		ev, err := snap.catalog.Lookup(req.EventID)
		if err != nil {
			return model.PlacementResult{}, err
		}
		if ev.PlacementGroup != "" {
			group = ev.PlacementGroup
		}
	}
	r, err := snap.tables.Score(placement.Request{
		Group:       group,
		Round:       placement.Round(req.Round),
		Category:    req.Category,
		Place:       req.Place,
		SizeOfFinal: req.SizeOfFinal,
	})
	if err != nil {
		return model.PlacementResult{}, err
	}
	return model.PlacementResult{
		Category:    strings.ToUpper(strings.TrimSpace(req.Category)),
		Group:       group,
		Round:       string(r.Round),
		Place:       req.Place,
		ScoredPlace: r.Place,
		Points:      r.Points,
		Fallback:    r.Fallback,
	}, nil
}

// CalculateTotal runs the performance and placement paths independently and
// sums them.
func (s *Service) CalculateTotal(ctx context.Context, req model.TotalRequest) (model.TotalResult, error) {
	const op = "service.CalculateTotal"

	score, err := s.Calculate(ctx, req.ScoreRequest)
	if err != nil {
		return model.TotalResult{}, errs.Wrap(op, err)
	}
	place, err := s.CalculatePlacement(ctx, req.PlacementRequest())
	if err != nil {
		return model.TotalResult{}, errs.Wrap(op, err)
	}
	return model.TotalResult{Score: score, Placement: place, Total: score.Points + place.Points}, nil
}

// Categories lists the placement categories.
func (s *Service) Categories(_ context.Context) ([]placement.Category, error) {
	snap, err := s.snapshot("service.Categories")
	if err != nil {
		return nil, err
	}
	return snap.tables.Categories(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":          s.started,
		"defaultGender":    string(s.defaultGender),
		"lenientModifiers": s.lenient,
		"calculations":     s.calculations.Load(),
		"failures":         s.failures.Load(),
		"placements":       s.placements.Load(),
	}

	if s.started {
		stats["events"] = s.catalog.Len()
		stats["categories"] = len(s.tables.Categories())
		stats["coefficientsVersion"] = s.catalog.Version()
		stats["placementVersion"] = s.tables.Version()
		stats["uptimeSeconds"] = int64(s.clock.Since(s.startedAt) / time.Second)
	}

	return stats
}

func (s *Service) logDebug(ctx context.Context, msg string, fields ...logger.Field) {
	if s.logger != nil {
		s.logger.Debug(ctx, msg, fields...)
	}
}

// categoryLabel bounds metric label values to known categories.
func categoryLabel(c string, err error) string {
	if c == "" || errors.Is(err, placement.ErrUnknownCategory) {
		return unknownLabel
	}
	return strings.ToUpper(strings.TrimSpace(c))
}
