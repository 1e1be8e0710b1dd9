// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"

	"github.com/okian/wapoints/internal/domain/types"
	"github.com/okian/wapoints/pkg/errs"
)

// Defaults.
const (
	defaultAddr            = ":9080"
	defaultMaxRequestBytes = 64 << 10
	defaultVerifySamples   = 64
	defaultMetricsPrefix   = "wapoints"
	defaultMetricsSubsys   = "calculator"
	minVerifySamples       = 2
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DefaultGender is used when a request names no gender.
	DefaultGender string `koanf:"default_gender"`

	// LenientModifiers ignores wind or elevation readings for events that
	// take none instead of rejecting the request.
	LenientModifiers bool `koanf:"lenient_modifiers"`

	// CoefficientsFile and PlacementFile replace the embedded tables when set.
	CoefficientsFile string `koanf:"coefficients_file"`
	PlacementFile    string `koanf:"placement_file"`

	// MaxRequestBytes caps HTTP request bodies.
	MaxRequestBytes int64 `koanf:"max_request_bytes"`

	// VerifySamples is the number of points the startup self-check samples
	// across each event's range.
	VerifySamples int `koanf:"verify_samples"`

	// MetricsNamespace and MetricsSubsystem prefix every exported metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLabels are constant labels attached to every metric, e.g. a
	// deployment name.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsPointsBuckets overrides the points histogram layout. Must be
	// strictly increasing.
	MetricsPointsBuckets []float64 `koanf:"metrics_points_buckets"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            defaultAddr,
		DefaultGender:   string(types.Men),
		MaxRequestBytes: defaultMaxRequestBytes,
		VerifySamples:   defaultVerifySamples,

		MetricsNamespace: defaultMetricsPrefix,
		MetricsSubsystem: defaultMetricsSubsys,
	}
}

// Gender returns the parsed default gender.
func (c *Config) Gender() types.Gender {
	g, err := types.ParseGender(c.DefaultGender)
	if err != nil {
		return types.Men
	}
	return g
}

// Validate reports the first invalid field.
func (c *Config) Validate(_ context.Context) error {
	const op = "config.Validate"

	if c.Addr == "" {
		return errs.WrapKind(op, ErrInvalidConfig, fmt.Errorf("addr must not be empty"))
	}
	if _, err := types.ParseGender(c.DefaultGender); err != nil {
		return errs.WrapKind(op, ErrInvalidConfig, err)
	}
	if c.MaxRequestBytes <= 0 {
		return errs.WrapKind(op, ErrInvalidConfig, fmt.Errorf("max_request_bytes must be positive, got %d", c.MaxRequestBytes))
	}
	if c.VerifySamples < minVerifySamples {
		return errs.WrapKind(op, ErrInvalidConfig, fmt.Errorf("verify_samples must be at least %d, got %d", minVerifySamples, c.VerifySamples))
	}
	if c.MetricsNamespace == "" {
		return errs.WrapKind(op, ErrInvalidConfig, fmt.Errorf("metrics_namespace must not be empty"))
	}
	for i := 1; i < len(c.MetricsPointsBuckets); i++ {
		if c.MetricsPointsBuckets[i] <= c.MetricsPointsBuckets[i-1] {
			return errs.WrapKind(op, ErrInvalidConfig, fmt.Errorf("metrics_points_buckets must be strictly increasing at index %d", i))
		}
	}
	return nil
}
