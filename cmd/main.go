package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	service "github.com/okian/wapoints/internal/app"
	"github.com/okian/wapoints/internal/config"
	"github.com/okian/wapoints/pkg/logger"
	"github.com/okian/wapoints/pkg/metrics"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configFile string
	json       bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "wapoints",
		Short: "Athletics points calculator",
		Long: `wapoints converts athletics performances into result points using the
published coefficient tables, and adds placement points for the
competition category and finishing place.

Configuration is read from defaults, then the YAML file named by
WAPOINTS_CONFIG (or --config), then WAPOINTS_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if flags.configFile != "" {
				return os.Setenv(config.EnvConfigFile, flags.configFile)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "YAML config file")
	root.PersistentFlags().BoolVar(&flags.json, "json", false, "output JSON")

	root.AddCommand(
		serveCmd(),
		scoreCmd(flags),
		placementCmd(flags),
		eventsCmd(flags),
		categoriesCmd(flags),
	)
	return root
}

// setup loads configuration, applies logging settings and builds the
// service options the configuration asks for.
func setup(cmd *cobra.Command) (*config.Config, []service.Option, error) {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		return nil, nil, fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithPointsBuckets(cfg.MetricsPointsBuckets),
	)

	opts := []service.Option{
		service.WithLogger(log),
		service.WithDefaultGender(cfg.Gender()),
		service.WithLenientModifiers(cfg.LenientModifiers),
		service.WithVerifySamples(cfg.VerifySamples),
		service.WithCoefficientsFile(cfg.CoefficientsFile),
		service.WithPlacementFile(cfg.PlacementFile),
	}
	return cfg, opts, nil
}

// startService builds and starts a service for one-shot commands. The
// returned stop function must be called when done.
func startService(cmd *cobra.Command) (*service.Service, func(), error) {
	_, opts, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	svc := service.New(opts...)
	if err := svc.Start(cmd.Context()); err != nil {
		return nil, nil, fmt.Errorf("start service: %w", err)
	}
	return svc, svc.Stop, nil
}
