package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/wapoints/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DefaultGender, convey.ShouldEqual, "men")
				convey.So(cfg.CoefficientsFile, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("WAPOINTS_ADDR", ":8080")
			_ = os.Setenv("WAPOINTS_LOG_LEVEL", "debug")
			_ = os.Setenv("WAPOINTS_DEFAULT_GENDER", "women")
			_ = os.Setenv("WAPOINTS_LENIENT_MODIFIERS", "true")
			_ = os.Setenv("WAPOINTS_MAX_REQUEST_BYTES", "1024")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.DefaultGender, convey.ShouldEqual, "women")
				convey.So(cfg.LenientModifiers, convey.ShouldBeTrue)
				convey.So(cfg.MaxRequestBytes, convey.ShouldEqual, 1024)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
verify_samples: 16
coefficients_file: "/etc/wapoints/coefficients.yaml"
placement_file: "/etc/wapoints/placements.yaml"
metrics_namespace: athletics
metrics_labels:
  deployment: staging
metrics_points_buckets: [0, 600, 1200]
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("WAPOINTS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.VerifySamples, convey.ShouldEqual, 16)
				convey.So(cfg.CoefficientsFile, convey.ShouldEqual, "/etc/wapoints/coefficients.yaml")
				convey.So(cfg.PlacementFile, convey.ShouldEqual, "/etc/wapoints/placements.yaml")
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "athletics")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "calculator")
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"deployment": "staging"})
				convey.So(cfg.MetricsPointsBuckets, convey.ShouldResemble, []float64{0, 600, 1200})
			})
		})

		convey.Convey("When env and file both set a value", func() {
			tmpFile := createTempConfigFile(`addr: ":9090"`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("WAPOINTS_CONFIG", tmpFile)
			_ = os.Setenv("WAPOINTS_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("WAPOINTS_CONFIG", "/nonexistent/wapoints.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file is not YAML", func() {
			tmpFile := createTempConfigFile("addr: [")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("WAPOINTS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("WAPOINTS_DEFAULT_GENDER", "mixed")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then an invalid config error is returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	envVars := []string{
		"WAPOINTS_CONFIG",
		"WAPOINTS_ADDR",
		"WAPOINTS_LOG_LEVEL",
		"WAPOINTS_DEFAULT_GENDER",
		"WAPOINTS_LENIENT_MODIFIERS",
		"WAPOINTS_MAX_REQUEST_BYTES",
		"WAPOINTS_VERIFY_SAMPLES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "wapoints-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
