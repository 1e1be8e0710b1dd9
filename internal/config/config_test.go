package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/wapoints/internal/config"
	"github.com/okian/wapoints/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Gender(), convey.ShouldEqual, types.Men)
			convey.So(cfg.LenientModifiers, convey.ShouldBeFalse)
			convey.So(cfg.MaxRequestBytes, convey.ShouldEqual, 64<<10)
			convey.So(cfg.VerifySamples, convey.ShouldEqual, 64)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "wapoints")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "calculator")
			convey.So(cfg.Validate(ctx), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configs", t, func() {
		ctx := context.Background()
		mutations := []func(*config.Config){
			func(c *config.Config) { c.Addr = "" },
			func(c *config.Config) { c.DefaultGender = "mixed" },
			func(c *config.Config) { c.MaxRequestBytes = 0 },
			func(c *config.Config) { c.VerifySamples = 1 },
			func(c *config.Config) { c.MetricsNamespace = "" },
			func(c *config.Config) { c.MetricsPointsBuckets = []float64{500, 500} },
		}
		for _, mutate := range mutations {
			cfg := config.New(ctx)
			mutate(cfg)
			convey.So(errors.Is(cfg.Validate(ctx), config.ErrInvalidConfig), convey.ShouldBeTrue)
		}
	})

	convey.Convey("Given a women default", t, func() {
		cfg := config.New(context.Background())
		cfg.DefaultGender = "W"
		convey.So(cfg.Gender(), convey.ShouldEqual, types.Women)
	})
}
