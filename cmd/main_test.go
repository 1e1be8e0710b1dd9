package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	service "github.com/okian/wapoints/internal/app"
	"github.com/okian/wapoints/internal/config"
	"github.com/okian/wapoints/internal/domain/model"
	"github.com/okian/wapoints/internal/domain/types"
	"github.com/okian/wapoints/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScoreCommand(t *testing.T) {
	convey.Convey("Given the score command", t, func() {
		t.Setenv(config.EnvConfigFile, "")

		convey.Convey("When scoring a sprint as a table", func() {
			out, err := run(t, "score", "100m", "9.58")

			convey.Convey("Then the points are rendered", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "1355")
				convey.So(out, convey.ShouldContainSubstring, "9.58")
			})
		})

		convey.Convey("When scoring with an illegal wind as JSON", func() {
			out, err := run(t, "--json", "score", "100m", "9.58", "--wind", "3.0")

			convey.Convey("Then the adjusted result is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var res model.ScoreResult
				convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
				convey.So(res.Points, convey.ShouldEqual, 1335)
				convey.So(res.Adjustment.Wind, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a category and place are given", func() {
			out, err := run(t, "--json", "score", "100m", "9.58", "--category", "OW", "--place", "1")

			convey.Convey("Then the total is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var res model.TotalResult
				convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
				convey.So(res.Total, convey.ShouldEqual, 1730)
			})
		})

		convey.Convey("When the performance is malformed", func() {
			_, err := run(t, "score", "100m", "abc")

			convey.Convey("Then the command fails with the domain error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(service.ErrorCode(err), convey.ShouldEqual, service.CodeMalformedFormat)
			})
		})

		convey.Convey("When arguments are missing", func() {
			_, err := run(t, "score", "100m")

			convey.Convey("Then cobra rejects the call", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestPlacementCommand(t *testing.T) {
	convey.Convey("Given the placement command", t, func() {
		t.Setenv(config.EnvConfigFile, "")

		convey.Convey("When scoring a world championship win", func() {
			out, err := run(t, "placement", "OW", "1")

			convey.Convey("Then the points are rendered", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "375")
				convey.So(out, convey.ShouldContainSubstring, "track_field")
			})
		})

		convey.Convey("When the event selects a distance group", func() {
			out, err := run(t, "--json", "placement", "OW", "1", "--event", "5000m")

			convey.Convey("Then that group's table is used", func() {
				convey.So(err, convey.ShouldBeNil)
				var res model.PlacementResult
				convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
				convey.So(res.Group, convey.ShouldEqual, "distance_5000m")
				convey.So(res.Points, convey.ShouldEqual, 305)
			})
		})

		convey.Convey("When the place is not a number", func() {
			_, err := run(t, "placement", "OW", "first")

			convey.Convey("Then the command fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "whole number")
			})
		})
	})
}

func TestListingCommands(t *testing.T) {
	convey.Convey("Given the listing commands", t, func() {
		t.Setenv(config.EnvConfigFile, "")

		convey.Convey("When listing women's events as JSON", func() {
			out, err := run(t, "--json", "events", "--gender", "women")

			convey.Convey("Then only events scored for women are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				var events []model.EventInfo
				convey.So(json.Unmarshal([]byte(out), &events), convey.ShouldBeNil)
				convey.So(len(events), convey.ShouldBeGreaterThan, 0)
				for _, ev := range events {
					convey.So(ev.Genders, convey.ShouldContain, types.Women)
				}
			})
		})

		convey.Convey("When showing one event by alias", func() {
			out, err := run(t, "events", "100")

			convey.Convey("Then its row is rendered", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "100m")
			})
		})

		convey.Convey("When listing categories", func() {
			out, err := run(t, "categories")

			convey.Convey("Then every category is rendered", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, id := range []string{"OW", "DF", "GW", "GL", "F"} {
					convey.So(out, convey.ShouldContainSubstring, id)
				}
			})
		})
	})
}

func TestConfigFlag(t *testing.T) {
	convey.Convey("Given a config file making modifiers lenient", t, func() {
		t.Setenv(config.EnvConfigFile, "")
		path := filepath.Join(t.TempDir(), "wapoints.yaml")
		convey.So(os.WriteFile(path, []byte("lenient_modifiers: true\n"), 0o600), convey.ShouldBeNil)

		convey.Convey("When wind is sent for a throw", func() {
			out, err := run(t, "--config", path, "--json", "score", "Shot Put", "20.00", "--wind", "1.0")

			convey.Convey("Then the reading is ignored rather than rejected", func() {
				convey.So(err, convey.ShouldBeNil)
				var res model.ScoreResult
				convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
				convey.So(res.Adjustment.Ignored, convey.ShouldContain, "wind")
			})
		})

		convey.Convey("When the config file is missing", func() {
			_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "categories")

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "load config")
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the HTTP handler built for serve", t, func() {
		convey.So(logger.Init(logger.WithWriter(&bytes.Buffer{})), convey.ShouldBeNil)
		ctx := context.Background()
		svc := service.New()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		h := newHandler(ctx, svc, config.New(ctx), logger.Get())

		convey.Convey("When calling the API and the docs", func() {
			score := httptest.NewRecorder()
			h.ServeHTTP(score, httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(`{"event":"Marathon","performance":"2:10:00"}`)))
			docs := httptest.NewRecorder()
			h.ServeHTTP(docs, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))

			convey.Convey("Then both are served from one router", func() {
				convey.So(score.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(score.Body.String(), convey.ShouldContainSubstring, `"points":1032`)
				convey.So(docs.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}
