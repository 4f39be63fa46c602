package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/chongus/internal/config"
	"github.com/okian/chongus/pkg/logger"
	"github.com/okian/chongus/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestBuildService(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		cfg := config.New()
		cfg.RandomSeed = 7

		convey.Convey("When the service is built without snapshots", func() {
			svc, closeStore, err := buildService(cfg)
			convey.So(err, convey.ShouldBeNil)
			defer closeStore()

			convey.Convey("Then the engine carries the configured limits", func() {
				stats := svc.GetStats()
				convey.So(stats["collectiblePrice"], convey.ShouldEqual, 1000.0)
				convey.So(stats["maxTeamSize"], convey.ShouldEqual, 3)
				convey.So(stats["snapshots"], convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a snapshot path is configured", func() {
			cfg.SnapshotPath = filepath.Join(t.TempDir(), "state.db")
			svc, closeStore, err := buildService(cfg)
			convey.So(err, convey.ShouldBeNil)
			defer closeStore()

			convey.Convey("Then snapshots are enabled", func() {
				convey.So(svc.GetStats()["snapshots"], convey.ShouldBeTrue)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a running service behind the full mux", t, func() {
		ctx := context.Background()
		cfg := config.New()
		svc, closeStore, err := buildService(cfg)
		convey.So(err, convey.ShouldBeNil)
		defer closeStore()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, cfg, svc)

		convey.Convey("Then every route answers", func() {
			for _, path := range []string{"/state", "/stats", "/healthz", "/community/contributors", "/openapi.yaml", "/api-docs"} {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then actions reach the service", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/actions", strings.NewReader(`{"type":"contribute","amount":5}`)))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

			var body map[string]any
			convey.So(json.Unmarshal(rec.Body.Bytes(), &body), convey.ShouldBeNil)
			convey.So(body["status"], convey.ShouldEqual, "rejected")
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a config on a free port", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.TickIntervalMS = 10

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.Convey("Then run shuts down cleanly", func() {
				convey.So(run(ctx, cfg), convey.ShouldBeNil)
			})
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop returns when ctx is done", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}

func TestConfigureMetrics(t *testing.T) {
	convey.Convey("Given a config with its own metric names", t, func() {
		convey.Reset(func() { configureMetrics(config.New()) })
		cfg := config.New()
		cfg.MetricsNamespace = "arcade"
		cfg.MetricsSubsystem = "idle"

		configureMetrics(cfg)
		families, err := metrics.GetRegistry().Gather()
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the exported gauges use them", func() {
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			convey.So(names, convey.ShouldContain, "arcade_idle_queue_capacity")
			convey.So(names, convey.ShouldNotContain, "chongus_game_queue_capacity")
		})
	})
}
