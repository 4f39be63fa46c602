package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/chongus/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.PlayerName, convey.ShouldEqual, "Player")
			convey.So(cfg.CollectiblePrice, convey.ShouldEqual, 1000)
			convey.So(cfg.ExpeditionMaxTeamSize, convey.ShouldEqual, 3)
			convey.So(cfg.TickInterval(), convey.ShouldEqual, time.Second)
			convey.So(cfg.SnapshotPath, convey.ShouldBeEmpty)
			convey.So(cfg.SnapshotInterval(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "chongus")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "game")
			convey.So(cfg.MetricsBuckets, convey.ShouldBeEmpty)
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid field", t, func() {
		cases := map[string]func(c *config.Config){
			"empty addr":           func(c *config.Config) { c.Addr = "" },
			"zero queue":           func(c *config.Config) { c.QueueSize = 0 },
			"zero dedupe":          func(c *config.Config) { c.DedupeSize = 0 },
			"free collectibles":    func(c *config.Config) { c.CollectiblePrice = 0 },
			"empty teams":          func(c *config.Config) { c.ExpeditionMaxTeamSize = 0 },
			"zero tick":            func(c *config.Config) { c.TickIntervalMS = 0 },
			"zero limit":           func(c *config.Config) { c.MaxContributorsLimit = 0 },
			"zero rps":             func(c *config.Config) { c.RateLimitRPS = 0 },
			"zero burst":           func(c *config.Config) { c.RateLimitBurst = 0 },
			"no metrics namespace": func(c *config.Config) { c.MetricsNamespace = "" },
			"unsorted buckets":     func(c *config.Config) { c.MetricsBuckets = []float64{10, 1} },
			"snapshot no interval": func(c *config.Config) {
				c.SnapshotPath = "/tmp/x.db"
				c.SnapshotIntervalMS = 0
			},
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then "+name+" should be rejected as invalid", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
