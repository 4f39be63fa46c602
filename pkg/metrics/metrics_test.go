package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register its collectors there", func() {
				So(manager, ShouldNotBeNil)
				manager.actionsDuplicate.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("engine"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names should carry the namespace", func() {
				manager.currency.Set(42)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_engine_currency" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording action outcomes", func() {
			before := testutil.ToFloat64(globalManager.actionsApplied.WithLabelValues("tick"))
			RecordActionApplied("tick")
			RecordActionApplied("tick")
			RecordActionRejected("buy_upgrade")
			RecordActionDuplicate()
			RecordActionLatency(1.5)

			Convey("Then counters should advance", func() {
				So(testutil.ToFloat64(globalManager.actionsApplied.WithLabelValues("tick")), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.actionsRejected.WithLabelValues("buy_upgrade")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When updating state gauges", func() {
			UpdatePlayer(1000, 3)
			UpdateCollectionSize(4)
			UpdateExpeditionsActive(2)
			UpdateCommunityProgress(0.25)
			UpdateContributors(6)

			Convey("Then gauges should hold the latest value", func() {
				So(testutil.ToFloat64(globalManager.currency), ShouldEqual, 1000)
				So(testutil.ToFloat64(globalManager.productionRate), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.collectionSize), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.expeditionsActive), ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.communityProgress), ShouldEqual, 0.25)
				So(testutil.ToFloat64(globalManager.contributors), ShouldEqual, 6)
			})
		})

		Convey("When recording the remaining helpers", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					RecordCollectibleGenerated("legendary")
					RecordExpeditionCompleted()
					UpdateQueueSize(3)
					UpdateQueueCapacity(10)
					RecordQueueEnqueueError("queue_full")
					RecordTickDropped()
					RecordSnapshotSaved(2)
					RecordSnapshotError()
					RecordHTTPRequest("state", "GET", "200")
					RecordHTTPRequestDuration("state", "GET", "200", 1)
					RecordErrorByEndpoint("actions", "POST", "client_error")
					RecordErrorByComponent("worker", "apply")
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the custom registry", func() {
			RecordCollectibleGenerated("common")
			families, err := GetRegistry().Gather()

			Convey("Then only chongus metrics should be exposed", func() {
				So(err, ShouldBeNil)
				for _, f := range families {
					if f.GetName() == "go_build_info" {
						continue
					}
					So(strings.HasPrefix(f.GetName(), "chongus_game_"), ShouldBeTrue)
				}
			})
		})
	})
}

func TestGlobalRegistry(t *testing.T) {
	Convey("Given the process-wide registry", t, func() {
		families, err := GetRegistry().Gather()
		So(err, ShouldBeNil)

		names := make([]string, 0, len(families))
		for _, f := range families {
			names = append(names, f.GetName())
		}

		Convey("Then build info is exported", func() {
			So(names, ShouldContain, "go_build_info")
		})

		Convey("Then the default Go runtime collectors are not", func() {
			So(names, ShouldNotContain, "go_goroutines")
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the process-wide manager is rebuilt with options", t, func() {
		Reset(func() { Configure() })
		Configure(
			WithNamespace("arcade"),
			WithSubsystem("idle"),
			WithHistogramBuckets([]float64{1, 10}),
		)

		RecordActionLatency(5)
		families, err := GetRegistry().Gather()
		So(err, ShouldBeNil)

		Convey("Then collectors carry the configured names and buckets", func() {
			var latency *dto.MetricFamily
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
				if f.GetName() == "arcade_idle_action_latency_milliseconds" {
					latency = f
				}
			}
			So(names, ShouldContain, "go_build_info")
			So(names, ShouldNotContain, "chongus_game_action_latency_milliseconds")
			So(latency, ShouldNotBeNil)
			So(latency.GetMetric()[0].GetHistogram().GetBucket(), ShouldHaveLength, 2)
		})
	})
}
