package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			registryOpt := WithRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with namespace and subsystem", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("arena"),
				WithSubsystem("test"),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording contest metrics", func() {
			So(func() {
				RecordContestCreated()
				RecordContestFinalized()
				RecordWinnersSelected(3)
			}, ShouldNotPanic)
		})

		Convey("When recording signal metrics", func() {
			So(func() {
				RecordSignalAccepted()
				RecordSignalRejected("window")
				RecordSignalRejected("unauthorized")
			}, ShouldNotPanic)
		})

		Convey("When recording prize and leaderboard metrics", func() {
			So(func() {
				RecordPrizeRecorded()
				RecordLeaderboardQuery()
				UpdateActiveContests(2)
				UpdateTrackedEntries(10)
			}, ShouldNotPanic)
		})

		Convey("When recording sweep metrics", func() {
			So(func() {
				RecordSweepRun()
				RecordSweepFinalized()
				RecordSweepError()
			}, ShouldNotPanic)
		})

		Convey("When recording store metrics", func() {
			So(func() {
				RecordStoreOp("get")
				RecordStoreOp("set")
				RecordStoreOpLatency(1.5)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("contests", "GET", "200")
				RecordHTTPRequestDuration("contests", "GET", "200", 12.5)
			}, ShouldNotPanic)
		})

		Convey("When updating system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(42)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		registry := GetRegistry()

		Convey("Then it is non-nil and gatherable", func() {
			So(registry, ShouldNotBeNil)
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
