package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with empty or nil option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should hold and creation should succeed", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording capture metrics", func() {
			So(func() {
				RecordFrameScanned()
				RecordFrameDuplicate()
				RecordFrameLatency(120.0)
				RecordFrameLatency(0.0)
			}, ShouldNotPanic)
		})

		Convey("When recording recognition metrics", func() {
			So(func() {
				RecordDetections(12)
				RecordRowsSegmented(7)
				RecordOCRLatency(45.0)
				RecordObservationValid()
				RecordObservationRejected()
			}, ShouldNotPanic)
		})

		Convey("When recording reconciliation metrics", func() {
			So(func() {
				RecordMerge("exact_name")
				RecordMerge("same_read_rank")
				RecordEntityCreated()
				RecordRankMismatch()
			}, ShouldNotPanic)
		})

		Convey("When recording roster metrics", func() {
			So(func() {
				UpdateRosterSize("power", 100)
				UpdateRosterSize("kills", 0)
				RecordStoreLatency(3.0)
				RecordExport("csv")
				RecordExport("html")
			}, ShouldNotPanic)
		})

		Convey("When recording operational metrics", func() {
			So(func() {
				UpdateWorkerCount(8)
				UpdateWorkerCount(0)
				RecordErrorByComponent("scan", "frame_error")
				RecordErrorByComponent("", "")
				RecordRunDuration(3500.0)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recording", t, func() {
		done := make(chan bool, 10)

		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					RecordFrameScanned()
					RecordOCRLatency(float64(j))
					RecordMerge("exact_name")
					UpdateRosterSize("power", j)
				}
				done <- true
			}()
		}

		for i := 0; i < 10; i++ {
			<-done
		}

		Convey("Then it should handle concurrent access without panics", func() {
			So(true, ShouldBeTrue)
		})
	})
}
