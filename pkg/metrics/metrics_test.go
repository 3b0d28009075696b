package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func familyNames(t *testing.T, g prometheus.Gatherer) map[string]bool {
	t.Helper()
	mfs, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	out := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = true
	}
	return out
}

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})

		Convey("When invalid values are supplied", func() {
			m := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults are kept", func() {
				So(m.namespace, ShouldEqual, "climatedash")
				So(m.subsystem, ShouldEqual, "dashboard")
				So(m.histogramBuckets, ShouldNotBeEmpty)
				So(m.customLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithNamespace("test"),
			WithSubsystem("unit"),
			WithCustomLabels(map[string]string{"env": "test"}),
			WithPrometheusRegistry(registry),
		)
		m.companiesLoaded.Set(3)
		m.missingTargets.WithLabelValues("coal-trend-chart").Inc()
		m.renderDuration.WithLabelValues("page").Observe(12)

		Convey("Then metrics are registered under the configured names", func() {
			names := familyNames(t, registry)
			So(names["test_unit_companies_loaded"], ShouldBeTrue)
			So(names["test_unit_missing_targets_total"], ShouldBeTrue)
			So(names["test_unit_render_duration_milliseconds"], ShouldBeTrue)
		})

		Convey("Then constant labels are attached", func() {
			mfs, err := registry.Gather()
			So(err, ShouldBeNil)
			for _, mf := range mfs {
				if mf.GetName() != "test_unit_companies_loaded" {
					continue
				}
				metric := mf.GetMetric()[0]
				So(metric.GetGauge().GetValue(), ShouldEqual, 3)
				So(metric.GetLabel()[0].GetName(), ShouldEqual, "env")
				So(metric.GetLabel()[0].GetValue(), ShouldEqual, "test")
			}
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording dataset metrics", func() {
			So(func() {
				UpdateCompaniesLoaded(12)
				RecordLoad("ok", 35)
				RecordLoad("error", 2)
				RecordSelection()
			}, ShouldNotPanic)
		})

		Convey("When recording render metrics", func() {
			So(func() {
				RecordRender("page", 4.2)
				RecordRender("chart", 0.8)
				RecordChartRendered("emissions-trend-chart")
				RecordMissingTarget("re-share-pie")
				RecordPathwaySkipped("no_baseline")
				RecordExport("csv")
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("/dashboard", "GET", "200")
				RecordHTTPRequestDuration("/dashboard", "GET", "200", 5.0)
				RecordErrorByComponent("source", "fetch")
				RecordErrorByEndpoint("/export", "GET", "no_company")
			}, ShouldNotPanic)
		})

		Convey("Then the global registry exposes them", func() {
			RecordMissingTarget("coal-trend-chart")
			names := familyNames(t, GetRegistry())
			So(names["climatedash_dashboard_missing_targets_total"], ShouldBeTrue)
			So(names["climatedash_dashboard_companies_loaded"], ShouldBeTrue)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordRender("chart", float64(j))
					RecordHTTPRequest("/charts", "GET", "200")
					UpdateCompaniesLoaded(j)
				}
			}()
		}
		wg.Wait()

		Convey("Then no recorder panics", func() {
			So(true, ShouldBeTrue)
		})
	})
}
