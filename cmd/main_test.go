package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/climatedash/internal/config"
	"github.com/okian/climatedash/pkg/logger"
	"github.com/okian/climatedash/pkg/metrics"
)

const sampleCSV = "公司,基準年,備註\n" +
	"台灣電力,2019,\"第一, 家\"\n" +
	"中華鋼鐵,2020,第二家\n"

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

// isolate points config loading at a scratch directory.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv(config.EnvDotFile, filepath.Join(dir, "missing.env"))
	t.Setenv(config.EnvConfig, "")
	path := filepath.Join(dir, "companies.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCommands(t *testing.T) {
	convey.Convey("Given a CSV data source", t, func() {
		path := isolate(t)

		convey.Convey("companies should list names in source order", func() {
			out, _, err := execute("companies", "--source", path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "0\t台灣電力\n1\t中華鋼鐵\n")
		})

		convey.Convey("companies --json should print summaries", func() {
			out, _, err := execute("companies", "--source", path, "--json")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"name": "中華鋼鐵"`)
		})

		convey.Convey("export should write the selected company's record", func() {
			out, _, err := execute("export", "--source", path, "--company", "1", "--format", "csv")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "\"公司\",\"基準年\",\"備註\"\n\"中華鋼鐵\",\"2020\",\"第二家\"\n")
		})

		convey.Convey("export by name should write JSON to a file", func() {
			target := filepath.Join(t.TempDir(), "out.json")
			_, _, err := execute("export", "--source", path, "--name", "台灣電力", "-o", target)
			convey.So(err, convey.ShouldBeNil)
			data, err := os.ReadFile(target)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldContainSubstring, `"備註": "第一, 家"`)
		})

		convey.Convey("an unknown export format should fail", func() {
			_, _, err := execute("export", "--source", path, "--format", "pdf")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("an out of range company should fail", func() {
			_, _, err := execute("render", "--source", path, "--company", "7")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("render should bind the company into the page", func() {
			out, errOut, err := execute("render", "--source", path, "--company", "1")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "中華鋼鐵")
			convey.So(out, convey.ShouldStartWith, "<!DOCTYPE html>")
			convey.So(errOut, convey.ShouldContainSubstring, "companies loaded")
		})

		convey.Convey("render --chart should reject unknown ids", func() {
			_, _, err := execute("render", "--source", path, "--chart", "nope")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given an unsupported source", t, func() {
		isolate(t)
		_, _, err := execute("companies", "--source", "ftp://example.com/data.csv")
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestLoadConfig(t *testing.T) {
	convey.Convey("Given command line overrides", t, func() {
		isolate(t)
		t.Setenv(config.EnvPrefix+"ADDR", ":8088")

		cfg, err := loadConfig(context.Background(), &flags{source: "x.csv", logLevel: "debug"})
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8088")
		convey.So(cfg.DataSource, convey.ShouldEqual, "x.csv")
		convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
		_ = logger.SetLevelString("info")
	})

	convey.Convey("Given an invalid axis policy", t, func() {
		isolate(t)
		t.Setenv(config.EnvPrefix+"AXIS_POLICY", "sideways")

		cfg, err := loadConfig(context.Background(), &flags{})
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(cfg, convey.ShouldBeNil)
	})
}

func TestMux(t *testing.T) {
	convey.Convey("Given a started service behind the mux", t, func() {
		path := isolate(t)
		cfg, err := loadConfig(context.Background(), &flags{source: path})
		convey.So(err, convey.ShouldBeNil)

		svc, err := newService(cfg, logger.Discard())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(context.Background(), svc, logger.Discard())
		get := func(target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
			return w
		}

		convey.Convey("root should redirect to the dashboard", func() {
			w := get("/")
			convey.So(w.Code, convey.ShouldEqual, http.StatusFound)
			convey.So(w.Header().Get("Location"), convey.ShouldEqual, "/dashboard")
		})

		convey.Convey("dashboard, docs and assets should be served", func() {
			convey.So(get("/dashboard?company=1").Body.String(), convey.ShouldContainSubstring, "中華鋼鐵")
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/assets/dashboard.js").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/companies").Body.String(), convey.ShouldContainSubstring, "台灣電力")
		})

		convey.Convey("healthz should include runtime collectors", func() {
			registerRuntimeCollectors(metrics.GetRegistry())
			registerRuntimeCollectors(metrics.GetRegistry())
			body := get("/healthz").Body.String()
			convey.So(strings.Contains(body, "go_goroutines"), convey.ShouldBeTrue)
		})
	})
}

func TestServiceMetricsUpdater(t *testing.T) {
	convey.Convey("Given a cancelled context", t, func() {
		isolate(t)
		cfg, err := loadConfig(context.Background(), &flags{})
		convey.So(err, convey.ShouldBeNil)
		svc, err := newService(cfg, logger.Discard())
		convey.So(err, convey.ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
	})
}
