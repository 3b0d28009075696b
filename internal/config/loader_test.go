package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/climatedash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		// keep a stray .env in the package directory out of the way
		_ = os.Setenv(config.EnvDotFile, filepath.Join(t.TempDir(), "absent.env"))
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.AxisPolicy, convey.ShouldEqual, "zero")
				convey.So(cfg.FetchTimeout, convey.ShouldEqual, 30*time.Second)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CLIMATEDASH_ADDR", ":8080")
			_ = os.Setenv("CLIMATEDASH_AXIS_POLICY", "auto")
			_ = os.Setenv("CLIMATEDASH_FETCH_TIMEOUT", "5s")
			_ = os.Setenv("CLIMATEDASH_PATHWAY_YEARS", "2019,2030,2050")
			_ = os.Setenv("CLIMATEDASH_PATHWAY_TARGETS", "100, 50 ,0")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.AxisPolicy, convey.ShouldEqual, "auto")
				convey.So(cfg.FetchTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.PathwayYears, convey.ShouldResemble, []int{2019, 2030, 2050})
				convey.So(cfg.PathwayTargets, convey.ShouldResemble, []float64{100, 50, 0})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
data_source: "https://example.com/companies.csv"
trend_chart_width: 480
default_company: 2
`)
			_ = os.Setenv(config.EnvConfig, tmpFile)
			_ = os.Setenv("CLIMATEDASH_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataSource, convey.ShouldEqual, "https://example.com/companies.csv")
				convey.So(cfg.TrendChartWidth, convey.ShouldEqual, 480)
				convey.So(cfg.TrendChartHeight, convey.ShouldEqual, 200)
				convey.So(cfg.DefaultCompany, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When a .env file is present", func() {
			dotenv := filepath.Join(t.TempDir(), "test.env")
			convey.So(os.WriteFile(dotenv, []byte("CLIMATEDASH_LOCALE=en-US\nCLIMATEDASH_ADDR=:7000\n"), 0o600), convey.ShouldBeNil)
			_ = os.Setenv(config.EnvDotFile, dotenv)
			_ = os.Setenv("CLIMATEDASH_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills the environment without overriding it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Locale, convey.ShouldEqual, "en-US")
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv(config.EnvConfig, tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv(config.EnvConfig, "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CLIMATEDASH_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When pathway targets do not match the years", func() {
			_ = os.Setenv("CLIMATEDASH_PATHWAY_TARGETS", "100,0")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CLIMATEDASH_DEFAULT_COMPANY", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		config.EnvConfig,
		config.EnvDotFile,
		"CLIMATEDASH_ADDR",
		"CLIMATEDASH_AXIS_POLICY",
		"CLIMATEDASH_FETCH_TIMEOUT",
		"CLIMATEDASH_PATHWAY_YEARS",
		"CLIMATEDASH_PATHWAY_TARGETS",
		"CLIMATEDASH_LOCALE",
		"CLIMATEDASH_DEFAULT_COMPANY",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "climatedash.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}
