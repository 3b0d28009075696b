package config_test

import (
	"errors"
	"testing"

	"github.com/okian/climatedash/internal/config"
	"github.com/okian/climatedash/internal/domain/chart"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.AxisPolicy, convey.ShouldEqual, "zero")
			convey.So(cfg.Locale, convey.ShouldEqual, "zh-TW")
			convey.So(cfg.Currency, convey.ShouldEqual, "TWD")
			convey.So(cfg.CompanyColumn, convey.ShouldEqual, "公司")
			convey.So(cfg.TrendChartWidth, convey.ShouldEqual, 600)
			convey.So(cfg.TrendChartHeight, convey.ShouldEqual, 200)
			convey.So(cfg.PathwayWidth, convey.ShouldEqual, 800)
			convey.So(cfg.PathwayHeight, convey.ShouldEqual, 350)
			convey.So(cfg.BaselineYear, convey.ShouldEqual, 2019)
			convey.So(cfg.PathwayYears, convey.ShouldResemble, chart.DefaultPathwayYears)
			convey.So(cfg.PathwayTargets, convey.ShouldResemble, chart.DefaultPathwayTargets)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the defaults do not alias the chart package", func() {
			cfg.PathwayYears[0] = 1990
			convey.So(chart.DefaultPathwayYears[0], convey.ShouldEqual, 2019)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = "" },
			"unknown policy":     func(c *config.Config) { c.AxisPolicy = "log" },
			"zero trend width":   func(c *config.Config) { c.TrendChartWidth = 0 },
			"negative pathway":   func(c *config.Config) { c.PathwayHeight = -1 },
			"one pathway year":   func(c *config.Config) { c.PathwayYears = []int{2019}; c.PathwayTargets = []float64{100} },
			"target mismatch":    func(c *config.Config) { c.PathwayTargets = []float64{100, 50} },
			"negative selection": func(c *config.Config) { c.DefaultCompany = -1 },
		}
		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then "+name+" is rejected", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
