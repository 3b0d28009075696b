package model_test

import (
	"testing"

	"github.com/okian/climatedash/internal/domain/chart"
	"github.com/okian/climatedash/internal/domain/csvdata"
	"github.com/okian/climatedash/internal/domain/formatter"
	model "github.com/okian/climatedash/internal/domain/model"
	"github.com/okian/climatedash/internal/domain/schema"
	"github.com/smartystreets/goconvey/convey"
)

func record(pairs ...string) model.RawRecord {
	var headers, values []string
	for i := 0; i+1 < len(pairs); i += 2 {
		headers = append(headers, pairs[i])
		values = append(values, pairs[i+1])
	}
	return csvdata.NewRecord(headers, values)
}

func TestCompany(t *testing.T) {
	convey.Convey("Given a company row", t, func() {
		raw := record(
			"公司", "台灣電力",
			"是否承諾淨零排放或碳中和", "納入策略",
			"預計達成淨零排放／碳中和年份", "2050",
			"中期溫室氣體絕對減量目標值（百分比）", "84.87",
			"範疇三（值）", "",
			"2022年度總碳排放量", "19630736",
			"2023年度總碳排放量", "n/a",
			"2024年度總碳排放量", "18753412",
			"關鍵減量策略說明", "**擴大**再生能源",
			"不在表中", "ignored",
		)
		c := model.New(raw)

		convey.Convey("Then the name comes from the company column", func() {
			convey.So(c.Name(), convey.ShouldEqual, "台灣電力")
			convey.So(c.Raw().Get("不在表中"), convey.ShouldEqual, "ignored")
		})

		convey.Convey("Then populated values are formatted per entry", func() {
			m := c.GetMetric("midterm-reduction-percent")
			convey.So(m, convey.ShouldNotBeNil)
			convey.So(m.Value, convey.ShouldEqual, "84.87")
			convey.So(m.Formatted, convey.ShouldEqual, "84.9%")
			convey.So(m.Schema.Section, convey.ShouldEqual, schema.SectionCommitments)

			y := c.GetMetric("net-zero-year")
			convey.So(y.Formatted, convey.ShouldEqual, "2050")
		})

		convey.Convey("Then empty and unknown values are never stored", func() {
			convey.So(c.GetMetric("scope3-emissions"), convey.ShouldBeNil)
			convey.So(c.GetMetric("nothing-here"), convey.ShouldBeNil)
			convey.So(c.GetSection(schema.SectionEmissions), convey.ShouldBeEmpty)
			convey.So(c.GetSection(schema.SectionEmissions), convey.ShouldNotBeNil)
		})

		convey.Convey("Then sections list only populated ones in page order", func() {
			convey.So(c.Sections(), convey.ShouldResemble, []schema.Section{
				schema.SectionCommitments, schema.SectionPerformance, schema.SectionStrategy,
			})
			sec := c.GetSection(schema.SectionCommitments)
			convey.So(len(sec), convey.ShouldEqual, 3)
			convey.So(sec["net-zero-status"].Value, convey.ShouldEqual, "納入策略")

			ordered := c.SectionMetrics(schema.SectionCommitments)
			convey.So(ordered[0].Key, convey.ShouldEqual, "net-zero-status")
			convey.So(ordered[2].Key, convey.ShouldEqual, "midterm-reduction-percent")
		})

		convey.Convey("Then chart points are stored per year and reassembled", func() {
			p := c.GetMetric("emissions-trend@2022")
			convey.So(p, convey.ShouldNotBeNil)
			convey.So(p.Formatted, convey.ShouldEqual, "19.6M")

			s := c.Series("emissions-trend")
			convey.So(s, convey.ShouldResemble, chart.Series{
				{Label: "2022", Value: 19630736},
				{Label: "2024", Value: 18753412},
			})
			convey.So(c.Series("coal-trend"), convey.ShouldBeEmpty)
			convey.So(c.Unit("emissions-trend"), convey.ShouldEqual, "公噸CO2e")
		})

		convey.Convey("Then numeric lookups parse the raw value", func() {
			v, ok := c.Float("midterm-reduction-percent")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldAlmostEqual, 84.87, 1e-9)
			_, ok = c.Float("net-zero-status")
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = c.Float("missing")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then returned metrics are copies", func() {
			m := c.GetMetric("net-zero-year")
			m.Value = "1999"
			convey.So(c.GetMetric("net-zero-year").Value, convey.ShouldEqual, "2050")
		})
	})

	convey.Convey("Given a row without a name", t, func() {
		c := model.New(record("是否取得RE100認證", "已加入"))
		convey.So(c.Name(), convey.ShouldEqual, model.UnknownCompany)
		convey.So(c.GetMetric("re100-commitment").Schema.OptionIndex("已加入"), convey.ShouldEqual, 1)
	})

	convey.Convey("Given custom options", t, func() {
		tbl, err := schema.New([]schema.Entry{{
			Column: "price", Section: schema.SectionPerformance,
			Component: schema.ComponentValueDisplay, Metric: "carbon-price", Format: formatter.KindCurrency,
		}})
		convey.So(err, convey.ShouldBeNil)

		c := model.New(
			record("Company", "Acme", "price", "12"),
			model.WithSchema(tbl),
			model.WithNameColumn("Company"),
			model.WithFormatter(formatter.New(formatter.WithLocale("en-US"), formatter.WithCurrency("USD"))),
		)
		convey.So(c.Name(), convey.ShouldEqual, "Acme")
		convey.So(c.Schema(), convey.ShouldPointTo, tbl)
		convey.So(c.GetMetric("carbon-price").Formatted, convey.ShouldContainSubstring, "12")
		convey.So(c.GetMetric("carbon-price").Formatted, convey.ShouldContainSubstring, "$")
	})
}
