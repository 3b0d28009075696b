package model_test

import (
	"errors"
	"testing"

	"github.com/okian/climatedash/internal/domain/csvdata"
	model "github.com/okian/climatedash/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestCompanyExport(t *testing.T) {
	convey.Convey("Given a company", t, func() {
		c := model.New(record("公司", "中鋼", "碳強度", `1,234 "高"`))

		convey.Convey("When exported without a format", func() {
			out, err := c.Export("")

			convey.Convey("Then JSON is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Format, convey.ShouldEqual, model.FormatJSON)
				convey.So(out.Filename, convey.ShouldEqual, "中鋼.json")
				convey.So(out.Body, convey.ShouldStartWith, "{\n  \"公司\": \"中鋼\"")
			})
		})

		convey.Convey("When exported as CSV", func() {
			out, err := c.Export(" CSV ")

			convey.Convey("Then every field is quoted and parses back", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.ContentType, convey.ShouldStartWith, "text/csv")
				convey.So(out.Body, convey.ShouldEqual, "\"公司\",\"碳強度\"\n\"中鋼\",\"1,234 \"\"高\"\"\"")
				back := csvdata.Parse(out.Body)
				convey.So(back[0].Get("碳強度"), convey.ShouldEqual, `1,234 "高"`)
			})
		})

		convey.Convey("When exported in an unknown format", func() {
			_, err := c.Export("xml")

			convey.Convey("Then it fails", func() {
				convey.So(errors.Is(err, model.ErrUnsupportedFormat), convey.ShouldBeTrue)
			})
		})
	})
}
