package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "公司,2024年度總碳排放量\n台灣電力,18753412\n中鋼,\"1,234\"\n"

func workbook(t *testing.T, sheet string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
	}
	_ = f.SetCellValue(sheet, "A1", "公司")
	_ = f.SetCellValue(sheet, "B1", "碳強度")
	_ = f.SetCellValue(sheet, "A2", "台灣電力")
	_ = f.SetCellValue(sheet, "B2", 7.9)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	Convey("Given locations", t, func() {
		So(DetectFormat("data/companies.csv"), ShouldEqual, FormatCSV)
		So(DetectFormat("data/companies.XLSX"), ShouldEqual, FormatXLSX)
		So(DetectFormat("https://example.com/a.xlsx?v=2"), ShouldEqual, FormatXLSX)
		So(DetectFormat("https://example.com/export"), ShouldEqual, FormatCSV)
	})
}

func TestOpen(t *testing.T) {
	Convey("Given locations to open", t, func() {
		Convey("Then http URLs become remote sources", func() {
			s, err := Open("https://example.com/data.csv")
			So(err, ShouldBeNil)
			_, ok := s.(*HTTP)
			So(ok, ShouldBeTrue)
		})

		Convey("Then paths become file sources", func() {
			s, err := Open(" ./data.csv ")
			So(err, ShouldBeNil)
			So(s.Location(), ShouldEqual, "./data.csv")
			_, ok := s.(*File)
			So(ok, ShouldBeTrue)
		})

		Convey("Then unknown schemes and empty locations fail", func() {
			_, err := Open("ftp://example.com/data.csv")
			So(errors.Is(err, ErrUnsupported), ShouldBeTrue)
			_, err = Open("  ")
			So(errors.Is(err, ErrUnsupported), ShouldBeTrue)
		})
	})
}

func TestFileSource(t *testing.T) {
	Convey("Given files on disk", t, func() {
		dir := t.TempDir()
		ctx := context.Background()

		Convey("When a CSV file with a byte order mark is loaded", func() {
			p := filepath.Join(dir, "data.csv")
			So(os.WriteFile(p, []byte("\ufeff"+sampleCSV), 0o600), ShouldBeNil)
			recs, err := NewFile(p).Load(ctx)

			Convey("Then every row becomes a record", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 2)
				So(recs[0].Get("公司"), ShouldEqual, "台灣電力")
				So(recs[1].Get("2024年度總碳排放量"), ShouldEqual, "1,234")
			})
		})

		Convey("When an XLSX file is loaded", func() {
			p := filepath.Join(dir, "data.xlsx")
			So(os.WriteFile(p, workbook(t, "Sheet1"), 0o600), ShouldBeNil)
			recs, err := NewFile(p).Load(ctx)

			Convey("Then the first sheet is read", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 1)
				So(recs[0].Get("碳強度"), ShouldEqual, "7.9")
			})
		})

		Convey("When a named sheet is missing", func() {
			p := filepath.Join(dir, "data.xlsx")
			So(os.WriteFile(p, workbook(t, "Sheet1"), 0o600), ShouldBeNil)
			_, err := NewFile(p, WithSheet("2024")).Load(ctx)

			Convey("Then loading fails", func() {
				So(errors.Is(err, ErrSheetNotFound), ShouldBeTrue)
			})
		})

		Convey("When the file is larger than the limit", func() {
			p := filepath.Join(dir, "data.csv")
			So(os.WriteFile(p, []byte(sampleCSV), 0o600), ShouldBeNil)
			_, err := NewFile(p, WithMaxBytes(8)).Load(ctx)

			Convey("Then loading fails", func() {
				So(errors.Is(err, ErrTooLarge), ShouldBeTrue)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := NewFile(filepath.Join(dir, "missing.csv")).Load(ctx)

			Convey("Then a fetch error is returned", func() {
				So(errors.Is(err, ErrFetch), ShouldBeTrue)
			})
		})
	})
}

func TestHTTPSource(t *testing.T) {
	Convey("Given a remote data server", t, func() {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			switch r.URL.Path {
			case "/data.csv":
				w.Header().Set("Content-Type", "text/csv")
				_, _ = w.Write([]byte(sampleCSV))
			case "/workbook":
				w.Header().Set("Content-Type", xlsxContentType)
				_, _ = w.Write(workbook(t, "資料"))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()
		ctx := context.Background()

		Convey("When a CSV is fetched", func() {
			recs, err := NewHTTP(srv.URL + "/data.csv").Load(ctx)

			Convey("Then its rows are parsed", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 2)
			})
		})

		Convey("When a workbook is served by content type", func() {
			recs, err := NewHTTP(srv.URL+"/workbook", WithSheet("資料")).Load(ctx)

			Convey("Then the sheet is decoded", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 1)
				So(recs[0].Get("公司"), ShouldEqual, "台灣電力")
			})
		})

		Convey("When the server answers with an error status", func() {
			_, err := NewHTTP(srv.URL + "/missing.csv").Load(ctx)

			Convey("Then the fetch fails once without retries", func() {
				So(errors.Is(err, ErrFetch), ShouldBeTrue)
				So(hits.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := NewHTTP(srv.URL + "/data.csv").Load(cctx)

			Convey("Then the fetch fails", func() {
				So(errors.Is(err, ErrFetch), ShouldBeTrue)
			})
		})
	})
}
