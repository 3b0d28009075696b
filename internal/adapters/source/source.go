// Package source loads company rows from a CSV or XLSX file, either on disk
// or behind a single HTTP GET.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/climatedash/internal/domain/csvdata"
	"github.com/okian/climatedash/pkg/logger"
)

// Format is the encoding of a source body.
type Format string

// Known formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Source yields the raw records of one data set.
type Source interface {
	Load(ctx context.Context) ([]csvdata.Record, error)
	Location() string
}

// DetectFormat infers the format from the location's extension.
func DetectFormat(location string) Format {
	p := location
	if u, err := url.Parse(location); err == nil && u.Scheme != "" {
		p = u.Path
	}
	if strings.EqualFold(path.Ext(p), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// Open returns the source for location: http(s) URLs are fetched, anything
// else is read from disk.
func Open(location string, opts ...Option) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrUnsupported)
	}
	u, err := url.Parse(location)
	if err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return NewHTTP(location, opts...), nil
		case "file":
			return NewFile(u.Path, opts...), nil
		default:
			return nil, fmt.Errorf("%w: scheme %q", ErrUnsupported, u.Scheme)
		}
	}
	return NewFile(location, opts...), nil
}

// Decode turns a body into records. XLSX bodies read the configured sheet.
func Decode(body []byte, format Format, sheet string) ([]csvdata.Record, error) {
	switch format {
	case FormatXLSX:
		return decodeXLSX(body, sheet)
	case FormatCSV, "":
		return csvdata.Parse(string(bytes.TrimPrefix(body, []byte("\ufeff")))), nil
	}
	return nil, fmt.Errorf("%w: format %q", ErrUnsupported, format)
}

func decodeXLSX(body []byte, sheet string) ([]csvdata.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, nil
		}
		sheet = list[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return csvdata.FromRows(rows), nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return body, nil
}

// File reads a data set from disk.
type File struct {
	path string
	s    settings
}

// NewFile creates a file source.
func NewFile(p string, opts ...Option) *File {
	s := defaults()
	for _, opt := range opts {
		opt(&s)
	}
	return &File{path: p, s: s}
}

// Location returns the file path.
func (f *File) Location() string { return f.path }

// Load reads and decodes the file.
func (f *File) Load(ctx context.Context) ([]csvdata.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer fh.Close()

	body, err := readLimited(fh, f.s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	recs, err := Decode(body, DetectFormat(f.path), f.s.sheet)
	if err != nil {
		return nil, err
	}
	f.s.logger.Debug(ctx, "source read", logger.String("path", f.path), logger.Int("records", len(recs)))
	return recs, nil
}

// HTTP fetches a data set with one GET and no retries.
type HTTP struct {
	url string
	s   settings
}

// NewHTTP creates a remote source.
func NewHTTP(u string, opts ...Option) *HTTP {
	s := defaults()
	for _, opt := range opts {
		opt(&s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	return &HTTP{url: u, s: s}
}

// Location returns the URL.
func (h *HTTP) Location() string { return h.url }

// Load fetches and decodes the body. Non-2xx responses fail.
func (h *HTTP) Load(ctx context.Context) ([]csvdata.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, h.s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "text/csv, "+xlsxContentType+", */*")

	start := time.Now()
	resp, err := h.s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetch, h.url, resp.StatusCode)
	}
	body, err := readLimited(resp.Body, h.s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", h.url, err)
	}

	format := DetectFormat(h.url)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), xlsxContentType) {
		format = FormatXLSX
	}
	recs, err := Decode(body, format, h.s.sheet)
	if err != nil {
		return nil, err
	}
	h.s.logger.Debug(ctx, "source fetched",
		logger.String("url", h.url),
		logger.Int("records", len(recs)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return recs, nil
}
