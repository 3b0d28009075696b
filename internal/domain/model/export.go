package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/climatedash/internal/domain/csvdata"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Export is a serialized raw record.
type Export struct {
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
	Body        string `json:"body"`
}

// Export serializes the raw record as indented JSON or as a header line and
// a value line of CSV. An empty format means JSON.
func (c *Company) Export(format string) (Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	out := Export{Format: format, Filename: c.Name() + "." + format}
	switch format {
	case FormatJSON:
		body, err := csvdata.ToJSON(c.raw)
		if err != nil {
			return Export{}, fmt.Errorf("export json: %w", err)
		}
		out.Body = body
		out.ContentType = "application/json; charset=utf-8"
	case FormatCSV:
		out.Body = csvdata.ToCSV(c.raw)
		out.ContentType = "text/csv; charset=utf-8"
	default:
		return Export{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return out, nil
}
