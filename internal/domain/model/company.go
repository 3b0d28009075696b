// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"strings"

	"github.com/okian/climatedash/internal/domain/chart"
	"github.com/okian/climatedash/internal/domain/csvdata"
	"github.com/okian/climatedash/internal/domain/formatter"
	"github.com/okian/climatedash/internal/domain/schema"
)

// RawRecord is one parsed company row.
type RawRecord = csvdata.Record

// Name column defaults.
const (
	DefaultNameColumn = "公司"
	UnknownCompany    = "Unknown Company"
)

// Metric is one populated schema entry of a company.
type Metric struct {
	Key       string       `json:"key"`
	Value     string       `json:"value"`
	Formatted string       `json:"formatted"`
	Schema    schema.Entry `json:"schema"`
}

// Company groups a raw record into sections and metrics. It is immutable
// after New returns.
type Company struct {
	raw      RawRecord
	name     string
	table    *schema.Table
	sections map[schema.Section][]Metric
}

type settings struct {
	table      *schema.Table
	formatter  *formatter.Formatter
	nameColumn string
}

// Option configures company construction.
type Option func(*settings)

// WithSchema maps the record through a custom table.
func WithSchema(t *schema.Table) Option {
	return func(s *settings) {
		if t != nil {
			s.table = t
		}
	}
}

// WithFormatter formats values with a custom formatter.
func WithFormatter(f *formatter.Formatter) Option {
	return func(s *settings) {
		if f != nil {
			s.formatter = f
		}
	}
}

// WithNameColumn reads the display name from column.
func WithNameColumn(column string) Option {
	return func(s *settings) {
		if column != "" {
			s.nameColumn = column
		}
	}
}

// New derives a company from a raw record. Entries whose column is absent
// or empty are skipped.
func New(raw RawRecord, opts ...Option) *Company {
	s := settings{nameColumn: DefaultNameColumn}
	for _, opt := range opts {
		opt(&s)
	}
	if s.table == nil {
		s.table = schema.Default()
	}
	if s.formatter == nil {
		s.formatter = formatter.New()
	}

	c := &Company{
		raw:      raw,
		name:     strings.TrimSpace(raw.Get(s.nameColumn)),
		table:    s.table,
		sections: make(map[schema.Section][]Metric),
	}
	if c.name == "" {
		c.name = UnknownCompany
	}

	for _, e := range s.table.Entries() {
		v := strings.TrimSpace(raw.Get(e.Column))
		if v == "" {
			continue
		}
		c.sections[e.Section] = append(c.sections[e.Section], Metric{
			Key:       e.Key(),
			Value:     v,
			Formatted: s.formatter.Format(v, e.Format),
			Schema:    e,
		})
	}
	return c
}

// Name returns the display name.
func (c *Company) Name() string { return c.name }

// Raw returns the source record.
func (c *Company) Raw() RawRecord { return c.raw }

// Schema returns the table the company was built with.
func (c *Company) Schema() *schema.Table { return c.table }

// GetMetric returns the metric stored under key, or nil.
func (c *Company) GetMetric(key string) *Metric {
	for _, sec := range schema.AllSections {
		for _, m := range c.sections[sec] {
			if m.Key == key {
				found := m
				return &found
			}
		}
	}
	return nil
}

// GetSection returns the section's metrics keyed by metric key. The map is
// empty, never nil, when nothing in the section is populated.
func (c *Company) GetSection(name schema.Section) map[string]Metric {
	out := make(map[string]Metric, len(c.sections[name]))
	for _, m := range c.sections[name] {
		out[m.Key] = m
	}
	return out
}

// SectionMetrics returns the section's metrics in table order.
func (c *Company) SectionMetrics(name schema.Section) []Metric {
	out := make([]Metric, len(c.sections[name]))
	copy(out, c.sections[name])
	return out
}

// Sections returns the populated sections in page order.
func (c *Company) Sections() []schema.Section {
	var out []schema.Section
	for _, sec := range schema.AllSections {
		if len(c.sections[sec]) > 0 {
			out = append(out, sec)
		}
	}
	return out
}

// Series assembles the chart series of metric ordered by year. Points whose
// cell is missing or not numeric are left out.
func (c *Company) Series(metric string) chart.Series {
	var out chart.Series
	for _, e := range c.table.SeriesEntries(metric) {
		m := c.GetMetric(e.Key())
		if m == nil {
			continue
		}
		v, ok := formatter.ParseFloat(m.Value)
		if !ok {
			continue
		}
		out = append(out, chart.Point{Label: strconv.Itoa(e.Year), Value: v})
	}
	return out
}

// Unit returns the unit label declared for metric, if any.
func (c *Company) Unit(metric string) string {
	for _, e := range c.table.ByMetric(metric) {
		if e.Unit != "" {
			return e.Unit
		}
	}
	return ""
}

// Float returns the numeric value of a populated metric.
func (c *Company) Float(key string) (float64, bool) {
	m := c.GetMetric(key)
	if m == nil {
		return 0, false
	}
	return formatter.ParseFloat(m.Value)
}
