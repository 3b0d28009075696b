// Package schema holds the declarative column -> widget mapping table.
//
// The table is data, not code: adding a metric means adding a row to
// schema.yaml (or to a custom table loaded with Load), never touching the
// renderer.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/okian/climatedash/internal/domain/formatter"
	"gopkg.in/yaml.v2"
)

//go:embed schema.yaml
var defaultTable []byte

// Section identifies a dashboard section container.
type Section string

// Known sections in page order.
const (
	SectionCommitments Section = "commitments"
	SectionEmissions   Section = "emissions"
	SectionEnergy      Section = "energy"
	SectionPerformance Section = "performance"
	SectionStrategy    Section = "strategy"
)

// AllSections lists sections in page order.
var AllSections = []Section{
	SectionCommitments,
	SectionEmissions,
	SectionEnergy,
	SectionPerformance,
	SectionStrategy,
}

// Component identifies the widget kind a column feeds.
type Component string

// Known components.
const (
	ComponentNodeTracker     Component = "node-tracker"
	ComponentValueDisplay    Component = "value-display"
	ComponentMultiValue      Component = "multi-value"
	ComponentChart           Component = "chart"
	ComponentTextDescription Component = "text-description"
)

// Entry describes how one column is shown.
type Entry struct {
	Column    string         `yaml:"column" json:"column"`
	Section   Section        `yaml:"section" json:"section"`
	Component Component      `yaml:"component" json:"component"`
	Metric    string         `yaml:"metric" json:"metric"`
	Format    formatter.Kind `yaml:"format,omitempty" json:"format,omitempty"`
	Options   []string       `yaml:"options,omitempty" json:"options,omitempty"`
	Unit      string         `yaml:"unit,omitempty" json:"unit,omitempty"`
	Year      int            `yaml:"year,omitempty" json:"year,omitempty"`
}

// IsSeries reports whether the entry is one point of a chart series.
func (e Entry) IsSeries() bool { return e.Component == ComponentChart }

// Key returns the key the entry is stored under in a company record.
// Chart points carry their year so every stored metric maps to one entry.
func (e Entry) Key() string {
	if e.IsSeries() {
		return fmt.Sprintf("%s@%d", e.Metric, e.Year)
	}
	return e.Metric
}

// OptionIndex returns the position of v in the option list or -1.
func (e Entry) OptionIndex(v string) int {
	for i, o := range e.Options {
		if o == v {
			return i
		}
	}
	return -1
}

// Table is an immutable, validated set of entries.
type Table struct {
	entries  []Entry
	byColumn map[string]int
	byMetric map[string][]int
}

type document struct {
	Columns []Entry `yaml:"columns"`
}

var (
	defaultOnce sync.Once
	defaultTbl  *Table
)

// Default returns the embedded table. It is parsed once; an invalid
// embedded table is a programming error and panics.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultTable)
		if err != nil {
			panic(fmt.Sprintf("embedded schema: %v", err))
		}
		defaultTbl = t
	})
	return defaultTbl
}

// Load reads and validates a table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML table.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return New(doc.Columns)
}

// New validates entries and builds a table preserving their order.
func New(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}

	t := &Table{
		entries:  make([]Entry, len(entries)),
		byColumn: make(map[string]int, len(entries)),
		byMetric: make(map[string][]int),
	}
	copy(t.entries, entries)

	for i, e := range t.entries {
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("%w: column %q: %v", ErrInvalidSchema, e.Column, err)
		}
		if _, dup := t.byColumn[e.Column]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidSchema, e.Column)
		}
		for _, j := range t.byMetric[e.Metric] {
			prev := t.entries[j]
			if !e.IsSeries() || !prev.IsSeries() {
				return nil, fmt.Errorf("%w: duplicate metric %q", ErrInvalidSchema, e.Metric)
			}
			if prev.Year == e.Year {
				return nil, fmt.Errorf("%w: metric %q repeats year %d", ErrInvalidSchema, e.Metric, e.Year)
			}
		}
		t.byColumn[e.Column] = i
		t.byMetric[e.Metric] = append(t.byMetric[e.Metric], i)
	}
	return t, nil
}

func validate(e Entry) error {
	if e.Column == "" {
		return fmt.Errorf("empty column name")
	}
	if e.Metric == "" {
		return fmt.Errorf("empty metric key")
	}
	if !knownSection(e.Section) {
		return fmt.Errorf("unknown section %q", e.Section)
	}
	switch e.Component {
	case ComponentNodeTracker:
		if len(e.Options) == 0 {
			return fmt.Errorf("tracker without options")
		}
	case ComponentChart:
		if e.Year <= 0 {
			return fmt.Errorf("chart entry without year")
		}
	case ComponentValueDisplay, ComponentMultiValue, ComponentTextDescription:
	default:
		return fmt.Errorf("unknown component %q", e.Component)
	}
	switch e.Format {
	case "", formatter.KindNumber, formatter.KindPercentage, formatter.KindYear,
		formatter.KindCurrency, formatter.KindText:
	default:
		return fmt.Errorf("unknown format %q", e.Format)
	}
	return nil
}

func knownSection(s Section) bool {
	for _, k := range AllSections {
		if k == s {
			return true
		}
	}
	return false
}

// Entries returns a copy of every entry in table order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the entry for a column name.
func (t *Table) Lookup(column string) (Entry, bool) {
	i, ok := t.byColumn[column]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// ByMetric returns every entry sharing a metric key, in table order.
func (t *Table) ByMetric(metric string) []Entry {
	idx := t.byMetric[metric]
	out := make([]Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.entries[i])
	}
	return out
}

// SeriesEntries returns the chart entries of a metric ordered by year.
func (t *Table) SeriesEntries(metric string) []Entry {
	var out []Entry
	for _, e := range t.ByMetric(metric) {
		if e.IsSeries() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Sections returns the sections used by the table in page order.
func (t *Table) Sections() []Section {
	used := make(map[Section]bool)
	for _, e := range t.entries {
		used[e.Section] = true
	}
	var out []Section
	for _, s := range AllSections {
		if used[s] {
			out = append(out, s)
		}
	}
	return out
}
