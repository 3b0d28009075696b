// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and CLIMATEDASH_* env vars over the defaults.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"time"

	"github.com/okian/climatedash/internal/domain/chart"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataSource is a CSV/XLSX path or an http(s) URL.
	DataSource string `koanf:"data_source"`

	// Sheet picks the workbook sheet; empty means the first one.
	Sheet string `koanf:"sheet"`

	// FetchTimeout bounds the single data fetch.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// MaxSourceBytes caps the data source size.
	MaxSourceBytes int64 `koanf:"max_source_bytes"`

	// SchemaPath replaces the embedded column table when set.
	SchemaPath string `koanf:"schema_path"`

	// CompanyColumn holds the company display name.
	CompanyColumn string `koanf:"company_column"`

	// FoldCompanyNames makes name lookups case-insensitive.
	FoldCompanyNames bool `koanf:"fold_company_names"`

	// DefaultCompany is the index selected after a load.
	DefaultCompany int `koanf:"default_company"`

	// Locale and Currency drive number and money formatting.
	Locale   string `koanf:"locale"`
	Currency string `koanf:"currency"`

	// AxisPolicy is "zero" or "auto" for every trend chart.
	AxisPolicy string `koanf:"axis_policy"`

	TrendChartWidth  float64 `koanf:"trend_chart_width"`
	TrendChartHeight float64 `koanf:"trend_chart_height"`
	PathwayWidth     float64 `koanf:"pathway_width"`
	PathwayHeight    float64 `koanf:"pathway_height"`

	// BaselineYear is used when a company declares none.
	BaselineYear int `koanf:"baseline_year"`

	// PathwayYears and PathwayTargets pair up milestone years with the
	// target share of baseline emissions in percent.
	PathwayYears   []int     `koanf:"pathway_years"`
	PathwayTargets []float64 `koanf:"pathway_targets"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		DataSource:       "data/companies.csv",
		FetchTimeout:     30 * time.Second,
		MaxSourceBytes:   32 << 20,
		CompanyColumn:    "公司",
		Locale:           "zh-TW",
		Currency:         "TWD",
		AxisPolicy:       string(chart.AxisZero),
		TrendChartWidth:  chart.DefaultTrendLayout.Width,
		TrendChartHeight: chart.DefaultTrendLayout.Height,
		PathwayWidth:     chart.DefaultPathwayLayout.Width,
		PathwayHeight:    chart.DefaultPathwayLayout.Height,
		BaselineYear:     chart.DefaultBaselineYear,
		PathwayYears:     append([]int(nil), chart.DefaultPathwayYears...),
		PathwayTargets:   append([]float64(nil), chart.DefaultPathwayTargets...),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := chart.ParseAxisPolicy(c.AxisPolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.TrendChartWidth <= 0 || c.TrendChartHeight <= 0 {
		return fmt.Errorf("%w: trend chart size must be positive", ErrInvalidConfig)
	}
	if c.PathwayWidth <= 0 || c.PathwayHeight <= 0 {
		return fmt.Errorf("%w: pathway chart size must be positive", ErrInvalidConfig)
	}
	if len(c.PathwayYears) < 2 {
		return fmt.Errorf("%w: pathway needs at least two years", ErrInvalidConfig)
	}
	if len(c.PathwayTargets) != len(c.PathwayYears) {
		return fmt.Errorf("%w: %d pathway targets for %d years", ErrInvalidConfig, len(c.PathwayTargets), len(c.PathwayYears))
	}
	if c.DefaultCompany < 0 {
		return fmt.Errorf("%w: default_company must not be negative", ErrInvalidConfig)
	}
	return nil
}
