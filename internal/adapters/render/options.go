package render

import (
	"github.com/okian/climatedash/internal/domain/chart"
	"github.com/okian/climatedash/internal/domain/formatter"
	"github.com/okian/climatedash/pkg/logger"
)

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for soft failures.
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFormatter sets the formatter for axis, hover and widget numbers.
func WithFormatter(f *formatter.Formatter) Option {
	return func(r *Renderer) {
		if f != nil {
			r.numbers = f
		}
	}
}

// WithAxisPolicy selects the y axis policy shared by every trend chart.
func WithAxisPolicy(p chart.AxisPolicy) Option {
	return func(r *Renderer) {
		if p != "" {
			r.policy = p
		}
	}
}

// WithTrendLayout sets the trend chart size.
func WithTrendLayout(width, height float64) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.trend.Width = width
			r.trend.Height = height
		}
	}
}

// WithPathwayLayout sets the reduction pathway chart size.
func WithPathwayLayout(width, height float64) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.pathway.Width = width
			r.pathway.Height = height
		}
	}
}

// WithPathway sets the milestone years, target percentages and the baseline
// year used when a company does not declare one.
func WithPathway(years []int, targets []float64, baselineYear int) Option {
	return func(r *Renderer) {
		if len(years) > 0 {
			r.years = append([]int(nil), years...)
			r.targets = append([]float64(nil), targets...)
		}
		if baselineYear > 0 {
			r.baselineYear = baselineYear
		}
	}
}

// WithTemplate replaces the embedded page template.
func WithTemplate(page []byte) Option {
	return func(r *Renderer) {
		if len(page) > 0 {
			r.page = page
		}
	}
}
