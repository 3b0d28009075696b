// Package render binds a company record to the dashboard page and draws its
// charts.
package render

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/okian/climatedash/internal/domain/chart"
	"github.com/okian/climatedash/internal/domain/formatter"
	"github.com/okian/climatedash/internal/domain/model"
	"github.com/okian/climatedash/internal/domain/schema"
	"github.com/okian/climatedash/pkg/logger"
	"github.com/okian/climatedash/pkg/metrics"
)

//go:embed templates/dashboard.html
var defaultPage []byte

// Chart container ids.
const (
	ChartEmissionsTrend  = "emissions-trend-chart"
	ChartIntensityTrend  = "intensity-trend-chart"
	ChartEnergyTrend     = "energy-trend-chart"
	ChartRECapacityTrend = "re-capacity-trend-chart"
	ChartCoalTrend       = "coal-trend-chart"
	ChartPathway         = "reduction-pathway-chart"
	ChartEnergyBars      = "energy-bar-chart"
	ChartREShare         = "re-share-pie"
	ChartTimeline        = "commitment-timeline"
)

// Metric keys the charts read.
const (
	metricEmissions         = "emissions-trend"
	metricIntensity         = "intensity-trend"
	metricEnergy            = "energy-trend"
	metricRECapacity        = "re-capacity-trend"
	metricCoal              = "coal-trend"
	metricBaselineYear      = "baseline-year"
	metricBaselineEmissions = "baseline-emissions"
	metricREActual          = "re-actual-percent"
	metricMidtermYear       = "midterm-target-year"
	metricMidtermPercent    = "midterm-reduction-percent"
	metricNetZeroYear       = "net-zero-year"
)

type trendChart struct {
	metric string
	color  string
}

var trendCharts = map[string]trendChart{
	ChartEmissionsTrend:  {metric: metricEmissions, color: "#dc3545"},
	ChartIntensityTrend:  {metric: metricIntensity, color: "#fd7e14"},
	ChartEnergyTrend:     {metric: metricEnergy, color: "#0d6efd"},
	ChartRECapacityTrend: {metric: metricRECapacity, color: "#198754"},
	ChartCoalTrend:       {metric: metricCoal, color: "#6c757d"},
}

// ChartIDs lists every chart container in drawing order.
var ChartIDs = []string{
	ChartEmissionsTrend,
	ChartIntensityTrend,
	ChartEnergyTrend,
	ChartRECapacityTrend,
	ChartCoalTrend,
	ChartPathway,
	ChartEnergyBars,
	ChartREShare,
	ChartTimeline,
}

// Renderer produces dashboard HTML for a company. It holds no per-render
// state and is safe for concurrent use.
type Renderer struct {
	logger       logger.Logger
	numbers      *formatter.Formatter
	policy       chart.AxisPolicy
	trend        chart.Layout
	pathway      chart.Layout
	years        []int
	targets      []float64
	baselineYear int
	page         []byte
	md           goldmark.Markdown
}

// New creates a Renderer.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		logger:       logger.Discard(),
		numbers:      formatter.New(),
		policy:       chart.AxisZero,
		trend:        chart.DefaultTrendLayout,
		pathway:      chart.DefaultPathwayLayout,
		years:        append([]int(nil), chart.DefaultPathwayYears...),
		targets:      append([]float64(nil), chart.DefaultPathwayTargets...),
		baselineYear: chart.DefaultBaselineYear,
		page:         defaultPage,
		md:           goldmark.New(goldmark.WithRendererOptions(gmhtml.WithHardWraps())),
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.targets) != len(r.years) {
		return nil, fmt.Errorf("%w: %d targets for %d years", chart.ErrInvalidPathway, len(r.targets), len(r.years))
	}
	if _, err := chart.ParseAxisPolicy(string(r.policy)); err != nil {
		return nil, err
	}
	return r, nil
}

// Template returns the raw page template.
func (r *Renderer) Template() []byte { return r.page }

// Render binds c to the page and draws every chart. A nil company yields
// the untouched template.
func (r *Renderer) Render(ctx context.Context, c *model.Company) (string, error) {
	if c == nil {
		return string(r.page), nil
	}
	start := time.Now()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.page))
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	doc.Find(".company-name").SetText(c.Name())
	for _, sec := range c.Sections() {
		r.bindSection(ctx, doc, c, sec)
	}

	for _, id := range ChartIDs {
		target := doc.Find("#" + id)
		if target.Length() == 0 {
			r.missing(ctx, "#"+id)
			continue
		}
		markup, err := r.chart(ctx, c, id)
		if err != nil {
			r.logger.Warn(ctx, "chart skipped", logger.String("chart", id), logger.Error(err))
			markup = emptyState("資料不足")
		}
		target.SetHtml(markup)
		metrics.RecordChartRendered(id)
	}
	r.sparklines(ctx, doc, c)
	r.progress(ctx, doc, c)

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serialize page: %w", err)
	}
	metrics.RecordRender("page", float64(time.Since(start).Microseconds())/1000)
	r.logger.Debug(ctx, "page rendered", logger.String("company", c.Name()))
	return out, nil
}

// RenderChart returns the markup of one chart.
func (r *Renderer) RenderChart(ctx context.Context, c *model.Company, id string) (string, error) {
	if c == nil {
		return "", ErrNoCompany
	}
	start := time.Now()
	out, err := r.chart(ctx, c, id)
	if err != nil {
		return "", err
	}
	metrics.RecordRender("chart", float64(time.Since(start).Microseconds())/1000)
	metrics.RecordChartRendered(id)
	return out, nil
}

func (r *Renderer) missing(ctx context.Context, target string) {
	r.logger.Warn(ctx, "render target not found", logger.String("target", target))
	metrics.RecordMissingTarget(target)
}

func (r *Renderer) bindSection(ctx context.Context, doc *goquery.Document, c *model.Company, sec schema.Section) {
	root := doc.Find("#" + string(sec))
	if root.Length() == 0 {
		r.missing(ctx, "#"+string(sec))
		return
	}

	root.Find(".section-content .metric-row").Each(func(_ int, row *goquery.Selection) {
		if row.Find("[data-metric]").Length() == 0 {
			row.Remove()
		}
	})

	for _, m := range c.SectionMetrics(sec) {
		if m.Schema.IsSeries() {
			continue
		}
		el := root.Find(`[data-metric="` + m.Key + `"]`).First()
		if el.Length() == 0 {
			r.logger.Debug(ctx, "metric has no element", logger.String("metric", m.Key))
			continue
		}
		switch {
		case el.HasClass("node-tracker"):
			nodes := el.Find(".node")
			nodes.RemoveClass("active")
			if i := m.Schema.OptionIndex(m.Value); i >= 0 {
				nodes.Eq(i).AddClass("active")
			}
		case el.HasClass("text-description"):
			var buf bytes.Buffer
			if err := r.md.Convert([]byte(m.Value), &buf); err != nil {
				r.logger.Warn(ctx, "markdown conversion failed", logger.String("metric", m.Key), logger.Error(err))
				el.SetText(m.Value)
				continue
			}
			el.SetHtml(buf.String())
		default:
			el.Closest(".metric-row").Find(".value-display").SetText(m.Formatted)
		}
	}
}

func (r *Renderer) sparklines(ctx context.Context, doc *goquery.Document, c *model.Company) {
	doc.Find(".chart-placeholder[data-series]").Each(func(_ int, el *goquery.Selection) {
		metric, _ := el.Attr("data-series")
		s := c.Series(metric)
		color := "#0d6efd"
		for _, tc := range trendCharts {
			if tc.metric == metric {
				color = tc.color
			}
		}
		el.SetHtml(sparklineSVG(chart.BuildSparkline(s, 0, 0), s, color, metric, r.numbers))
	})
}

func (r *Renderer) progress(ctx context.Context, doc *goquery.Document, c *model.Company) {
	doc.Find("[data-progress]").Each(func(_ int, el *goquery.Selection) {
		metric, _ := el.Attr("data-progress")
		v, ok := c.Float(metric)
		if !ok {
			el.Empty()
			return
		}
		el.SetHtml(progressHTML(chart.BuildProgress(v, 100)))
	})
}

func (r *Renderer) chart(ctx context.Context, c *model.Company, id string) (string, error) {
	if tc, ok := trendCharts[id]; ok {
		tr := chart.BuildTrend(c.Series(tc.metric), r.trend, r.policy, c.Unit(tc.metric), r.numbers)
		return trendSVG(tr, tc.color), nil
	}
	switch id {
	case ChartPathway:
		return r.pathwayChart(ctx, c)
	case ChartEnergyBars:
		s := c.Series(metricEnergy)
		if len(s) == 0 {
			return "", fmt.Errorf("%w: %s", ErrNoData, metricEnergy)
		}
		return barsHTML(chart.BuildBars(s, chart.DefaultBarColors, r.numbers.Abbreviate)), nil
	case ChartREShare:
		v, ok := c.Float(metricREActual)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrNoData, metricREActual)
		}
		s := chart.Series{{Label: "再生能源", Value: v}, {Label: "其他能源", Value: 100 - v}}
		return pieSVG(chart.BuildPie(s, pieSize, []string{"#00B050", "#D9D9D9"})), nil
	case ChartTimeline:
		items := r.milestones(c)
		if len(items) == 0 {
			return "", fmt.Errorf("%w: no commitment years", ErrNoData)
		}
		return timelineHTML(items), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, id)
}

func (r *Renderer) pathwayChart(ctx context.Context, c *model.Company) (string, error) {
	baseline, ok := c.Float(metricBaselineEmissions)
	if !ok {
		metrics.RecordPathwaySkipped("no_baseline")
		return "", fmt.Errorf("%w: %s", ErrNoData, metricBaselineEmissions)
	}
	latest, ok := c.Series(metricEmissions).Last()
	if !ok {
		metrics.RecordPathwaySkipped("no_emissions")
		return "", fmt.Errorf("%w: %s", ErrNoData, metricEmissions)
	}
	latestYear, err := strconv.Atoi(latest.Label)
	if err != nil {
		metrics.RecordPathwaySkipped("bad_year")
		return "", fmt.Errorf("%w: year %q", ErrNoData, latest.Label)
	}

	baseYear := r.baselineYear
	if v, ok := c.Float(metricBaselineYear); ok && v > 0 {
		baseYear = int(v)
	}

	p, err := chart.BuildPathway(chart.PathwayInput{
		BaselineYear:  baseYear,
		BaselineValue: baseline,
		LatestYear:    latestYear,
		LatestValue:   latest.Value,
		Years:         r.years,
		Targets:       r.targets,
	}, r.pathway)
	if err != nil {
		metrics.RecordPathwaySkipped("invalid")
		return "", err
	}
	r.logger.Debug(ctx, "pathway built", logger.Float64("rate", p.Rate), logger.Int("baseline_year", baseYear))
	return pathwaySVG(p), nil
}

func (r *Renderer) milestones(c *model.Company) []milestone {
	var out []milestone
	if m := c.GetMetric(metricBaselineYear); m != nil {
		out = append(out, milestone{Year: m.Formatted, Title: "基準年", Description: "減量目標計算基準"})
	}
	if m := c.GetMetric(metricMidtermYear); m != nil {
		desc := "中期減量目標"
		if p := c.GetMetric(metricMidtermPercent); p != nil {
			desc = strings.TrimSpace(desc + " " + p.Formatted)
		}
		out = append(out, milestone{Year: m.Formatted, Title: "中期目標", Description: desc})
	}
	if m := c.GetMetric(metricNetZeroYear); m != nil {
		out = append(out, milestone{Year: m.Formatted, Title: "淨零排放", Description: "淨零排放或碳中和"})
	}
	return out
}
