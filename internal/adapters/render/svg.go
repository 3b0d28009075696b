package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/okian/climatedash/internal/domain/chart"
)

const (
	pathwayTitle  = "企業溫室氣體年排放量趨勢與減量目標"
	bauColor      = "#666"
	targetColor   = "#2e6930"
	bandColor     = "#b8d4a8"
	axisColor     = "#999"
	labelColor    = "#666"
	gridColor     = "#e0e0e0"
	progressColor = "#00B050"
	pieSize       = 200
)

var esc = html.EscapeString

func polyline(pts []chart.ScaledPoint) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = chart.Num(p.X) + "," + chart.Num(p.Y)
	}
	return strings.Join(parts, " ")
}

func tooltip(b *strings.Builder, size string) {
	fmt.Fprintf(b, `<g class="chart-tooltip" opacity="0" pointer-events="none"><rect fill="rgba(0, 0, 0, 0.8)" rx="4"></rect><text fill="white" font-size="%s"></text></g>`, size)
}

func marker(b *strings.Builder, p chart.ScaledPoint, color string) {
	fmt.Fprintf(b, `<circle class="point" cx="%s" cy="%s" r="%s" data-r="%s" data-hover-r="%s" data-label="%s" fill="%s" style="cursor: pointer;"><title>%s</title></circle>`,
		chart.Num(p.X), chart.Num(p.Y), chart.Num(p.Radius), chart.Num(p.Radius), chart.Num(p.HoverRadius),
		esc(p.HoverLabel), color, esc(p.HoverLabel))
}

func yTick(b *strings.Builder, t chart.Tick, left float64, fontSize string) {
	fmt.Fprintf(b, `<line class="tick" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"></line>`,
		chart.Num(left-5), chart.Num(t.Y), chart.Num(left), chart.Num(t.Y), axisColor)
	fmt.Fprintf(b, `<text class="tick-label" x="%s" y="%s" text-anchor="end" font-size="%s" fill="%s">%s</text>`,
		chart.Num(left-10), chart.Num(t.Y+4), fontSize, labelColor, esc(t.Text))
}

// trendSVG draws a trend line with its y ticks, markers and year labels.
func trendSVG(tr chart.Trend, color string) string {
	l := tr.Layout
	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="trend" width="%s" height="%s" viewBox="0 0 %s %s" style="display: block;">`,
		chart.Num(l.Width), chart.Num(l.Height), chart.Num(l.Width), chart.Num(l.Height))
	tooltip(&b, "12")
	if len(tr.Points) > 0 {
		fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"></polyline>`, polyline(tr.Points), color)
	}
	for _, t := range tr.Ticks {
		yTick(&b, t, l.Padding.Left, "10")
	}
	for _, p := range tr.Points {
		marker(&b, p, color)
		fmt.Fprintf(&b, `<text class="x-label" x="%s" y="%s" text-anchor="middle" font-size="12" fill="%s">%s</text>`,
			chart.Num(p.X), chart.Num(l.Height-10), labelColor, esc(p.Label))
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// pathwaySVG draws the target band, both curves, grid and legend.
func pathwaySVG(p chart.Pathway) string {
	l := p.Layout
	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="pathway" width="100%%" height="%s" viewBox="0 0 %s %s" style="background: #f9f9f9;">`,
		chart.Num(l.Height), chart.Num(l.Width), chart.Num(l.Height))
	fmt.Fprintf(&b, `<text class="chart-title" x="%s" y="25" text-anchor="middle" font-size="16" font-weight="bold" fill="#333">%s</text>`,
		chart.Num(l.Width/2), pathwayTitle)
	tooltip(&b, "11")

	band := make([]string, len(p.Band))
	for i, c := range p.Band {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		band[i] = fmt.Sprintf("%s %s,%s", cmd, chart.Num(c.X), chart.Num(c.Y))
	}
	fmt.Fprintf(&b, `<path class="target-band" d="%s Z" fill="%s" opacity="0.6"></path>`, strings.Join(band, " "), bandColor)
	fmt.Fprintf(&b, `<polyline class="bau-line" points="%s" fill="none" stroke="%s" stroke-width="2" stroke-dasharray="5,5"></polyline>`, polyline(p.BAU), bauColor)
	fmt.Fprintf(&b, `<polyline class="target-line" points="%s" fill="none" stroke="%s" stroke-width="3"></polyline>`, polyline(p.Target), targetColor)

	for _, pt := range p.BAU {
		marker(&b, pt, bauColor)
	}
	for _, pt := range p.Target {
		marker(&b, pt, targetColor)
	}
	for i, c := range p.Years {
		fmt.Fprintf(&b, `<text class="x-label" x="%s" y="%s" text-anchor="middle" font-size="12" fill="#333">%s</text>`,
			chart.Num(c.X), chart.Num(c.Y), esc(p.BAU[i].Label))
	}
	for _, t := range p.Ticks {
		yTick(&b, t, l.Padding.Left, "11")
	}
	for _, t := range p.Grid {
		fmt.Fprintf(&b, `<line class="grid" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1" stroke-dasharray="2,2"></line>`,
			chart.Num(l.Padding.Left), chart.Num(t.Y), chart.Num(l.Right()), chart.Num(t.Y), gridColor)
	}

	legendY := l.Height - 15
	fmt.Fprintf(&b, `<g class="legend"><line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2" stroke-dasharray="5,5"></line><text x="%s" y="%s" font-size="11" fill="#333">BAU</text>`,
		chart.Num(l.Width-180), chart.Num(legendY), chart.Num(l.Width-150), chart.Num(legendY), bauColor,
		chart.Num(l.Width-145), chart.Num(legendY+4))
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2"></line><text x="%s" y="%s" font-size="11" fill="#333">減量目標</text></g>`,
		chart.Num(l.Width-110), chart.Num(legendY), chart.Num(l.Width-80), chart.Num(legendY), targetColor,
		chart.Num(l.Width-75), chart.Num(legendY+4))
	b.WriteString(`</svg>`)
	return b.String()
}

// sparklineSVG draws a sparkline with a gradient fill and its point labels.
func sparklineSVG(sp chart.Sparkline, s chart.Series, color, id string, nf chart.NumberFormat) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="sparkline" viewBox="0 0 %s %s" preserveAspectRatio="xMidYMid meet" style="width: 100%%; height: 100%%;">`,
		chart.Num(sp.Width), chart.Num(sp.Height))
	if len(sp.Points) > 0 {
		gid := "sparkline-gradient-" + id
		fmt.Fprintf(&b, `<defs><linearGradient id="%s" x1="0%%" y1="0%%" x2="0%%" y2="100%%"><stop offset="0%%" stop-color="%s" stop-opacity="0.2"></stop><stop offset="100%%" stop-color="%s" stop-opacity="0.01"></stop></linearGradient></defs>`,
			gid, color, color)
		fmt.Fprintf(&b, `<path class="sparkline-fill" d="%s" fill="url(#%s)"></path>`, sp.Fill, gid)
		fmt.Fprintf(&b, `<path class="sparkline-line" d="%s" stroke="%s" stroke-width="2" fill="none" stroke-linecap="round" stroke-linejoin="round"></path>`, sp.Line, color)
		for i, p := range sp.Points {
			opacity := "0.5"
			if i == len(sp.Points)-1 {
				opacity = "1"
			}
			fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="%s" opacity="%s"></circle>`,
				chart.Num(p.X), chart.Num(p.Y), chart.Num(p.Radius), color, opacity)
		}
	}
	b.WriteString(`</svg>`)

	if len(s) > 0 {
		b.WriteString(`<div class="sparkline-labels">`)
		for _, p := range s {
			fmt.Fprintf(&b, `<span>%s<br>%s</span>`, esc(p.Label), esc(nf.Compact(p.Value, 2)))
		}
		b.WriteString(`</div>`)
	}
	return b.String()
}

// pieSVG draws pie slices with a legend.
func pieSVG(slices []chart.Slice) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="pie" viewBox="0 0 %d %d" preserveAspectRatio="xMidYMid meet" style="width: %dpx; height: %dpx;">`,
		pieSize, pieSize, pieSize, pieSize)
	for _, s := range slices {
		fmt.Fprintf(&b, `<path class="slice" d="%s" fill="%s" stroke="white" stroke-width="1"><title>%s</title></path>`,
			s.Path, s.Color, esc(s.Label))
	}
	b.WriteString(`</svg><ul class="pie-legend">`)
	for _, s := range slices {
		fmt.Fprintf(&b, `<li><span class="swatch" style="background-color: %s;"></span>%s %s%%</li>`,
			s.Color, esc(s.Label), chart.Num(s.Value))
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// barsHTML draws horizontal bars as plain HTML.
func barsHTML(bars []chart.Bar) string {
	var b strings.Builder
	b.WriteString(`<div class="simple-bar-chart">`)
	for _, bar := range bars {
		fmt.Fprintf(&b, `<div class="bar-item"><div class="bar-label">%s</div><div class="bar-container"><div class="bar-fill" style="width: %s%%; background-color: %s;" title="%s"><span class="bar-value">%s</span></div></div></div>`,
			esc(bar.Label), chart.Num(bar.Percent), bar.Color, chart.Num(bar.Value), esc(bar.Text))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// progressHTML draws a progress bar.
func progressHTML(p chart.Progress) string {
	return fmt.Sprintf(`<div class="progress-container"><div class="progress-bar"><div class="progress-fill" style="width: %s%%; background-color: %s;"><span class="progress-label">%s</span></div></div></div>`,
		chart.Num(p.Width), progressColor, esc(p.Label))
}

// milestone is one entry of the commitment timeline.
type milestone struct {
	Year        string
	Title       string
	Description string
}

// timelineHTML draws milestones joined by connectors.
func timelineHTML(items []milestone) string {
	var b strings.Builder
	b.WriteString(`<div class="status-timeline">`)
	for i, m := range items {
		color := chart.DefaultBarColors[i%len(chart.DefaultBarColors)]
		fmt.Fprintf(&b, `<div class="timeline-item"><div class="timeline-marker" style="background-color: %s;"></div><div class="timeline-content"><div class="timeline-year">%s</div><div class="timeline-title">%s</div><div class="timeline-description">%s</div></div></div>`,
			color, esc(m.Year), esc(m.Title), esc(m.Description))
		if i < len(items)-1 {
			fmt.Fprintf(&b, `<div class="timeline-connector" style="background-color: %s;"></div>`, color)
		}
	}
	b.WriteString(`</div>`)
	return b.String()
}

func emptyState(msg string) string {
	return `<p class="chart-empty">` + esc(msg) + `</p>`
}
