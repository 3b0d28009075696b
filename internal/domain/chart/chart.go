// Package chart turns numeric series into pixel geometry.
//
// Nothing here draws. Every function returns plain values (axes, scaled
// points, paths) computed from scratch per call so a renderer can emit SVG,
// JSON or anything else without retained layout state.
package chart

import "math"

// Point is one labelled sample of a series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is an ordered list of points.
type Series []Point

// Values returns the numeric part of the series.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Labels returns the label part of the series.
func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Label
	}
	return out
}

// Last returns the final point. ok is false for an empty series.
func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Bounds returns the minimum and maximum values. Both are zero when empty.
func (s Series) Bounds() (lo, hi float64) {
	if len(s) == 0 {
		return 0, 0
	}
	lo, hi = s[0].Value, s[0].Value
	for _, p := range s[1:] {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	return lo, hi
}

// Mean returns the arithmetic mean, zero when empty.
func (s Series) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s {
		sum += p.Value
	}
	return sum / float64(len(s))
}

// Padding is the empty margin around a plot area.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Layout is the outer size of a chart and its padding.
type Layout struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding Padding `json:"padding"`
}

// Default layouts.
var (
	DefaultTrendLayout = Layout{
		Width:   600,
		Height:  200,
		Padding: Padding{Top: 20, Right: 20, Bottom: 40, Left: 80},
	}
	DefaultPathwayLayout = Layout{
		Width:   800,
		Height:  350,
		Padding: Padding{Top: 40, Right: 60, Bottom: 60, Left: 60},
	}
)

// PlotWidth is the drawable width inside the padding.
func (l Layout) PlotWidth() float64 { return l.Width - l.Padding.Left - l.Padding.Right }

// PlotHeight is the drawable height inside the padding.
func (l Layout) PlotHeight() float64 { return l.Height - l.Padding.Top - l.Padding.Bottom }

// Bottom is the y coordinate of the plot floor.
func (l Layout) Bottom() float64 { return l.Padding.Top + l.PlotHeight() }

// Right is the x coordinate of the plot's right edge.
func (l Layout) Right() float64 { return l.Padding.Left + l.PlotWidth() }

// Marker radii.
const (
	MarkerRadius       = 4
	MarkerHoverRadius  = 6
	TargetRadius       = 5
	TargetHoverRadius  = 7
	sparklinePadding   = 10
	sparklineWidth     = 300
	sparklineHeight    = 60
	sparklinePointSize = 4
)

// ScaledPoint is a point placed in pixel space.
type ScaledPoint struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Value       float64 `json:"value"`
	Label       string  `json:"label"`
	Radius      float64 `json:"radius"`
	HoverRadius float64 `json:"hover_radius"`
	HoverLabel  string  `json:"hover_label,omitempty"`
}

// NumberFormat renders axis and hover numbers. *formatter.Formatter
// satisfies it.
type NumberFormat interface {
	Integer(n int64) string
	Decimal(x float64, digits int) string
	Compact(x float64, digits int) string
}

// Scale places every point of s inside the plot area of l against axis.
// Fewer than two points yield no geometry.
func Scale(s Series, axis Axis, l Layout) []ScaledPoint {
	if len(s) < 2 {
		return nil
	}
	step := l.PlotWidth() / float64(len(s)-1)
	out := make([]ScaledPoint, len(s))
	for i, p := range s {
		out[i] = ScaledPoint{
			X:           l.Padding.Left + float64(i)*step,
			Y:           axis.Y(p.Value, l),
			Value:       p.Value,
			Label:       p.Label,
			Radius:      MarkerRadius,
			HoverRadius: MarkerHoverRadius,
		}
	}
	return out
}
