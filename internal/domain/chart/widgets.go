package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Default palettes.
var (
	DefaultBarColors = []string{"#0066CC", "#7030A0", "#00B050"}
	DefaultPieColors = []string{"#0066CC", "#7030A0", "#00B050", "#FF8C00", "#E81B23"}
)

// Num renders a coordinate with at most two decimals.
func Num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Sparkline is a compact min/max scaled line with a filled area below it.
type Sparkline struct {
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Points []ScaledPoint `json:"points"`
	Line   string        `json:"line"`
	Fill   string        `json:"fill"`
}

// BuildSparkline scales s between its own min and max. Non-positive sizes
// fall back to 300x60. Fewer than two points yield an empty body.
func BuildSparkline(s Series, width, height float64) Sparkline {
	if width <= 0 {
		width = sparklineWidth
	}
	if height <= 0 {
		height = sparklineHeight
	}
	sp := Sparkline{Width: width, Height: height}
	if len(s) < 2 {
		return sp
	}

	lo, hi := s.Bounds()
	l := Layout{
		Width:   width,
		Height:  height,
		Padding: Padding{Top: sparklinePadding, Right: sparklinePadding, Bottom: sparklinePadding, Left: sparklinePadding},
	}
	sp.Points = Scale(s, Axis{Min: lo, Max: hi}, l)

	var d strings.Builder
	for i, p := range sp.Points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		if i > 0 {
			d.WriteByte(' ')
		}
		fmt.Fprintf(&d, "%s %s %s", cmd, Num(p.X), Num(p.Y))
	}
	for i := range sp.Points {
		sp.Points[i].Radius = sparklinePointSize
		sp.Points[i].HoverRadius = sparklinePointSize
	}
	sp.Line = d.String()

	first, last := sp.Points[0], sp.Points[len(sp.Points)-1]
	bottom := Num(height - sparklinePadding)
	sp.Fill = fmt.Sprintf("%s L %s %s L %s %s Z", sp.Line, Num(last.X), bottom, Num(first.X), bottom)
	return sp
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
	Text    string  `json:"text"`
}

// BuildBars sizes each point as a share of the largest value and cycles
// through colors. Values are abbreviated with K/M.
func BuildBars(s Series, colors []string, abbreviate func(float64) string) []Bar {
	if len(colors) == 0 {
		colors = DefaultBarColors
	}
	_, hi := s.Bounds()
	out := make([]Bar, len(s))
	for i, p := range s {
		pct := 0.0
		if hi > 0 {
			pct = p.Value / hi * 100
		}
		out[i] = Bar{
			Label:   p.Label,
			Value:   p.Value,
			Percent: pct,
			Color:   colors[i%len(colors)],
			Text:    abbreviate(p.Value),
		}
	}
	return out
}

// Slice is one wedge of a pie chart. Angles are degrees, clockwise from the
// positive x axis.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Color string  `json:"color"`
	Path  string  `json:"path"`
}

// BuildPie lays slices out clockwise from twelve o'clock inside a square of
// side size. Non-positive values are skipped; an all-zero series has no slices.
func BuildPie(s Series, size float64, colors []string) []Slice {
	if len(colors) == 0 {
		colors = DefaultPieColors
	}
	var total float64
	for _, p := range s {
		if p.Value > 0 {
			total += p.Value
		}
	}
	if total <= 0 {
		return nil
	}

	c, r := size/2, size/2-10
	angle := -90.0
	var out []Slice
	for i, p := range s {
		if p.Value <= 0 {
			continue
		}
		sweep := p.Value / total * 360
		// a closed circle has coincident arc end points and would not draw
		if sweep >= 360 {
			sweep = 359.99
		}
		sl := Slice{
			Label: p.Label,
			Value: p.Value,
			Start: angle,
			End:   angle + sweep,
			Color: colors[i%len(colors)],
		}
		sl.Path = slicePath(c, c, r, sl.Start, sl.End)
		out = append(out, sl)
		angle += sweep
	}
	return out
}

func slicePath(cx, cy, r, start, end float64) string {
	sr, er := start*math.Pi/180, end*math.Pi/180
	x1, y1 := cx+r*math.Cos(sr), cy+r*math.Sin(sr)
	x2, y2 := cx+r*math.Cos(er), cy+r*math.Sin(er)
	large := 0
	if end-start > 180 {
		large = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		Num(cx), Num(cy), Num(x1), Num(y1), Num(r), Num(r), large, Num(x2), Num(y2))
}

// Progress is a filled share of a maximum.
type Progress struct {
	Percent float64 `json:"percent"`
	Width   float64 `json:"width"`
	Label   string  `json:"label"`
}

// BuildProgress computes value/max as a percentage with a one-decimal label.
// The fill width is clamped to 0..100; the label is not.
func BuildProgress(value, max float64) Progress {
	if max <= 0 {
		max = 100
	}
	pct := value / max * 100
	return Progress{
		Percent: pct,
		Width:   math.Max(0, math.Min(100, pct)),
		Label:   strconv.FormatFloat(math.Round(pct*10)/10, 'f', 1, 64) + "%",
	}
}
