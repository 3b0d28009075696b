package chart

import (
	"fmt"
	"math"
	"strings"
)

// StepCount is the number of intervals on a trend chart's y axis: 5
// intervals give 6 ticks, both bounds included.
const StepCount = 5

// autoRangeRatio is the share of the mean below which an auto-range axis
// is anchored at zero.
const autoRangeRatio = 0.2

// AxisPolicy selects how a trend chart picks its y bounds.
type AxisPolicy string

// Supported policies.
const (
	// AxisZero starts at zero and rounds the top up to a magnitude unit.
	AxisZero AxisPolicy = "zero"
	// AxisAuto fits the data unless the spread is small relative to the mean.
	AxisAuto AxisPolicy = "auto"
)

// ParseAxisPolicy parses a policy name. Empty selects AxisZero.
func ParseAxisPolicy(s string) (AxisPolicy, error) {
	switch p := AxisPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", AxisZero:
		return AxisZero, nil
	case AxisAuto:
		return AxisAuto, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Axis describes the y bounds and ticks of a chart.
type Axis struct {
	Min    float64    `json:"min"`
	Max    float64    `json:"max"`
	Steps  int        `json:"steps"`
	Ticks  []float64  `json:"ticks"`
	Policy AxisPolicy `json:"policy"`
}

// Span is Max-Min, or 1 when the axis is degenerate.
func (a Axis) Span() float64 {
	if r := a.Max - a.Min; r != 0 {
		return r
	}
	return 1
}

// Y maps v onto the plot area of l.
func (a Axis) Y(v float64, l Layout) float64 {
	h := l.PlotHeight()
	return l.Padding.Top + h - ((v-a.Min)/a.Span())*h
}

// NiceCeil rounds v up to a unit that suits its magnitude: hundred-millions
// from 1e9, millions from 1e6, ten-thousands from 1e4, hundreds from 1e2 and
// tens below that.
func NiceCeil(v float64) float64 {
	unit := 10.0
	switch {
	case v >= 1e9:
		unit = 1e8
	case v >= 1e6:
		unit = 1e6
	case v >= 1e4:
		unit = 1e4
	case v >= 1e2:
		unit = 1e2
	}
	return math.Ceil(v/unit) * unit
}

// ComputeAxis derives bounds and StepCount+1 evenly spaced ticks for s.
func ComputeAxis(s Series, policy AxisPolicy) Axis {
	lo, hi := s.Bounds()

	a := Axis{Steps: StepCount, Policy: policy}
	switch policy {
	case AxisAuto:
		a.Min, a.Max = lo, hi
		if hi-lo < autoRangeRatio*math.Abs(s.Mean()) {
			a.Min = math.Min(0, lo)
		}
	default:
		a.Policy = AxisZero
		a.Max = NiceCeil(hi)
		if lo < 0 {
			a.Min = -NiceCeil(-lo)
		}
	}
	if a.Max == a.Min {
		a.Max = a.Min + 1
	}

	a.Ticks = make([]float64, StepCount+1)
	for i := range a.Ticks {
		a.Ticks[i] = a.Min + float64(i)*(a.Max-a.Min)/StepCount
	}
	return a
}

// TickLabel renders an axis value. Values strictly between 0 and 1 keep two
// decimals; the auto policy keeps one decimal below 100; everything else is a
// grouped, rounded integer.
func TickLabel(v float64, policy AxisPolicy, nf NumberFormat) string {
	switch {
	case v > 0 && v < 1:
		return nf.Decimal(v, 2)
	case policy == AxisAuto && math.Abs(v) < 100:
		return nf.Decimal(v, 1)
	default:
		return nf.Integer(int64(math.Round(v)))
	}
}
