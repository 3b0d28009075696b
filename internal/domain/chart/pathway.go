package chart

import (
	"fmt"
	"math"
	"strconv"
)

// Pathway defaults: six milestone years against a 2019 baseline.
var (
	DefaultPathwayYears   = []int{2019, 2022, 2024, 2030, 2040, 2050}
	DefaultPathwayTargets = []float64{100, 89, 85, 75, 40, 0}
)

// DefaultBaselineYear is the year whose emissions define 100%.
const DefaultBaselineYear = 2019

const (
	pathwayGridStep = 10
	// maxPathwayTicks caps the grid; wider ranges grow the step tenfold.
	maxPathwayTicks = 100
)

// PathwayInput carries what a reduction pathway is computed from.
type PathwayInput struct {
	BaselineYear  int
	BaselineValue float64
	LatestYear    int
	LatestValue   float64
	Years         []int
	Targets       []float64
}

// Coord is a bare pixel coordinate.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pathway is the geometry of the reduction pathway chart.
type Pathway struct {
	Layout Layout        `json:"layout"`
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
	Rate   float64       `json:"yearly_change_rate"`
	Ticks  []Tick        `json:"ticks"`
	Grid   []Tick        `json:"grid"`
	Years  []Coord       `json:"years"`
	BAU    []ScaledPoint `json:"bau"`
	Target []ScaledPoint `json:"target"`
	Band   []Coord       `json:"band"`
}

// YearlyChangeRate is the straight-line change per year, in percentage
// points, between the 100% baseline and latestPct.
func YearlyChangeRate(baselineYear, latestYear int, latestPct float64) (float64, error) {
	if latestYear == baselineYear {
		return 0, fmt.Errorf("%w: latest year equals baseline year %d", ErrInvalidPathway, baselineYear)
	}
	return (latestPct - 100) / float64(latestYear-baselineYear), nil
}

// BAU extends the baseline trend to every year.
func BAU(years []int, baselineYear int, rate float64) []float64 {
	out := make([]float64, len(years))
	for i, y := range years {
		out[i] = 100 + rate*float64(y-baselineYear)
	}
	return out
}

// BuildPathway computes both curves, the axis and the target band.
func BuildPathway(in PathwayInput, l Layout) (Pathway, error) {
	if in.BaselineValue <= 0 {
		return Pathway{}, fmt.Errorf("%w: baseline %v must be positive", ErrInvalidPathway, in.BaselineValue)
	}
	if len(in.Years) < 2 {
		return Pathway{}, fmt.Errorf("%w: need at least two years", ErrInvalidPathway)
	}
	if len(in.Targets) != len(in.Years) {
		return Pathway{}, fmt.Errorf("%w: %d targets for %d years", ErrInvalidPathway, len(in.Targets), len(in.Years))
	}

	latestPct := in.LatestValue / in.BaselineValue * 100
	if math.IsNaN(latestPct) || math.IsInf(latestPct, 0) {
		return Pathway{}, fmt.Errorf("%w: latest share %v is not finite", ErrInvalidPathway, latestPct)
	}
	rate, err := YearlyChangeRate(in.BaselineYear, in.LatestYear, latestPct)
	if err != nil {
		return Pathway{}, err
	}
	bau := BAU(in.Years, in.BaselineYear, rate)

	lo, hi := 0.0, math.Inf(-1)
	for _, v := range append(append([]float64{}, bau...), in.Targets...) {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(hi, 0) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsNaN(lo) {
		return Pathway{}, fmt.Errorf("%w: range is not finite", ErrInvalidPathway)
	}
	grid := gridStep(lo, hi)
	p := Pathway{
		Layout: l,
		Min:    math.Floor(lo/grid) * grid,
		Max:    math.Ceil(hi/grid) * grid,
		Rate:   rate,
	}
	axis := Axis{Min: p.Min, Max: p.Max}

	n := int(math.Round((p.Max - p.Min) / grid))
	for i := 0; i <= n; i++ {
		v := p.Min + float64(i)*grid
		t := Tick{Value: v, Y: axis.Y(v, l), Text: strconv.FormatFloat(v, 'f', -1, 64) + "%"}
		p.Ticks = append(p.Ticks, t)
		if i != 0 && i != n {
			p.Grid = append(p.Grid, t)
		}
	}

	step := l.PlotWidth() / float64(len(in.Years)-1)
	for i, year := range in.Years {
		x := l.Padding.Left + float64(i)*step
		p.Years = append(p.Years, Coord{X: x, Y: l.Height - 20})
		p.BAU = append(p.BAU, ScaledPoint{
			X:           x,
			Y:           axis.Y(bau[i], l),
			Value:       bau[i],
			Label:       strconv.Itoa(year),
			Radius:      MarkerRadius,
			HoverRadius: MarkerHoverRadius,
			HoverLabel:  fmt.Sprintf("BAU路徑 %d年: %.1f%%", year, bau[i]),
		})
		p.Target = append(p.Target, ScaledPoint{
			X:           x,
			Y:           axis.Y(in.Targets[i], l),
			Value:       in.Targets[i],
			Label:       strconv.Itoa(year),
			Radius:      TargetRadius,
			HoverRadius: TargetHoverRadius,
			HoverLabel:  fmt.Sprintf("減量目標 %d年: %s%%", year, strconv.FormatFloat(in.Targets[i], 'f', -1, 64)),
		})
	}

	for _, t := range p.Target {
		p.Band = append(p.Band, Coord{X: t.X, Y: t.Y})
	}
	p.Band = append(p.Band,
		Coord{X: l.Right(), Y: l.Bottom()},
		Coord{X: l.Padding.Left, Y: l.Bottom()},
	)
	return p, nil
}

// gridStep returns the smallest power-of-ten multiple of pathwayGridStep
// that keeps [lo, hi] within maxPathwayTicks intervals.
func gridStep(lo, hi float64) float64 {
	step := float64(pathwayGridStep)
	for (math.Ceil(hi/step)-math.Floor(lo/step)) > maxPathwayTicks && !math.IsInf(step, 0) {
		step *= 10
	}
	return step
}
