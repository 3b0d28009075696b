package chart

// Tick is a labelled y axis position.
type Tick struct {
	Value float64 `json:"value"`
	Y     float64 `json:"y"`
	Text  string  `json:"text"`
}

// Trend is the full geometry of a simple trend line chart.
type Trend struct {
	Layout Layout        `json:"layout"`
	Axis   Axis          `json:"axis"`
	Ticks  []Tick        `json:"ticks"`
	Points []ScaledPoint `json:"points"`
	Unit   string        `json:"unit,omitempty"`
}

// BuildTrend computes axis, ticks and points for s. A series with fewer
// than two points still gets an axis but no points.
func BuildTrend(s Series, l Layout, policy AxisPolicy, unit string, nf NumberFormat) Trend {
	axis := ComputeAxis(s, policy)
	t := Trend{Layout: l, Axis: axis, Unit: unit}

	t.Ticks = make([]Tick, len(axis.Ticks))
	for i, v := range axis.Ticks {
		t.Ticks[i] = Tick{Value: v, Y: axis.Y(v, l), Text: TickLabel(v, axis.Policy, nf)}
	}

	t.Points = Scale(s, axis, l)
	for i := range t.Points {
		t.Points[i].HoverLabel = HoverLabel(t.Points[i].Label, t.Points[i].Value, unit, nf)
	}
	return t
}

// HoverLabel renders "<label>年: <value> <unit>"; the unit is omitted when empty.
func HoverLabel(label string, v float64, unit string, nf NumberFormat) string {
	out := label + "年: " + nf.Compact(v, 3)
	if unit != "" {
		out += " " + unit
	}
	return out
}
