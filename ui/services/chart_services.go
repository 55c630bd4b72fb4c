package services

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"hrpulse/app"
	"hrpulse/domain/core"
	"hrpulse/domain/dashboard"
	"hrpulse/internal"
	"hrpulse/internal/analysis/aggregate"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 640
	defaultHeight = 400

	// plot margins for the hand-drawn kinds
	marginLeft   = 70
	marginRight  = 20
	marginTop    = 50
	marginBottom = 70
)

var palette = []drawing.Color{
	drawing.ColorFromHex("4C78A8"),
	drawing.ColorFromHex("F58518"),
	drawing.ColorFromHex("54A24B"),
	drawing.ColorFromHex("E45756"),
	drawing.ColorFromHex("72B7B2"),
	drawing.ColorFromHex("B279A2"),
	drawing.ColorFromHex("FF9DA6"),
	drawing.ColorFromHex("9D755D"),
}

func paletteColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

// ChartService draws computed charts as SVG
type ChartService struct {
	width  int
	height int
	logger *internal.Logger
}

func NewChartService(logger *internal.Logger) *ChartService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ChartService{
		width:  defaultWidth,
		height: defaultHeight,
		logger: logger.With("ChartService"),
	}
}

// SVG renders one chart. Drawing failures fall back to a placeholder image
// so a broken panel never takes the page down.
func (s *ChartService) SVG(res app.ChartResult) []byte {
	var buf bytes.Buffer
	if err := s.Render(&buf, res); err != nil {
		s.logger.Error("Failed to render chart %s: %v", res.Chart.ID, err)
		buf.Reset()
		if err := s.placeholder(&buf, res.Chart.Title, "Chart unavailable"); err != nil {
			return []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)
		}
	}
	return buf.Bytes()
}

// Render writes the chart as SVG, dispatching on the aggregate's type
func (s *ChartService) Render(w io.Writer, res app.ChartResult) error {
	c := res.Chart
	switch data := res.Data.(type) {
	case aggregate.Distribution:
		return s.pie(w, c, data)
	case []aggregate.CategoryCount:
		values := make([]chart.Value, len(data))
		for i, cc := range data {
			values[i] = bar(float64(cc.Count), cc.Value, paletteColor(0))
		}
		return s.bars(w, c.Title, values)
	case aggregate.NumericHistogram:
		return s.histogram(w, c, data)
	case aggregate.ProportionTable:
		return s.proportions(w, c, data)
	case aggregate.Breakdown:
		return s.breakdown(w, c, data)
	case aggregate.GroupedCounts:
		return s.groupedBars(w, c, data)
	case []aggregate.BoxStats:
		return s.distributions(w, c, data)
	case aggregate.Matrix:
		return s.heatmap(w, c, data)
	case aggregate.ScatterPlot:
		return s.scatter(w, c, data)
	}
	return fmt.Errorf("%w: cannot draw %T", core.ErrInvalidChart, res.Data)
}

func bar(v float64, label string, col drawing.Color) chart.Value {
	return chart.Value{
		Value: v,
		Label: label,
		Style: chart.Style{FillColor: col, StrokeColor: col},
	}
}

func (s *ChartService) pie(w io.Writer, c dashboard.Chart, d aggregate.Distribution) error {
	if d.Total == 0 {
		return s.placeholder(w, c.Title, "No data")
	}
	values := make([]chart.Value, 0, len(d.Slices))
	for i, sl := range d.Slices {
		values = append(values, chart.Value{
			Value: float64(sl.Count),
			Label: fmt.Sprintf("%s %.1f%%", sl.Value, 100*d.Proportion(sl.Value)),
			Style: chart.Style{FillColor: paletteColor(i)},
		})
	}
	pc := chart.PieChart{
		Title:  c.Title,
		Width:  s.width,
		Height: s.height,
		Values: values,
	}
	return pc.Render(chart.SVG, w)
}

// bars draws a bar chart on a zero-based axis
func (s *ChartService) bars(w io.Writer, title string, values []chart.Value) error {
	if len(values) == 0 {
		return s.placeholder(w, title, "No data")
	}
	top := 0.0
	for _, v := range values {
		top = math.Max(top, v.Value)
	}
	if top <= 0 {
		top = 1
	}

	width := s.width
	per := (width - marginLeft - marginRight) / len(values)
	if per < 6 {
		per = 6
		width = per*len(values) + marginLeft + marginRight
	}
	spacing := per / 5
	if spacing < 1 {
		spacing = 1
	}

	bc := chart.BarChart{
		Title:  title,
		Width:  width,
		Height: s.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		BarWidth:   per - spacing,
		BarSpacing: spacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: values,
	}
	return bc.Render(chart.SVG, w)
}

func (s *ChartService) histogram(w io.Writer, c dashboard.Chart, h aggregate.NumericHistogram) error {
	if h.Total == 0 {
		return s.placeholder(w, c.Title, "No data")
	}
	every := 1
	if len(h.Bins) > 10 {
		every = len(h.Bins) / 5
	}
	values := make([]chart.Value, len(h.Bins))
	for i, b := range h.Bins {
		label := ""
		if i%every == 0 {
			label = strconv.FormatFloat(b.Lower, 'f', -1, 64)
			if len(label) > 6 {
				label = fmt.Sprintf("%.1f", b.Lower)
			}
		}
		values[i] = bar(float64(b.Count), label, paletteColor(0))
	}
	return s.bars(w, c.Title, values)
}

// proportions draws within-group shares as percentages, one colored bar per
// outcome. Groups with no rows are left out.
func (s *ChartService) proportions(w io.Writer, c dashboard.Chart, p aggregate.ProportionTable) error {
	var values []chart.Value
	for g, group := range p.Groups {
		if p.GroupSizes[g] == 0 {
			continue
		}
		for o, outcome := range p.Outcomes {
			values = append(values, bar(100*p.Proportions[g][o], group+" "+outcome, paletteColor(o)))
		}
	}
	return s.bars(w, c.Title, values)
}

func (s *ChartService) breakdown(w io.Writer, c dashboard.Chart, b aggregate.Breakdown) error {
	if b.Total == 0 {
		return s.placeholder(w, c.Title, "No data")
	}
	var values []chart.Value
	for i, primary := range b.PrimaryLevels {
		for j, secondary := range b.SecondaryLevels {
			values = append(values, bar(float64(b.Counts[i][j]), primary+" / "+secondary, paletteColor(j)))
		}
	}
	return s.bars(w, c.Title, values)
}

func (s *ChartService) groupedBars(w io.Writer, c dashboard.Chart, g aggregate.GroupedCounts) error {
	var values []chart.Value
	for i, cat := range g.Categories {
		for j, series := range g.Series {
			label := strconv.FormatFloat(cat, 'f', -1, 64) + " " + series.Name
			values = append(values, bar(float64(series.Counts[i]), label, paletteColor(j)))
		}
	}
	return s.bars(w, c.Title, values)
}

func (s *ChartService) scatter(w io.Writer, c dashboard.Chart, sp aggregate.ScatterPlot) error {
	if len(sp.Groups) == 0 {
		return s.placeholder(w, c.Title, "No data")
	}

	xlo, xhi := math.Inf(1), math.Inf(-1)
	ylo, yhi := math.Inf(1), math.Inf(-1)
	for _, g := range sp.Groups {
		for _, p := range g.Points {
			xlo, xhi = math.Min(xlo, p.X), math.Max(xhi, p.X)
			ylo, yhi = math.Min(ylo, p.Y), math.Max(yhi, p.Y)
		}
	}
	xlo, xhi = padRange(xlo, xhi)
	ylo, yhi = padRange(ylo, yhi)

	series := make([]chart.Series, 0, 2*len(sp.Groups))
	for i, g := range sp.Groups {
		col := paletteColor(i)
		xs := make([]float64, len(g.Points))
		ys := make([]float64, len(g.Points))
		for k, p := range g.Points {
			xs[k], ys[k] = p.X, p.Y
		}
		name := g.Name
		if name == "" {
			name = string(sp.Y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(col),
		})
		if g.Trend != nil {
			series = append(series, chart.ContinuousSeries{
				Name:    fmt.Sprintf("%s fit (R² %.2f)", name, g.Trend.RSquared),
				XValues: []float64{g.Trend.XMin, g.Trend.XMax},
				YValues: []float64{g.Trend.At(g.Trend.XMin), g.Trend.At(g.Trend.XMax)},
				Style:   chart.Style{StrokeWidth: 2, StrokeColor: col},
			})
		}
	}

	ch := chart.Chart{
		Title:  c.Title,
		Width:  s.width,
		Height: s.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:  string(sp.X),
			Range: &chart.ContinuousRange{Min: xlo, Max: xhi},
		},
		YAxis: chart.YAxis{
			Name:  string(sp.Y),
			Range: &chart.ContinuousRange{Min: ylo, Max: yhi},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.SVG, w)
}

// pointStyle renders points only, no connecting line
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    3,
		DotColor:    col,
	}
}

// padRange widens a degenerate or tight range so axes always have extent
func padRange(lo, hi float64) (float64, float64) {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 1
	}
	if hi-lo < 1e-9 {
		return lo - 0.5, hi + 0.5
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}
