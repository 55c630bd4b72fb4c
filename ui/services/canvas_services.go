package services

import (
	"fmt"
	"io"
	"math"

	"hrpulse/domain/dashboard"
	"hrpulse/internal/analysis/aggregate"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	colorAxis  = drawing.ColorFromHex("555555")
	colorGrid  = drawing.ColorFromHex("E5E5E5")
	colorText  = drawing.ColorFromHex("333333")
	colorMuted = drawing.ColorFromHex("999999")
	colorNaN   = drawing.ColorFromHex("DDDDDD")
)

// canvas wraps a go-chart SVG renderer for the kinds go-chart has no
// series type for: box, violin and heatmap panels.
type canvas struct {
	r      chart.Renderer
	width  int
	height int
}

func newCanvas(width, height int) (*canvas, error) {
	r, err := chart.SVG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r.SetFont(font)
	cv := &canvas{r: r, width: width, height: height}
	cv.fillRect(0, 0, width, height, drawing.ColorWhite)
	return cv, nil
}

func (cv *canvas) fillRect(x0, y0, x1, y1 int, fill drawing.Color) {
	cv.r.SetFillColor(fill)
	cv.r.MoveTo(x0, y0)
	cv.r.LineTo(x1, y0)
	cv.r.LineTo(x1, y1)
	cv.r.LineTo(x0, y1)
	cv.r.Close()
	cv.r.Fill()
}

func (cv *canvas) line(x0, y0, x1, y1 int, col drawing.Color, width float64) {
	cv.r.SetStrokeColor(col)
	cv.r.SetStrokeWidth(width)
	cv.r.MoveTo(x0, y0)
	cv.r.LineTo(x1, y1)
	cv.r.Stroke()
}

func (cv *canvas) polygon(xs, ys []int, fill, stroke drawing.Color) {
	if len(xs) < 3 {
		return
	}
	cv.r.SetFillColor(fill)
	cv.r.SetStrokeColor(stroke)
	cv.r.SetStrokeWidth(1)
	cv.r.MoveTo(xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		cv.r.LineTo(xs[i], ys[i])
	}
	cv.r.Close()
	cv.r.FillStroke()
}

func (cv *canvas) dot(x, y int, col drawing.Color) {
	cv.r.SetFillColor(col)
	cv.r.SetStrokeColor(col)
	cv.r.SetStrokeWidth(1)
	cv.r.Circle(2.5, x, y)
}

func (cv *canvas) text(body string, x, y int, size float64, col drawing.Color) {
	cv.r.SetFontSize(size)
	cv.r.SetFontColor(col)
	cv.r.Text(body, x, y)
}

func (cv *canvas) centeredText(body string, x, y int, size float64, col drawing.Color) {
	cv.r.SetFontSize(size)
	box := cv.r.MeasureText(body)
	cv.text(body, x-box.Width()/2, y, size, col)
}

func (cv *canvas) rightText(body string, x, y int, size float64, col drawing.Color) {
	cv.r.SetFontSize(size)
	box := cv.r.MeasureText(body)
	cv.text(body, x-box.Width(), y, size, col)
}

func (cv *canvas) title(body string) {
	cv.centeredText(body, cv.width/2, 28, 15, colorText)
}

func (cv *canvas) save(w io.Writer) error {
	return cv.r.Save(w)
}

// placeholder is the image for charts with nothing to draw
func (s *ChartService) placeholder(w io.Writer, title, message string) error {
	cv, err := newCanvas(s.width, s.height)
	if err != nil {
		return err
	}
	cv.title(title)
	cv.centeredText(message, cv.width/2, cv.height/2, 18, colorMuted)
	return cv.save(w)
}

// yScale maps data values onto the vertical pixel range [top, bottom]
type yScale struct {
	lo, hi      float64
	top, bottom int
}

func (y yScale) px(v float64) int {
	t := (v - y.lo) / (y.hi - y.lo)
	return y.bottom - int(math.Round(t*float64(y.bottom-y.top)))
}

func (cv *canvas) yAxis(y yScale, name string) {
	cv.line(marginLeft, y.top, marginLeft, y.bottom, colorAxis, 1)
	const ticks = 5
	for i := 0; i <= ticks; i++ {
		v := y.lo + (y.hi-y.lo)*float64(i)/ticks
		py := y.px(v)
		cv.line(marginLeft, py, cv.width-marginRight, py, colorGrid, 1)
		cv.rightText(formatTick(v, y.hi-y.lo), marginLeft-6, py+4, 10, colorText)
	}
	cv.text(name, 8, y.top-12, 11, colorText)
}

func formatTick(v, span float64) string {
	if span >= 50 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// distributions draws box plots, or violins when the stats carry a density
// curve. Each group gets a slot; color follows the secondary level.
func (s *ChartService) distributions(w io.Writer, c dashboard.Chart, stats []aggregate.BoxStats) error {
	if len(stats) == 0 {
		return s.placeholder(w, c.Title, "No data")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	maxDensity := 0.0
	var secondaries []string
	for _, st := range stats {
		lo, hi = math.Min(lo, st.Min), math.Max(hi, st.Max)
		for _, d := range st.Density {
			lo, hi = math.Min(lo, d.X), math.Max(hi, d.X)
			maxDensity = math.Max(maxDensity, d.Density)
		}
		if indexOfString(secondaries, st.Secondary) < 0 {
			secondaries = append(secondaries, st.Secondary)
		}
	}
	lo, hi = padRange(lo, hi)

	cv, err := newCanvas(s.width, s.height)
	if err != nil {
		return err
	}
	cv.title(c.Title)
	y := yScale{lo: lo, hi: hi, top: marginTop, bottom: s.height - marginBottom}
	cv.yAxis(y, string(c.Value))
	cv.line(marginLeft, y.bottom, s.width-marginRight, y.bottom, colorAxis, 1)

	slot := float64(s.width-marginLeft-marginRight) / float64(len(stats))
	half := int(slot * 0.35)
	for i, st := range stats {
		cx := marginLeft + int(slot*(float64(i)+0.5))
		col := paletteColor(indexOfString(secondaries, st.Secondary))

		if c.Kind == dashboard.KindViolin && len(st.Density) > 1 && maxDensity > 0 {
			drawViolin(cv, y, st, cx, half, maxDensity, col)
		} else {
			drawBox(cv, y, st, cx, half, col)
		}

		cv.centeredText(st.Group, cx, y.bottom+16, 10, colorText)
		if st.Secondary != "" && st.Secondary != st.Group {
			cv.centeredText(st.Secondary, cx, y.bottom+30, 9, colorMuted)
		}
		cv.centeredText(fmt.Sprintf("n=%d", st.N), cx, y.bottom+44, 9, colorMuted)
	}

	if len(secondaries) > 1 {
		x := s.width - marginRight - 120
		for i, name := range secondaries {
			ly := marginTop + 14*i
			cv.fillRect(x, ly-8, x+10, ly+2, paletteColor(i))
			cv.text(fmt.Sprintf("%s=%s", c.Secondary, name), x+14, ly+1, 10, colorText)
		}
	}
	return cv.save(w)
}

func drawBox(cv *canvas, y yScale, st aggregate.BoxStats, cx, half int, col drawing.Color) {
	cv.line(cx, y.px(st.LowerWhisker), cx, y.px(st.Q1), colorAxis, 1)
	cv.line(cx, y.px(st.Q3), cx, y.px(st.UpperWhisker), colorAxis, 1)
	cv.line(cx-half/2, y.px(st.LowerWhisker), cx+half/2, y.px(st.LowerWhisker), colorAxis, 1)
	cv.line(cx-half/2, y.px(st.UpperWhisker), cx+half/2, y.px(st.UpperWhisker), colorAxis, 1)

	top, bottom := y.px(st.Q3), y.px(st.Q1)
	if bottom-top < 1 {
		bottom = top + 1
	}
	cv.polygon(
		[]int{cx - half, cx + half, cx + half, cx - half},
		[]int{top, top, bottom, bottom},
		col.WithAlpha(180), colorAxis,
	)
	cv.line(cx-half, y.px(st.Median), cx+half, y.px(st.Median), drawing.ColorBlack, 2)
	for _, o := range st.Outliers {
		cv.dot(cx, y.px(o), col)
	}
}

func drawViolin(cv *canvas, y yScale, st aggregate.BoxStats, cx, half int, maxDensity float64, col drawing.Color) {
	n := len(st.Density)
	xs := make([]int, 0, 2*n)
	ys := make([]int, 0, 2*n)
	for _, d := range st.Density {
		xs = append(xs, cx+int(float64(half)*d.Density/maxDensity))
		ys = append(ys, y.px(d.X))
	}
	for i := n - 1; i >= 0; i-- {
		d := st.Density[i]
		xs = append(xs, cx-int(float64(half)*d.Density/maxDensity))
		ys = append(ys, y.px(d.X))
	}
	cv.polygon(xs, ys, col.WithAlpha(160), col)

	cv.line(cx, y.px(st.Q1), cx, y.px(st.Q3), drawing.ColorBlack, 3)
	cv.line(cx-half/3, y.px(st.Median), cx+half/3, y.px(st.Median), drawing.ColorWhite, 2)
}

// heatmap draws the correlation matrix on a blue-white-red scale. Undefined
// coefficients are grey.
func (s *ChartService) heatmap(w io.Writer, c dashboard.Chart, m aggregate.Matrix) error {
	n := len(m.Fields)
	if n == 0 {
		return s.placeholder(w, c.Title, "No data")
	}

	const left, top, bottom = 170, 50, 150
	size := s.width
	cell := (size - left - marginRight) / n
	if cell < 8 {
		cell = 8
		size = left + marginRight + cell*n
	}
	height := top + cell*n + bottom

	cv, err := newCanvas(size, height)
	if err != nil {
		return err
	}
	cv.title(c.Title)

	for i := 0; i < n; i++ {
		ry := top + i*cell
		cv.rightText(string(m.Fields[i]), left-6, ry+cell/2+4, 9, colorText)
		for j := 0; j < n; j++ {
			x := left + j*cell
			v := m.Values[i][j]
			cv.fillRect(x, ry, x+cell-1, ry+cell-1, correlationColor(v))
			if cell >= 30 && !math.IsNaN(v) {
				cv.centeredText(fmt.Sprintf("%.2f", v), x+cell/2, ry+cell/2+4, 8, colorText)
			}
		}
	}

	cv.r.SetTextRotation(math.Pi / 2)
	for j := 0; j < n; j++ {
		x := left + j*cell + cell/2 - 4
		cv.text(string(m.Fields[j]), x, top+n*cell+6, 9, colorText)
	}
	cv.r.ClearTextRotation()

	return cv.save(w)
}

// correlationColor interpolates from white toward red for positive and blue
// for negative coefficients
func correlationColor(v float64) drawing.Color {
	if math.IsNaN(v) {
		return colorNaN
	}
	t := math.Min(math.Abs(v), 1)
	target := drawing.ColorFromHex("B2182B")
	if v < 0 {
		target = drawing.ColorFromHex("2166AC")
	}
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return drawing.Color{
		R: mix(255, target.R),
		G: mix(255, target.G),
		B: mix(255, target.B),
		A: 255,
	}
}

func indexOfString(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}
