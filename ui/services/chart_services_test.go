package services

import (
	"bytes"
	"context"
	"html/template"
	"math"
	"strings"
	"testing"

	"hrpulse/app"
	"hrpulse/domain/dashboard"
	"hrpulse/domain/dataset"
	"hrpulse/domain/filter"
	"hrpulse/internal"
	"hrpulse/internal/analysis/aggregate"
	"hrpulse/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableLoader struct{ table *dataset.Table }

func (l tableLoader) Load(context.Context) (*dataset.Table, error) { return l.table, nil }

func computePass(t *testing.T, criteria filter.Criteria) *app.Pass {
	t.Helper()
	svc, err := app.NewDashboardService(tableLoader{testkit.Employees(t, 250, 9)}, dashboard.Default(), 1, internal.Discard())
	require.NoError(t, err)
	pass, err := svc.Compute(context.Background(), criteria)
	require.NoError(t, err)
	return pass
}

func TestChartService_RendersEveryDefaultChart(t *testing.T) {
	svc := NewChartService(internal.Discard())
	pass := computePass(t, filter.New())

	for _, tab := range pass.Tabs {
		for _, res := range tab.Charts {
			var buf bytes.Buffer
			require.NoError(t, svc.Render(&buf, res), res.Chart.ID)
			assert.Contains(t, buf.String(), "<svg", res.Chart.ID)
			assert.NotContains(t, buf.String(), "No data", res.Chart.ID)
		}
	}
}

func TestChartService_EmptyPassDrawsPlaceholders(t *testing.T) {
	svc := NewChartService(internal.Discard())
	pass := computePass(t, filter.New().WithCategories(dataset.FieldDepartment))
	require.True(t, pass.Empty())

	for _, tab := range pass.Tabs {
		for _, res := range tab.Charts {
			var buf bytes.Buffer
			require.NoError(t, svc.Render(&buf, res), res.Chart.ID)
			assert.Contains(t, buf.String(), "No data", res.Chart.ID)
		}
	}
}

func TestChartService_DegenerateInputs(t *testing.T) {
	svc := NewChartService(internal.Discard())

	single := aggregate.ScatterPlot{X: "Age", Y: "MonthlyIncome", Groups: []aggregate.ScatterGroup{
		{Name: "Yes", Points: []aggregate.Point{{X: 30, Y: 5000}}},
	}}
	zeros := []aggregate.CategoryCount{{Value: "A", Count: 0}}
	nanMatrix := aggregate.Matrix{
		Fields: []dataset.Field{"Age", "EmployeeCount"},
		Values: [][]float64{{1, math.NaN()}, {math.NaN(), math.NaN()}},
	}
	box := []aggregate.BoxStats{aggregate.Summarize([]float64{5})}

	for name, data := range map[string]interface{}{
		"single point":    single,
		"zero counts":     zeros,
		"nan correlation": nanMatrix,
		"one value box":   box,
	} {
		var buf bytes.Buffer
		err := svc.Render(&buf, app.ChartResult{Chart: dashboard.Chart{ID: "x", Title: name, Kind: dashboard.KindBox}, Data: data})
		require.NoError(t, err, name)
		assert.Contains(t, buf.String(), "<svg", name)
	}
}

func TestChartService_SVGFallsBackOnUnknownData(t *testing.T) {
	svc := NewChartService(internal.Discard())
	var buf bytes.Buffer
	assert.Error(t, svc.Render(&buf, app.ChartResult{Data: 42}))

	out := string(svc.SVG(app.ChartResult{Chart: dashboard.Chart{Title: "Broken"}, Data: 42}))
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Chart unavailable")
}

func TestCorrelationColor(t *testing.T) {
	assert.Equal(t, colorNaN, correlationColor(math.NaN()))

	white := correlationColor(0)
	assert.Equal(t, uint8(255), white.R)
	assert.Equal(t, uint8(255), white.B)

	red, blue := correlationColor(1), correlationColor(-1)
	assert.Greater(t, red.R, red.B)
	assert.Greater(t, blue.B, blue.R)
}

func TestPadRange(t *testing.T) {
	lo, hi := padRange(5, 5)
	assert.Equal(t, 4.5, lo)
	assert.Equal(t, 5.5, hi)

	lo, hi = padRange(0, 100)
	assert.Equal(t, -5.0, lo)
	assert.Equal(t, 105.0, hi)

	lo, hi = padRange(math.Inf(1), math.Inf(-1))
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestTerminalService_Render(t *testing.T) {
	out := NewTerminalService().Render(computePass(t, filter.New()))
	assert.Contains(t, out, "HR Attrition Dashboard")
	assert.Contains(t, out, "250 of 250 employees")
	for _, want := range []string{"Demographics", "Gender Distribution", "Correlation Heatmap", "R²", "median", "█"} {
		assert.Contains(t, out, want)
	}

	empty := NewTerminalService().Render(computePass(t, filter.New().WithRange(dataset.FieldAge, 500, 600)))
	assert.Contains(t, empty, "0 of 250 employees")
	assert.Contains(t, empty, "warning: empty_result")
	assert.Contains(t, empty, "No data")
}

func TestRenderService(t *testing.T) {
	tmpl := template.Must(template.New("page").Parse(`<h1>{{.}}</h1>`))
	svc := NewRenderService(tmpl, internal.Discard())

	assert.Equal(t, "<h1>Hi</h1>", svc.RenderPage("page", "Hi"))
	assert.Contains(t, svc.RenderPage("missing", nil), "Error rendering")
}

func TestMarkdown(t *testing.T) {
	html := string(Markdown("filter by **department**"))
	assert.True(t, strings.Contains(html, "<strong>department</strong>"))
	assert.Empty(t, Markdown("  "))
}
