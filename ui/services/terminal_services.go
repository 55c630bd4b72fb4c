package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"hrpulse/app"
	"hrpulse/internal/analysis/aggregate"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the terminal report
type Styles struct {
	Title   lipgloss.Style
	Tab     lipgloss.Style
	Chart   lipgloss.Style
	Muted   lipgloss.Style
	Bar     lipgloss.Style
	Warning lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Tab: lipgloss.NewStyle().Bold(true).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).
			MarginTop(1),
		Chart:   lipgloss.NewStyle().Bold(true).MarginTop(1),
		Muted:   lipgloss.NewStyle().Faint(true),
		Bar:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// TerminalService renders a pass as a plain-text report
type TerminalService struct {
	styles   Styles
	barWidth int
}

func NewTerminalService() *TerminalService {
	return &TerminalService{styles: DefaultStyles(), barWidth: 40}
}

// Render writes the whole pass, tab by tab
func (s *TerminalService) Render(pass *app.Pass) string {
	var b strings.Builder
	b.WriteString(s.styles.Title.Render(pass.Title))
	b.WriteString("\n")
	b.WriteString(s.styles.Muted.Render(fmt.Sprintf("%d of %d employees match the filters", pass.FilteredRows, pass.TotalRows)))
	b.WriteString("\n")
	for _, w := range pass.Warnings {
		b.WriteString(s.styles.Warning.Render("warning: " + w))
		b.WriteString("\n")
	}

	for _, tab := range pass.Tabs {
		b.WriteString(s.styles.Tab.Render(tab.Name))
		b.WriteString("\n")
		for _, res := range tab.Charts {
			b.WriteString(s.styles.Chart.Render(res.Chart.Title))
			b.WriteString("\n")
			b.WriteString(s.chart(res))
		}
	}
	if pass.Footer != "" {
		b.WriteString("\n")
		b.WriteString(s.styles.Muted.Render(pass.Footer))
		b.WriteString("\n")
	}
	return b.String()
}

type row struct {
	label string
	value float64
	text  string
}

func (s *TerminalService) chart(res app.ChartResult) string {
	var rows []row
	switch data := res.Data.(type) {
	case aggregate.Distribution:
		for _, sl := range data.Slices {
			rows = append(rows, row{sl.Value, float64(sl.Count),
				fmt.Sprintf("%d (%.1f%%)", sl.Count, 100*data.Proportion(sl.Value))})
		}
	case []aggregate.CategoryCount:
		for _, cc := range data {
			rows = append(rows, row{cc.Value, float64(cc.Count), fmt.Sprint(cc.Count)})
		}
	case aggregate.NumericHistogram:
		if data.Total > 0 {
			for _, bin := range data.Bins {
				rows = append(rows, row{fmt.Sprintf("%.1f-%.1f", bin.Lower, bin.Upper), float64(bin.Count), fmt.Sprint(bin.Count)})
			}
		}
	case aggregate.ProportionTable:
		for g, group := range data.Groups {
			if data.GroupSizes[g] == 0 {
				continue
			}
			for o, outcome := range data.Outcomes {
				p := data.Proportions[g][o]
				rows = append(rows, row{group + " " + outcome, p, fmt.Sprintf("%.1f%%", 100*p)})
			}
		}
	case aggregate.Breakdown:
		for i, primary := range data.PrimaryLevels {
			for j, secondary := range data.SecondaryLevels {
				n := data.Counts[i][j]
				rows = append(rows, row{primary + " / " + secondary, float64(n), fmt.Sprint(n)})
			}
		}
	case aggregate.GroupedCounts:
		for i, cat := range data.Categories {
			for _, series := range data.Series {
				n := series.Counts[i]
				rows = append(rows, row{fmt.Sprintf("%g %s", cat, series.Name), float64(n), fmt.Sprint(n)})
			}
		}
	case []aggregate.BoxStats:
		return s.boxes(data)
	case aggregate.Matrix:
		return s.strongest(data, 8)
	case aggregate.ScatterPlot:
		return s.scatter(data)
	default:
		return s.styles.Muted.Render("  (not drawable)") + "\n"
	}
	if len(rows) == 0 {
		return s.styles.Muted.Render("  No data") + "\n"
	}
	return s.bars(rows)
}

func (s *TerminalService) bars(rows []row) string {
	labelWidth, top := 0, 0.0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.label))
		top = math.Max(top, r.value)
	}
	var b strings.Builder
	for _, r := range rows {
		n := 0
		if top > 0 {
			n = int(math.Round(r.value / top * float64(s.barWidth)))
		}
		fmt.Fprintf(&b, "  %-*s %s %s\n", labelWidth, r.label,
			s.styles.Bar.Render(strings.Repeat("█", n)), r.text)
	}
	return b.String()
}

func (s *TerminalService) boxes(stats []aggregate.BoxStats) string {
	if len(stats) == 0 {
		return s.styles.Muted.Render("  No data") + "\n"
	}
	var b strings.Builder
	for _, st := range stats {
		label := st.Group
		if st.Secondary != "" && st.Secondary != st.Group {
			label += " / " + st.Secondary
		}
		fmt.Fprintf(&b, "  %-32s n=%-5d median %-10.1f IQR %.1f-%.1f\n", label, st.N, st.Median, st.Q1, st.Q3)
	}
	return b.String()
}

// strongest lists the top off-diagonal correlations by magnitude
func (s *TerminalService) strongest(m aggregate.Matrix, limit int) string {
	type pair struct {
		a, b string
		r    float64
	}
	var pairs []pair
	for i := range m.Fields {
		for j := i + 1; j < len(m.Fields); j++ {
			if r := m.Values[i][j]; !math.IsNaN(r) {
				pairs = append(pairs, pair{string(m.Fields[i]), string(m.Fields[j]), r})
			}
		}
	}
	if len(pairs) == 0 {
		return s.styles.Muted.Render("  No data") + "\n"
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].r) > math.Abs(pairs[j].r)
	})
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "  %-48s %+.2f\n", p.a+" ~ "+p.b, p.r)
	}
	return b.String()
}

func (s *TerminalService) scatter(sp aggregate.ScatterPlot) string {
	if len(sp.Groups) == 0 {
		return s.styles.Muted.Render("  No data") + "\n"
	}
	var b strings.Builder
	for _, g := range sp.Groups {
		name := g.Name
		if name == "" {
			name = "all"
		}
		fmt.Fprintf(&b, "  %-16s %d points", name, len(g.Points))
		if g.Trend != nil {
			fmt.Fprintf(&b, ", %s = %.2f + %.2f·%s (R² %.2f)", sp.Y, g.Trend.Intercept, g.Trend.Slope, sp.X, g.Trend.RSquared)
		}
		b.WriteString("\n")
	}
	return b.String()
}
