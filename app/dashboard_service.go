package app

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"hrpulse/domain/core"
	"hrpulse/domain/dashboard"
	"hrpulse/domain/dataset"
	"hrpulse/domain/filter"
	"hrpulse/internal"
	"hrpulse/internal/analysis/aggregate"
	"hrpulse/internal/errors"
	"hrpulse/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// TableLoader yields the memoized employee table
type TableLoader interface {
	Load(ctx context.Context) (*dataset.Table, error)
}

// ChartResult is one chart's declaration and its computed aggregate
type ChartResult struct {
	Chart dashboard.Chart `json:"chart"`
	Data  interface{}     `json:"data"`
}

// TabResult is the computed charts of one tab, in definition order
type TabResult struct {
	Name   string        `json:"name"`
	Charts []ChartResult `json:"charts"`
}

// Pass is the output of one recomputation: filter once, then every chart
type Pass struct {
	ID           core.PassID     `json:"id"`
	Fingerprint  core.Hash       `json:"fingerprint"`
	Criteria     filter.Criteria `json:"-"`
	Title        string          `json:"title"`
	Intro        string          `json:"intro"`
	Footer       string          `json:"footer"`
	TotalRows    int             `json:"total_rows"`
	FilteredRows int             `json:"filtered_rows"`
	Warnings     []string        `json:"warnings"`
	Tabs         []TabResult     `json:"tabs"`
	ComputedAt   time.Time       `json:"computed_at"`
	RuntimeMs    float64         `json:"runtime_ms"`
}

// Empty reports whether the filter eliminated every record
func (p *Pass) Empty() bool {
	return p.FilteredRows == 0
}

// Chart finds a computed chart by ID
func (p *Pass) Chart(id core.ChartID) (ChartResult, bool) {
	for _, tab := range p.Tabs {
		for _, c := range tab.Charts {
			if c.Chart.ID == id {
				return c, true
			}
		}
	}
	return ChartResult{}, false
}

// Controls are the filter control options offered to the user
type Controls struct {
	Departments []string `json:"departments"`
	Genders     []string `json:"genders"`
	AgeMin      float64  `json:"age_min"`
	AgeMax      float64  `json:"age_max"`
	TotalRows   int      `json:"total_rows"`
}

// Selection is the state of the filter controls. A nil slice or bound means
// the control was left at its default.
type Selection struct {
	Departments []string
	Genders     []string
	AgeMin      *float64
	AgeMax      *float64
}

// DefaultCriteria turns a selection into filter criteria. Untouched controls
// add no constraint; a touched but empty multi-select matches nothing; an
// open age bound extends to infinity.
func DefaultCriteria(sel Selection) filter.Criteria {
	c := filter.New()
	if sel.Departments != nil {
		c = c.WithCategories(dataset.FieldDepartment, sel.Departments...)
	}
	if sel.Genders != nil {
		c = c.WithCategories(dataset.FieldGender, sel.Genders...)
	}
	if sel.AgeMin != nil || sel.AgeMax != nil {
		lo, hi := math.Inf(-1), math.Inf(1)
		if sel.AgeMin != nil {
			lo = *sel.AgeMin
		}
		if sel.AgeMax != nil {
			hi = *sel.AgeMax
		}
		c = c.WithRange(dataset.FieldAge, lo, hi)
	}
	return c
}

// DashboardService runs recomputation passes over the loaded table
type DashboardService struct {
	loader  TableLoader
	def     *dashboard.Definition
	workers int
	logger  *internal.Logger

	checkOnce sync.Once
	checkErr  error
}

// NewDashboardService validates the definition against the employee schema
func NewDashboardService(loader TableLoader, def *dashboard.Definition, workers int, logger *internal.Logger) (*DashboardService, error) {
	if def == nil {
		def = dashboard.Default()
	}
	if err := def.Validate(dataset.EmployeeSchema); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DashboardService{
		loader:  loader,
		def:     def,
		workers: workers,
		logger:  logger.With("DashboardService"),
	}, nil
}

// Definition returns the chart battery
func (s *DashboardService) Definition() *dashboard.Definition {
	return s.def
}

// table loads the table and, once, checks the definition against the
// columns actually present
func (s *DashboardService) table(ctx context.Context) (*dataset.Table, error) {
	table, err := s.loader.Load(ctx)
	if err != nil {
		return nil, errors.LoadFailed(err)
	}
	s.checkOnce.Do(func() {
		metrics.SetDatasetRows(table.Len())
		if err := s.def.Validate(table.Schema()); err != nil {
			s.checkErr = errors.WithCode(errors.CodeConfigInvalid, err)
		}
	})
	if s.checkErr != nil {
		return nil, s.checkErr
	}
	return table, nil
}

// Controls returns the filter options: Department and Gender levels in
// first-seen order and the Age range of the full table
func (s *DashboardService) Controls(ctx context.Context) (*Controls, error) {
	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	lo, hi, _ := table.NumericBounds(dataset.FieldAge)
	return &Controls{
		Departments: table.Levels(dataset.FieldDepartment),
		Genders:     table.Levels(dataset.FieldGender),
		AgeMin:      lo,
		AgeMax:      hi,
		TotalRows:   table.Len(),
	}, nil
}

// Compute runs one pass: validate the criteria, filter the table once, then
// build every chart (or only the listed ones) over the filtered view. An
// empty view is not an error; the pass carries the empty_result warning and
// every chart its neutral value.
func (s *DashboardService) Compute(ctx context.Context, criteria filter.Criteria, only ...core.ChartID) (*Pass, error) {
	start := time.Now()
	pass, err := s.compute(ctx, criteria, only)
	if err != nil {
		metrics.ObservePass(time.Since(start), metrics.OutcomeError, 0)
		return nil, err
	}

	outcome := metrics.OutcomeSuccess
	if pass.Empty() {
		outcome = metrics.OutcomeEmpty
	}
	elapsed := time.Since(start)
	pass.RuntimeMs = float64(elapsed.Nanoseconds()) / 1e6
	metrics.ObservePass(elapsed, outcome, pass.FilteredRows)
	s.logger.Debug("Pass %s: %d/%d rows, %d tabs in %.2fms",
		pass.ID, pass.FilteredRows, pass.TotalRows, len(pass.Tabs), pass.RuntimeMs)
	return pass, nil
}

func (s *DashboardService) compute(ctx context.Context, criteria filter.Criteria, only []core.ChartID) (*Pass, error) {
	if err := criteria.Validate(dataset.EmployeeSchema); err != nil {
		return nil, errors.InvalidInput("invalid filter criteria", err)
	}

	wanted := make(map[core.ChartID]bool, len(only))
	for _, id := range only {
		if _, ok := s.def.Chart(id); !ok {
			nf := errors.NotFound("chart " + id.String())
			nf.Cause = core.ErrNotFound
			return nil, nf
		}
		wanted[id] = true
	}

	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	view := filter.Apply(table, criteria)
	pass := &Pass{
		ID:           core.NewPassID(),
		Fingerprint:  criteria.Fingerprint(),
		Criteria:     criteria,
		Title:        s.def.Title,
		Intro:        s.def.Intro,
		Footer:       s.def.Footer,
		TotalRows:    table.Len(),
		FilteredRows: view.Len(),
		Warnings:     make([]string, 0),
		Tabs:         make([]TabResult, 0, len(s.def.Tabs)),
		ComputedAt:   time.Now().UTC(),
	}
	if view.Empty() {
		pass.Warnings = append(pass.Warnings, core.WarningEmptyResult)
		s.logger.Warn("%v (criteria %s)", core.ErrEmptyResult, pass.Fingerprint.Short())
	}

	type slot struct{ tab, chart int }
	var jobs []slot
	for _, tab := range s.def.Tabs {
		result := TabResult{Name: tab.Name, Charts: make([]ChartResult, 0, len(tab.Charts))}
		for _, c := range tab.Charts {
			if len(wanted) > 0 && !wanted[c.ID] {
				continue
			}
			result.Charts = append(result.Charts, ChartResult{Chart: c})
		}
		if len(result.Charts) == 0 && len(wanted) > 0 {
			continue
		}
		pass.Tabs = append(pass.Tabs, result)
		for i := range result.Charts {
			jobs = append(jobs, slot{len(pass.Tabs) - 1, i})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := &pass.Tabs[j.tab].Charts[j.chart]
			data, err := Build(view, res.Chart)
			if err != nil {
				return errors.Wrapf(err, "build chart %s", res.Chart.ID)
			}
			res.Data = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pass, nil
}

// Build computes the aggregate behind one chart
func Build(view dataset.View, c dashboard.Chart) (interface{}, error) {
	var pred dataset.Predicate
	if c.Where != nil {
		pred = dataset.Predicate{Field: c.Where.Field, Value: c.Where.Equals}
	}

	switch c.Kind {
	case dashboard.KindPie:
		return aggregate.CategoryDistribution(view, c.Field), nil
	case dashboard.KindCount:
		return aggregate.CountByCategory(view, c.Field), nil
	case dashboard.KindHistogram:
		bins := c.Bins
		if bins == 0 {
			bins = aggregate.DefaultBins
		}
		return aggregate.Histogram(view, c.Field, bins), nil
	case dashboard.KindProportion:
		return aggregate.GroupedProportion(view, c.Group, c.Outcome), nil
	case dashboard.KindConditionalCount:
		return aggregate.ConditionalCount(view, pred, c.Field), nil
	case dashboard.KindBreakdown:
		return aggregate.ConditionalBreakdown(view, pred, c.Primary, c.Secondary), nil
	case dashboard.KindBox:
		return aggregate.GroupedDistribution(view, c.Value, c.Group, c.Secondary), nil
	case dashboard.KindViolin:
		return aggregate.GroupedDistribution(view, c.Value, c.Group, c.Secondary, aggregate.WithDensity()), nil
	case dashboard.KindGroupedBars:
		return aggregate.GroupedHistogram(view, c.Value, c.Color), nil
	case dashboard.KindHeatmap:
		return aggregate.CorrelationMatrix(view, c.Exclude...), nil
	case dashboard.KindScatter:
		return aggregate.Scatter(view, c.X, c.Y, c.Color, c.Trend), nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", core.ErrInvalidChart, c.Kind)
}
