package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hrpulse/app"
	"hrpulse/domain/core"
	"hrpulse/domain/dashboard"
	"hrpulse/domain/filter"
	"hrpulse/internal"
	"hrpulse/internal/errors"
	"hrpulse/ui/services"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// Dashboard is what the HTTP layer needs from the dashboard service
type Dashboard interface {
	Definition() *dashboard.Definition
	Controls(ctx context.Context) (*app.Controls, error)
	Compute(ctx context.Context, criteria filter.Criteria, only ...core.ChartID) (*app.Pass, error)
}

// App serves the HTML dashboard and its chart images
type App struct {
	router    *chi.Mux
	dashboard Dashboard
	render    *services.RenderService
	charts    *services.ChartService
	logger    *internal.Logger
}

// NewApp parses the embedded templates and wires the routes
func NewApp(dash Dashboard, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	funcMap := template.FuncMap{
		"markdown": services.Markdown,
		"inc":      func(i int) int { return i + 1 },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		dashboard: dash,
		render:    services.NewRenderService(templates, logger),
		charts:    services.NewChartService(logger),
		logger:    logger.With("App"),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// Handler exposes the router for mounting
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		a.logger.Error("Error creating static filesystem: %v", err)
	} else {
		a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	a.router.Get("/", a.handleIndex)
	a.router.Get("/charts/{id}.svg", a.handleChartSVG)
}

type option struct {
	Value   string
	Checked bool
}

type chartView struct {
	ID       core.ChartID
	Title    string
	Caption  template.HTML
	ImageURL string
}

type tabView struct {
	Name   string
	Charts []chartView
}

type indexPage struct {
	Title        string
	Intro        template.HTML
	Footer       template.HTML
	Departments  []option
	Genders      []option
	AgeMin       string
	AgeMax       string
	TotalRows    int
	FilteredRows int
	Empty        bool
	Tabs         []tabView
	Error        string
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	def := a.dashboard.Definition()
	page := indexPage{
		Title:  def.Title,
		Intro:  services.Markdown(def.Intro),
		Footer: services.Markdown(def.Footer),
	}
	status := http.StatusOK

	q := r.URL.Query()
	sel, err := parseSelection(q)
	if err == nil {
		err = a.fillPage(r.Context(), &page, sel, filterQuery(q))
	}
	if err != nil {
		status = errors.HTTPStatus(err)
		page.Error = err.Error()
		a.logger.Warn("Dashboard page failed: %v", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(a.render.RenderPage("dashboard.html", page)))
}

func (a *App) fillPage(ctx context.Context, page *indexPage, sel app.Selection, query string) error {
	controls, err := a.dashboard.Controls(ctx)
	if err != nil {
		return err
	}
	pass, err := a.dashboard.Compute(ctx, app.DefaultCriteria(sel))
	if err != nil {
		return err
	}

	page.Departments = options(controls.Departments, sel.Departments)
	page.Genders = options(controls.Genders, sel.Genders)
	page.AgeMin = formatBound(sel.AgeMin, controls.AgeMin)
	page.AgeMax = formatBound(sel.AgeMax, controls.AgeMax)
	page.TotalRows = pass.TotalRows
	page.FilteredRows = pass.FilteredRows
	page.Empty = pass.Empty()

	for _, tab := range pass.Tabs {
		tv := tabView{Name: tab.Name}
		for _, res := range tab.Charts {
			src := "/charts/" + res.Chart.ID.String() + ".svg"
			if query != "" {
				src += "?" + query
			}
			tv.Charts = append(tv.Charts, chartView{
				ID:       res.Chart.ID,
				Title:    res.Chart.Title,
				Caption:  services.Markdown(res.Chart.Caption),
				ImageURL: src,
			})
		}
		page.Tabs = append(page.Tabs, tv)
	}
	return nil
}

// options marks every level checked when the control was left untouched
func options(levels, selected []string) []option {
	out := make([]option, len(levels))
	for i, level := range levels {
		checked := selected == nil
		for _, s := range selected {
			if s == level {
				checked = true
				break
			}
		}
		out[i] = option{Value: level, Checked: checked}
	}
	return out
}

func formatBound(v *float64, fallback float64) string {
	if v != nil {
		return fmt.Sprintf("%g", *v)
	}
	return fmt.Sprintf("%g", fallback)
}

func (a *App) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	id := core.ChartID(strings.TrimSpace(chi.URLParam(r, "id")))

	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), errors.HTTPStatus(err))
		return
	}
	criteria := app.DefaultCriteria(sel)
	tag := etag(criteria.Fingerprint().String(), id.String())
	if etagMatches(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	pass, err := a.dashboard.Compute(r.Context(), criteria, id)
	if err != nil {
		http.Error(w, err.Error(), errors.HTTPStatus(err))
		return
	}
	res, ok := pass.Chart(id)
	if !ok {
		http.Error(w, "chart not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("ETag", tag)
	// mounted under gin's NoRoute, which presets 404
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.charts.SVG(res))
}
