package ui

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"hrpulse/app"
	"hrpulse/internal"
	"hrpulse/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerOptions toggles optional endpoints
type ServerOptions struct {
	Metrics bool
}

// Server is the HTTP front end: the JSON API on gin, with the HTML app
// mounted for every other route
type Server struct {
	router    *gin.Engine
	dashboard Dashboard
	app       *App
	logger    *internal.Logger
	opts      ServerOptions
}

// NewServer creates the router. Set gin's mode before calling.
func NewServer(dash Dashboard, opts ServerOptions, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	htmlApp, err := NewApp(dash, logger)
	if err != nil {
		return nil, err
	}
	s := &Server{
		router:    gin.New(),
		dashboard: dash,
		app:       htmlApp,
		logger:    logger.With("Server"),
		opts:      opts,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Router exposes the engine, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	if s.opts.Metrics {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := s.router.Group("/api")
	api.GET("/controls", s.handleControls)
	api.GET("/dashboard", s.handleDashboard)
	api.GET("/charts/:id", s.handleChart)

	s.router.NoRoute(gin.WrapH(s.app.Handler()))
}

// Start serves on addr until ctx is canceled, then drains for up to five
// seconds
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting dashboard on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleControls(c *gin.Context) {
	controls, err := s.dashboard.Controls(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, controls)
}

func (s *Server) handleDashboard(c *gin.Context) {
	q := c.Request.URL.Query()
	sel, err := parseSelection(q)
	if err != nil {
		s.abort(c, err)
		return
	}
	criteria := app.DefaultCriteria(sel)
	ids := chartIDs(q)

	parts := []string{criteria.Fingerprint().String()}
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	tag := etag(parts...)
	if etagMatches(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}

	pass, err := s.dashboard.Compute(c.Request.Context(), criteria, ids...)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Header("ETag", tag)
	c.JSON(http.StatusOK, pass)
}

func (s *Server) handleChart(c *gin.Context) {
	id, err := parseChartParam(c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	sel, err := parseSelection(c.Request.URL.Query())
	if err != nil {
		s.abort(c, err)
		return
	}
	criteria := app.DefaultCriteria(sel)
	tag := etag(criteria.Fingerprint().String(), id.String())
	if etagMatches(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}

	pass, err := s.dashboard.Compute(c.Request.Context(), criteria, id)
	if err != nil {
		s.abort(c, err)
		return
	}
	res, _ := pass.Chart(id)
	c.Header("ETag", tag)
	c.JSON(http.StatusOK, gin.H{
		"pass_id":       pass.ID,
		"fingerprint":   pass.Fingerprint,
		"total_rows":    pass.TotalRows,
		"filtered_rows": pass.FilteredRows,
		"warnings":      pass.Warnings,
		"chart":         res,
	})
}

// abort writes an error body with the status mapped from its code. Errors
// without a code are logged and answered with a generic internal error.
func (s *Server) abort(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	if !errors.IsAppError(err) {
		err = errors.InternalError("internal error")
	}
	c.AbortWithStatusJSON(status, gin.H{
		"code":  errors.GetCode(err),
		"error": err.Error(),
	})
}
