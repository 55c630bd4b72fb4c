package ui

import (
	"context"
	"net"

	"hrpulse/internal/container"
	"hrpulse/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Run loads the table, then serves the dashboard until ctx is canceled.
// A table that cannot be loaded stops startup.
func Run(ctx context.Context, c *container.Container) error {
	cfg := c.Config
	gin.SetMode(cfg.Server.GinMode)

	if cfg.Metrics.Enabled {
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			return err
		}
	}

	if err := c.Warm(ctx); err != nil {
		return err
	}
	c.Logger.Info("Loaded %s", c.Loader.Source())

	srv, err := NewServer(c.Dashboard, ServerOptions{Metrics: cfg.Metrics.Enabled}, c.Logger)
	if err != nil {
		return err
	}
	return srv.Start(ctx, net.JoinHostPort("", cfg.Server.Port))
}
