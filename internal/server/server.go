// Package server owns the optional admin HTTP surface.
//
// Ownership boundary:
// - health, status, and metrics routes
// - HTTP lifecycle around one simulator run
//
// The server observes the simulator; it never drives it.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/danmuck/coresim/internal/observability"
	"github.com/danmuck/coresim/internal/sim"
)

// Admin serves run status and metrics next to a live simulator.
type Admin struct {
	addr    string
	sim     *sim.Simulator
	router  *gin.Engine
	started time.Time
}

func New(addr string, simulator *sim.Simulator, corsOrigins []string, logger zerolog.Logger) *Admin {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware())
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	a := &Admin{
		addr:    addr,
		sim:     simulator,
		router:  r,
		started: time.Now(),
	}
	a.registerRoutes()
	return a
}

func (a *Admin) registerRoutes() {
	a.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(a.started).String(),
		})
	})

	a.router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.sim.Stats())
	})

	a.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Router exposes the engine for handler tests.
func (a *Admin) Router() *gin.Engine {
	return a.router
}

// Serve blocks until ctx is canceled, then drains in-flight requests.
func (a *Admin) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.addr,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
