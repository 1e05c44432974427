package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/drill-recommendation-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the HTTP server beyond its address.
type Options struct {
	// RateLimit caps API requests per second across all clients. Zero
	// disables limiting. Ops routes are never limited.
	RateLimit      int
	AllowedOrigins []string
	Metrics        *observability.Metrics
}

// Server exposes the drill API alongside health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and,
// when api is non-nil, the /api/v1 routes.
func NewServer(addr string, api *API, ready sharedobs.ReadinessChecker, logger *slog.Logger, opts Options) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", gin.WrapF(sharedobs.LivenessHandler()))
	router.GET("/readyz", gin.WrapF(sharedobs.ReadinessHandler(ready)))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if api != nil {
		group := router.Group("/api/v1")
		if len(opts.AllowedOrigins) > 0 {
			group.Use(cors.New(cors.Config{
				AllowOrigins:  opts.AllowedOrigins,
				AllowMethods:  []string{"GET", "POST", "OPTIONS"},
				AllowHeaders:  []string{"Origin", "Content-Type"},
				ExposeHeaders: []string{"Content-Length"},
			}))
		}
		if opts.Metrics != nil {
			group.Use(MetricsMiddleware(opts.Metrics))
		}
		if opts.RateLimit > 0 {
			group.Use(RateLimitMiddleware(opts.RateLimit))
		}
		api.RegisterRoutes(group)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// AllReady reports ready only when every checker does.
func AllReady(checkers ...sharedobs.ReadinessChecker) sharedobs.ReadinessChecker {
	return readyAll(checkers)
}

type readyAll []sharedobs.ReadinessChecker

func (r readyAll) CheckReadiness(ctx context.Context) error {
	var errs []error
	for _, c := range r {
		if err := c.CheckReadiness(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
