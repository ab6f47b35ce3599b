package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"company-directory/internal/middleware"
)

// RouterConfig carries the optional pieces of the router.
type RouterConfig struct {
	Logger   *zap.Logger
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer
	Limiter  *rate.Limiter
	Timeout  time.Duration
}

// NewRouter wires the data-source server routes.
func NewRouter(h *Handler, health *HealthHandler, cfg RouterConfig) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Timeout))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Instrument)
	}

	// Health check endpoints
	r.Get("/health/live", health.Live)
	r.Get("/health/ready", health.Ready)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Static dataset
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.Limiter))
		r.Get("/companies.json", h.Companies)
	})

	return r
}
