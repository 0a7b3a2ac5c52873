package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gemtract/core/cmd/api/middleware"
	"github.com/gemtract/core/internal/config"
	"github.com/gemtract/core/internal/handlers"
	"github.com/gemtract/core/internal/metrics"
)

// newRouter wires the global middleware, the health and metrics endpoints
// and the API routes. collector may be nil.
func newRouter(cfg *config.Config, h *handlers.Handler, collector *metrics.Collector, logger *zap.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(logger, collector))
	router.Use(middleware.Cors(cfg.AllowedOrigins))

	router.HandleFunc("/health", h.Health)
	if collector != nil {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}
	h.Mount(router)

	return router
}
