package http

import (
	"net/http"

	"trace-analytics/internal/shared/loggers"
	"trace-analytics/internal/shared/metrics"
	"trace-analytics/internal/stores"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router for the read-only
// results API.
func NewRouter(resultStore stores.ResultStore, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	getRunHandler := NewGetRunHandler(resultStore)

	// Routes
	router.Get("/runs/{runID}", errorHandlingAdapter(getRunHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
