package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gemtract/core/internal/metrics"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	collector := metrics.NewCollector("test")

	r := chi.NewRouter()
	r.Use(Logger(zap.New(core), collector))
	r.Get("/api/models/{modelID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/silent", func(w http.ResponseWriter, r *http.Request) {})

	t.Run("logs status and path", func(t *testing.T) {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/models/abc", nil))

		entries := logs.FilterMessage("HTTP Request").All()
		if assert.Len(t, entries, 1) {
			fields := entries[0].ContextMap()
			assert.Equal(t, int64(http.StatusTeapot), fields["status"])
			assert.Equal(t, "/api/models/abc", fields["path"])
		}
	})

	t.Run("records route pattern", func(t *testing.T) {
		count := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues(http.MethodGet, "/api/models/{modelID}", "418"))
		assert.Equal(t, 1.0, count)
	})

	t.Run("implicit status is 200", func(t *testing.T) {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/silent", nil))

		count := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues(http.MethodGet, "/silent", "200"))
		assert.Equal(t, 1.0, count)
	})
}
