package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("collectors are independent", func(t *testing.T) {
		a := NewCollector("gemtract")
		b := NewCollector("gemtract")

		a.SetModels(3)

		assert.Equal(t, 3.0, testutil.ToFloat64(a.ModelsRegistered))
		assert.Equal(t, 0.0, testutil.ToFloat64(b.ModelsRegistered))
	})

	t.Run("export outcomes", func(t *testing.T) {
		c := NewCollector("gemtract")

		c.ObserveExport("en", "dot", nil, 10*time.Millisecond, 512)
		c.ObserveExport("en", "dot", nil, 10*time.Millisecond, 512)
		c.ObserveExport("mn", "sbml", errors.New("boom"), time.Millisecond, 0)

		assert.Equal(t, 2.0, testutil.ToFloat64(c.Exports.WithLabelValues("en", "dot", "success")))
		assert.Equal(t, 1.0, testutil.ToFloat64(c.Exports.WithLabelValues("mn", "sbml", "error")))
		assert.Equal(t, 1, testutil.CollectAndCount(c.ArtifactBytes))
	})

	t.Run("http requests", func(t *testing.T) {
		c := NewCollector("gemtract")

		c.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

		assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/health", "200")))
	})

	t.Run("diagnostics", func(t *testing.T) {
		c := NewCollector("gemtract")

		c.AddDiagnostic("unknown_identifier")

		assert.Equal(t, 1.0, testutil.ToFloat64(c.Diagnostics.WithLabelValues("unknown_identifier")))
	})
}

func TestHandler(t *testing.T) {
	c := NewCollector("gemtract")
	c.SetModels(1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gemtract_models_registered 1")
}
