// Package main starts the HTTP server that registers metabolic models,
// stores their filters and exports the extracted networks.
package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gemtract/core/internal/config"
	"github.com/gemtract/core/internal/handlers"
	"github.com/gemtract/core/internal/metrics"
	"github.com/gemtract/core/internal/service"
	"github.com/gemtract/core/internal/storage"
	"github.com/gemtract/core/internal/testutil"
)

func setupRouter(t *testing.T, collector *metrics.Collector) http.Handler {
	t.Helper()
	cfg := config.Default()

	svc, err := service.New(storage.NewMemory(), cfg.ModelCacheSize, collector, zap.NewNop())
	require.NoError(t, err)

	h := handlers.New(svc, zap.NewNop(), cfg.MaxModelBytes)
	return newRouter(cfg, h, collector, zap.NewNop())
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMainRoutes(t *testing.T) {
	router := setupRouter(t, nil)

	t.Run("health endpoint is accessible", func(t *testing.T) {
		w := do(router, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("metrics are absent when disabled", func(t *testing.T) {
		w := do(router, http.MethodGet, "/metrics", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRoutePaths(t *testing.T) {
	router := setupRouter(t, nil)

	testCases := []struct {
		name           string
		path           string
		method         string
		expectedStatus int
	}{
		{"health with GET", "/health", http.MethodGet, http.StatusOK},
		{"health with POST", "/health", http.MethodPost, http.StatusMethodNotAllowed},
		{"models with empty POST", "/api/models", http.MethodPost, http.StatusBadRequest},
		{"models with GET", "/api/models", http.MethodGet, http.StatusMethodNotAllowed},
		{"export with GET", "/api/models/x/export", http.MethodGet, http.StatusMethodNotAllowed},
		{"unknown model", "/api/models/x", http.MethodGet, http.StatusNotFound},
		{"unknown path", "/unknown", http.MethodGet, http.StatusNotFound},
		{"root path", "/", http.MethodGet, http.StatusNotFound},
		{"health with trailing slash", "/health/", http.MethodGet, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(router, tc.method, tc.path, "")

			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestExportWorkflow(t *testing.T) {
	collector := metrics.NewCollector("gemtract")
	router := setupRouter(t, collector)

	w := do(router, http.MethodPost, "/api/models", string(testutil.GeneFilterModelJSON(t)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var summary service.ModelSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))

	base := "/api/models/" + summary.ModelID

	w = do(router, http.MethodPost, base+"/filter", `{"enzymes": ["b"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(router, http.MethodPost, base+"/export",
		`{"network_type": "en", "network_format": "dot", "removing_enzyme_removes_complex": true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var artifact handlers.ExportResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&artifact))

	w = do(router, http.MethodGet, "/api/artifacts/"+artifact.Name, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 9, strings.Count(w.Body.String(), "label="))

	t.Run("metrics expose the export", func(t *testing.T) {
		w := do(router, http.MethodGet, "/metrics", "")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `gemtract_exports_total{format="dot",network_type="en",status="success"} 1`)
		assert.Contains(t, body, "gemtract_models_registered 1")
		assert.Contains(t, body, `route="/api/models/{modelID}/export"`)
	})
}

func TestCorsPreflight(t *testing.T) {
	router := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/models", bytes.NewReader(nil))
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestConcurrentRequests(t *testing.T) {
	router := setupRouter(t, nil)

	numRequests := 50
	results := make(chan int, numRequests)

	for i := 0; i < numRequests; i++ {
		go func() {
			w := do(router, http.MethodGet, "/health", "")
			results <- w.Code
		}()
	}

	for i := 0; i < numRequests; i++ {
		assert.Equal(t, http.StatusOK, <-results)
	}
}
