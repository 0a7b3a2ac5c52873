// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	h, _ := newTestServer(t)

	t.Run("returns 200 OK for GET request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		h.Health(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("returns valid JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		h.Health(w, req)

		var response HealthResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "gemtract-api", response.Service)
		assert.NotEmpty(t, response.Uptime)
		_, err = time.Parse(time.RFC3339, response.Timestamp)
		assert.NoError(t, err, "Timestamp should be valid RFC3339 format")
	})

	t.Run("includes runtime and registry details", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		h.Health(w, req)

		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, runtime.Version(), response.Details["go_version"])
		assert.NotEmpty(t, response.Details["num_cpu"])
		assert.Equal(t, "0", response.Details["models"])
		assert.Equal(t, "memory", response.Details["artifact_store"])
	})

	t.Run("counts registered models", func(t *testing.T) {
		registerFixture(t, h)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		h.Health(w, req)

		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "1", response.Details["models"])
	})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead} {
		t.Run("returns 405 for "+method+" request", func(t *testing.T) {
			req := httptest.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			h.Health(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		})
	}

	t.Run("handles multiple concurrent requests", func(t *testing.T) {
		numRequests := 10
		results := make(chan int, numRequests)

		for i := 0; i < numRequests; i++ {
			go func() {
				req := httptest.NewRequest(http.MethodGet, "/health", nil)
				w := httptest.NewRecorder()
				h.Health(w, req)
				results <- w.Code
			}()
		}

		for i := 0; i < numRequests; i++ {
			code := <-results
			assert.Equal(t, http.StatusOK, code)
		}
	})
}

func TestHealthResponse_JSONMarshaling(t *testing.T) {
	t.Run("omitempty fields are omitted when empty", func(t *testing.T) {
		response := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Service:   serviceName,
		}

		data, err := json.Marshal(response)
		require.NoError(t, err)

		jsonString := string(data)
		assert.NotContains(t, jsonString, "uptime")
		assert.NotContains(t, jsonString, "details")
	})
}

func TestStartTime(t *testing.T) {
	assert.False(t, startTime.IsZero())
	assert.True(t, startTime.Before(time.Now()))
}
