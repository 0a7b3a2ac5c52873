// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/gemtract/core/internal/apperr"
)

type ErrorResponse struct {
	Error *apperr.AppError `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// writeError reports err as a JSON error body. Errors outside the apperr
// taxonomy are logged and hidden behind a generic internal error.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.GetAppError(err)
	if appErr == nil {
		appErr = apperr.NewInternalError("internal server error")
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	if encErr := writeJSON(w, r, apperr.HTTPStatus(appErr), ErrorResponse{Error: appErr}); encErr != nil {
		h.logger.Warn("Error encoding response", zap.Error(encErr))
	}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, r, status, v); err != nil {
		h.logger.Warn("Error encoding response", zap.Error(err))
	}
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &apperr.AppError{
				Type:       apperr.ErrorTypeValidation,
				Message:    "request body too large",
				Details:    map[string]any{"limit": tooLarge.Limit},
				HTTPStatus: http.StatusRequestEntityTooLarge,
			}
		}
		return nil, apperr.NewValidationError("failed to read body").WithCause(err)
	}
	if len(body) == 0 {
		return nil, apperr.NewValidationError("request body is empty")
	}
	return body, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	body, err := readBody(w, r, limit)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperr.NewValidationError("invalid JSON: " + err.Error())
	}
	return nil
}
