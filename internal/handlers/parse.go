// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gemtract/core/internal/apperr"
	"github.com/gemtract/core/internal/models"
	"github.com/gemtract/core/internal/parser"
	"github.com/gemtract/core/internal/service"
)

const filterBodyLimit = 4 << 20

// Handler serves the model, filter, network and artifact endpoints.
type Handler struct {
	svc           *service.Service
	logger        *zap.Logger
	maxModelBytes int64
}

func New(svc *service.Service, logger *zap.Logger, maxModelBytes int64) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger, maxModelBytes: maxModelBytes}
}

// Mount registers the API routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/models", h.ParseModel)
		r.Route("/models/{modelID}", func(r chi.Router) {
			r.Get("/", h.GetModel)
			r.Delete("/", h.DeleteModel)
			r.Get("/filter", h.GetFilter)
			r.Post("/filter", h.StoreFilter)
			r.Post("/network", h.Network)
			r.Post("/export", h.Export)
		})
		r.Get("/artifacts", h.ListArtifacts)
		r.Get("/artifacts/{name}", h.Artifact)
		r.Head("/artifacts/{name}", h.ArtifactHead)
		r.Delete("/artifacts/{name}", h.DeleteArtifact)
	})
}

// ParseModel registers the model document in the request body.
func (h *Handler) ParseModel(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, h.maxModelBytes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary, err := h.svc.RegisterModel(body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, summary)
}

func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(chi.URLParam(r, "modelID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, summary)
}

func (h *Handler) DeleteModel(w http.ResponseWriter, r *http.Request) {
	if !h.svc.RemoveModel(chi.URLParam(r, "modelID")) {
		h.writeError(w, r, apperr.NewNotFoundError("model"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StoreFilter replaces the model's filter. The body is JSON by default, YAML
// for YAML content types and the line based batch syntax for text/plain.
func (h *Handler) StoreFilter(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "modelID")

	body, err := readBody(w, r, filterBodyLimit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	filter, err := decodeFilter(r.Header.Get("Content-Type"), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.svc.EvaluateFilter(modelID, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

// GetFilter returns the stored filter summary, or the batch syntax when the
// client accepts text/plain.
func (h *Handler) GetFilter(w http.ResponseWriter, r *http.Request) {
	filter, err := h.svc.Filter(chi.URLParam(r, "modelID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if acceptsText(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, parser.FormatFilterBatch(filter)); err != nil {
			h.logger.Warn("Error writing filter", zap.Error(err))
		}
		return
	}
	h.respond(w, r, http.StatusOK, filter.Summary())
}

func acceptsText(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		if mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part)); err == nil && mediaType == "text/plain" {
			return true
		}
	}
	return false
}

func decodeFilter(contentType string, body []byte) (models.Filter, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)

	var (
		filter models.Filter
		err    error
	)
	switch mediaType {
	case "text/plain":
		return parser.ParseFilterBatch(string(body)), nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		filter, err = parser.ParseFilterYAML(body)
	default:
		filter, err = parser.ParseFilterJSON(body)
	}
	if err != nil {
		return models.Filter{}, badRequest(err)
	}
	return filter, nil
}
