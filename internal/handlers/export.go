package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gemtract/core/internal/apperr"
	"github.com/gemtract/core/internal/service"
	"github.com/gemtract/core/internal/storage"
)

// ExportResponse names a stored artifact.
type ExportResponse struct {
	Name string `json:"name"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
}

const requestBodyLimit = 64 << 10

// Network returns the extracted network as JSON.
func (h *Handler) Network(w http.ResponseWriter, r *http.Request) {
	var req service.NetworkRequest
	if err := decodeJSON(w, r, requestBodyLimit, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	network, err := h.svc.BuildNetwork(chi.URLParam(r, "modelID"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, network)
}

// Export renders and stores an artifact, answering with its name.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req service.ExportRequest
	if err := decodeJSON(w, r, requestBodyLimit, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	info, err := h.svc.Export(r.Context(), chi.URLParam(r, "modelID"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, ExportResponse{
		Name: info.Name,
		Mime: info.ContentType,
		Size: info.Size,
	})
}

// Artifact streams a stored artifact with its recorded content type.
func (h *Handler) Artifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	info, rc, err := h.svc.Artifact(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer rc.Close()

	setArtifactHeaders(w, info)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("Error streaming artifact", zap.String("artifact", name), zap.Error(err))
	}
}

// ArtifactHead answers with the headers of an artifact download.
func (h *Handler) ArtifactHead(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.ArtifactInfo(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		w.WriteHeader(apperr.HTTPStatus(err))
		return
	}
	setArtifactHeaders(w, info)
	w.WriteHeader(http.StatusOK)
}

// ListArtifacts returns the stored artifacts, optionally narrowed by ?prefix=.
func (h *Handler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	infos, err := h.svc.Artifacts(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, infos)
}

func (h *Handler) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteArtifact(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func setArtifactHeaders(w http.ResponseWriter, info storage.Info) {
	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name))
	if info.Checksum != "" {
		w.Header().Set("ETag", strconv.Quote(info.Checksum))
	}
}

func badRequest(err error) error {
	return apperr.NewValidationError(err.Error()).WithCause(err)
}
