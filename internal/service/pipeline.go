package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gemtract/core/internal/apperr"
	"github.com/gemtract/core/internal/export"
	"github.com/gemtract/core/internal/models"
	"github.com/gemtract/core/internal/parser"
	"github.com/gemtract/core/internal/storage"
)

// FilterResult describes a stored filter and its effect on the model.
type FilterResult struct {
	Filter      models.FilterSummary     `json:"filter"`
	Consistency parser.ConsistencyReport `json:"consistency"`
	Current     models.Counts            `json:"current"` // direct removals only
}

// EvaluateFilter stores filter for the model and reports which kept elements
// it leaves inconsistent.
func (s *Service) EvaluateFilter(modelID string, filter models.Filter) (FilterResult, error) {
	e, err := s.lookup(modelID)
	if err != nil {
		return FilterResult{}, err
	}
	filter = filter.Normalize()
	e.setFilter(filter)

	report := parser.CheckConsistency(e.model, filter)
	s.logger.Info("Filter stored",
		zap.String("model_id", modelID),
		zap.Int("species", filter.Species.Len()),
		zap.Int("reactions", filter.Reactions.Len()),
		zap.Int("enzymes", filter.Enzymes.Len()),
		zap.Int("enzyme_complexes", filter.EnzymeComplexes.Len()),
		zap.Int("inconsistencies", report.Total()),
	)
	return FilterResult{
		Filter:      filter.Summary(),
		Consistency: report,
		Current:     remaining(e.model, filter),
	}, nil
}

// Filter returns the filter last stored for the model.
func (s *Service) Filter(modelID string) (models.Filter, error) {
	e, err := s.lookup(modelID)
	if err != nil {
		return models.Filter{}, err
	}
	return e.currentFilter(), nil
}

// remaining counts the entities the filter does not exclude directly.
// Complexes removed only through a removed member are still counted; they
// show up in the consistency report instead.
func remaining(model *models.Model, filter models.Filter) models.Counts {
	var c models.Counts
	for _, sp := range model.Species {
		if !filter.Species.Has(sp.ID) {
			c.Species++
		}
	}
	for _, r := range model.Reactions {
		if !filter.Reactions.Has(r.ID) {
			c.Reactions++
		}
	}
	for _, en := range model.Enzymes {
		if !filter.Enzymes.Has(en.ID) {
			c.Enzymes++
		}
	}
	for _, cx := range model.Complexes {
		if !filter.EnzymeComplexes.Has(cx.ID) {
			c.EnzymeComplexes++
		}
	}
	return c
}

// BuildNetwork extracts the requested view of a registered model.
func (s *Service) BuildNetwork(modelID string, req NetworkRequest) (*models.Network, error) {
	req.normalize()
	if err := s.check(&req); err != nil {
		return nil, err
	}
	return s.buildNetwork(modelID, req)
}

func (s *Service) buildNetwork(modelID string, req NetworkRequest) (*models.Network, error) {
	e, err := s.lookup(modelID)
	if err != nil {
		return nil, err
	}
	kind, err := models.ParseNetworkKind(req.NetworkType)
	if err != nil {
		return nil, apperr.NewUnsupportedNetworkTypeError(req.NetworkType)
	}

	network, err := parser.BuildNetwork(e.model, networkFilter(e.currentFilter(), req, kind), kind)
	if err != nil {
		return nil, err
	}
	s.logDiagnostics(modelID, network)
	return network, nil
}

func (s *Service) logDiagnostics(modelID string, network *models.Network) {
	for _, d := range network.Diagnostics {
		fields := []zap.Field{
			zap.String("model_id", modelID),
			zap.String("kind", string(d.Kind)),
			zap.String("entity", d.Entity),
			zap.String("id", d.ID),
			zap.String("detail", d.Detail),
		}
		if d.Kind == models.DiagnosticUnknownIdentifier {
			s.logger.Debug("Filter references unknown identifier", fields...)
		} else {
			s.logger.Warn("Skipped malformed model element", fields...)
		}
		if s.metrics != nil {
			s.metrics.AddDiagnostic(string(d.Kind))
		}
	}
}

// Export extracts a network, renders it and stores the artifact. Nothing is
// stored when any step fails.
func (s *Service) Export(ctx context.Context, modelID string, req ExportRequest) (storage.Info, error) {
	req.normalize()
	if err := s.check(&req); err != nil {
		return storage.Info{}, err
	}

	start := time.Now()
	info, err := s.export(ctx, modelID, req)
	if s.metrics != nil {
		s.metrics.ObserveExport(req.NetworkType, req.NetworkFormat, err, time.Since(start), int(info.Size))
	}
	if err != nil {
		s.logger.Warn("Export failed",
			zap.String("model_id", modelID),
			zap.String("network_type", req.NetworkType),
			zap.String("format", req.NetworkFormat),
			zap.Error(err),
		)
		return storage.Info{}, err
	}

	s.logger.Info("Network exported",
		zap.String("model_id", modelID),
		zap.String("artifact", info.Name),
		zap.Int64("size", info.Size),
		zap.Duration("duration", time.Since(start)),
	)
	return info, nil
}

func (s *Service) export(ctx context.Context, modelID string, req ExportRequest) (storage.Info, error) {
	format, err := export.ParseFormat(req.NetworkFormat)
	if err != nil {
		return storage.Info{}, err
	}
	network, err := s.buildNetwork(modelID, req.NetworkRequest)
	if err != nil {
		return storage.Info{}, err
	}
	data, err := export.Render(network, format)
	if err != nil {
		return storage.Info{}, err
	}

	name := uuid.NewString() + format.FileExtension()
	info, err := s.store.Put(ctx, name, bytes.NewReader(data), format.MimeType())
	if err != nil {
		return storage.Info{}, apperr.Wrap(err, "store artifact")
	}
	return info, nil
}

// Artifact opens a stored artifact. The caller closes the reader.
func (s *Service) Artifact(ctx context.Context, name string) (storage.Info, io.ReadCloser, error) {
	info, rc, err := s.store.Get(ctx, name)
	if err != nil {
		return storage.Info{}, nil, artifactError(name, err, "read artifact")
	}
	return info, rc, nil
}

// ArtifactInfo returns the metadata of a stored artifact without its content.
func (s *Service) ArtifactInfo(ctx context.Context, name string) (storage.Info, error) {
	info, err := s.store.Head(ctx, name)
	if err != nil {
		return storage.Info{}, artifactError(name, err, "stat artifact")
	}
	return info, nil
}

// Artifacts lists stored artifacts whose names start with prefix.
func (s *Service) Artifacts(ctx context.Context, prefix string) ([]storage.Info, error) {
	infos, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, apperr.Wrap(err, "list artifacts")
	}
	if infos == nil {
		infos = []storage.Info{}
	}
	return infos, nil
}

// DeleteArtifact removes a stored artifact.
func (s *Service) DeleteArtifact(ctx context.Context, name string) error {
	deleted, err := s.store.Delete(ctx, name)
	if err == nil && !deleted {
		err = storage.ErrNotFound
	}
	if err != nil {
		return artifactError(name, err, "delete artifact")
	}
	s.logger.Info("Artifact deleted", zap.String("artifact", name))
	return nil
}

func artifactError(name string, err error, action string) error {
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
		return apperr.NewNotFoundError("artifact").WithDetails(map[string]any{"name": name})
	}
	return apperr.Wrap(err, action)
}
