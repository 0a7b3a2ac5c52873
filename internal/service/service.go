// Package service orchestrates the export pipeline: it keeps uploaded models,
// remembers the filter chosen for each, extracts networks and stores the
// rendered artifacts.
package service

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/gemtract/core/internal/apperr"
	"github.com/gemtract/core/internal/metrics"
	"github.com/gemtract/core/internal/models"
	"github.com/gemtract/core/internal/parser"
	"github.com/gemtract/core/internal/storage"
)

// entry is one registered model and the filter last stored for it.
type entry struct {
	model *models.Model

	mu     sync.RWMutex
	filter models.Filter
}

func (e *entry) currentFilter() models.Filter {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.filter
}

func (e *entry) setFilter(f models.Filter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = f
}

type Service struct {
	registry *lru.Cache[string, *entry]
	store    storage.Store
	metrics  *metrics.Collector
	validate *validator.Validate
	logger   *zap.Logger
}

// New creates a service holding at most cacheSize models; the least recently
// used model is dropped when the registry is full. collector may be nil.
func New(store storage.Store, cacheSize int, collector *metrics.Collector, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:    store,
		metrics:  collector,
		validate: newValidator(),
		logger:   logger,
	}
	registry, err := lru.NewWithEvict(cacheSize, func(id string, _ *entry) {
		s.logger.Debug("Model evicted from registry", zap.String("model_id", id))
	})
	if err != nil {
		return nil, fmt.Errorf("create model registry: %w", err)
	}
	s.registry = registry
	return s, nil
}

// ModelSummary identifies a registered model and its size.
type ModelSummary struct {
	ModelID string `json:"model_id"`
	Name    string `json:"name,omitempty"`
	models.Counts
}

// RegisterModel parses a model document and keeps it under a fresh id.
func (s *Service) RegisterModel(data []byte) (ModelSummary, error) {
	model, err := parser.ParseModel(data)
	if err != nil {
		return ModelSummary{}, err
	}

	id := uuid.NewString()
	s.registry.Add(id, &entry{model: model, filter: models.NewFilter()})
	s.recordModels()

	counts := model.Counts()
	s.logger.Info("Model registered",
		zap.String("model_id", id),
		zap.String("model", model.ID),
		zap.Int("species", counts.Species),
		zap.Int("reactions", counts.Reactions),
		zap.Int("enzymes", counts.Enzymes),
		zap.Int("enzyme_complexes", counts.EnzymeComplexes),
	)
	return ModelSummary{ModelID: id, Name: model.Name, Counts: counts}, nil
}

func (s *Service) Summary(modelID string) (ModelSummary, error) {
	e, err := s.lookup(modelID)
	if err != nil {
		return ModelSummary{}, err
	}
	return ModelSummary{ModelID: modelID, Name: e.model.Name, Counts: e.model.Counts()}, nil
}

// Model returns the registered model. Callers must treat it as read-only.
func (s *Service) Model(modelID string) (*models.Model, error) {
	e, err := s.lookup(modelID)
	if err != nil {
		return nil, err
	}
	return e.model, nil
}

// RemoveModel drops a model from the registry.
func (s *Service) RemoveModel(modelID string) bool {
	removed := s.registry.Remove(modelID)
	s.recordModels()
	return removed
}

// ModelCount reports how many models the registry currently holds.
func (s *Service) ModelCount() int {
	return s.registry.Len()
}

// StoreDriver names the backend artifacts are kept in.
func (s *Service) StoreDriver() storage.Driver {
	return s.store.Driver()
}

func (s *Service) lookup(modelID string) (*entry, error) {
	e, ok := s.registry.Get(modelID)
	if !ok {
		return nil, apperr.NewNotFoundError("model").WithDetails(map[string]any{"model_id": modelID})
	}
	return e, nil
}

func (s *Service) recordModels() {
	if s.metrics != nil {
		s.metrics.SetModels(s.registry.Len())
	}
}
