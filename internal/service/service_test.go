package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gemtract/core/internal/apperr"
	"github.com/gemtract/core/internal/metrics"
	"github.com/gemtract/core/internal/models"
	"github.com/gemtract/core/internal/parser"
	"github.com/gemtract/core/internal/storage"
	fixtures "github.com/gemtract/core/internal/testutil"
)

type harness struct {
	svc     *Service
	store   *storage.Memory
	metrics *metrics.Collector
}

func newHarness(t *testing.T, cacheSize int) harness {
	t.Helper()
	store := storage.NewMemory()
	collector := metrics.NewCollector("gemtract")
	svc, err := New(store, cacheSize, collector, zap.NewNop())
	require.NoError(t, err)
	return harness{svc: svc, store: store, metrics: collector}
}

func (h harness) register(t *testing.T) string {
	t.Helper()
	summary, err := h.svc.RegisterModel(fixtures.GeneFilterModelJSON(t))
	require.NoError(t, err)
	return summary.ModelID
}

func (h harness) artifact(t *testing.T, name string) string {
	t.Helper()
	_, rc, err := h.svc.Artifact(context.Background(), name)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestNew(t *testing.T) {
	_, err := New(storage.NewMemory(), 0, nil, nil)
	assert.Error(t, err)
}

func TestRegisterModel(t *testing.T) {
	t.Run("valid model", func(t *testing.T) {
		h := newHarness(t, 4)

		summary, err := h.svc.RegisterModel(fixtures.GeneFilterModelJSON(t))

		require.NoError(t, err)
		assert.NotEmpty(t, summary.ModelID)
		assert.Equal(t, "gene filter example", summary.Name)
		assert.Equal(t, models.Counts{Species: 6, Reactions: 8, Enzymes: 10, EnzymeComplexes: 3}, summary.Counts)
		assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.ModelsRegistered))
	})

	t.Run("malformed model", func(t *testing.T) {
		h := newHarness(t, 4)

		_, err := h.svc.RegisterModel([]byte(`{"species": [`))

		assert.True(t, apperr.IsType(err, apperr.ErrorTypeMalformedModel))
	})

	t.Run("least recently used model is evicted", func(t *testing.T) {
		h := newHarness(t, 1)
		first := h.register(t)
		second := h.register(t)

		_, err := h.svc.Model(first)
		assert.True(t, apperr.IsNotFound(err))
		_, err = h.svc.Model(second)
		assert.NoError(t, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.ModelsRegistered))
	})
}

func TestSummaryAndRemove(t *testing.T) {
	h := newHarness(t, 4)
	id := h.register(t)

	summary, err := h.svc.Summary(id)
	require.NoError(t, err)
	assert.Equal(t, id, summary.ModelID)

	assert.True(t, h.svc.RemoveModel(id))
	_, err = h.svc.Summary(id)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.ModelsRegistered))
}

func TestEvaluateFilter(t *testing.T) {
	h := newHarness(t, 4)
	id := h.register(t)

	f := models.NewFilter()
	f.Enzymes.Add("b")
	result, err := h.svc.EvaluateFilter(id, f)

	require.NoError(t, err)
	assert.Empty(t, result.Filter.FilterSpecies)
	assert.Empty(t, result.Filter.FilterReactions)
	assert.Equal(t, []string{"b"}, result.Filter.FilterEnzymes)
	assert.Empty(t, result.Filter.FilterEnzymeComplexes)
	assert.Len(t, result.Consistency.EnzymeComplexes, 3)
	assert.Equal(t, models.Counts{Species: 6, Reactions: 8, Enzymes: 9, EnzymeComplexes: 3}, result.Current)

	stored, err := h.svc.Filter(id)
	require.NoError(t, err)
	assert.True(t, stored.Enzymes.Has("b"))

	_, err = h.svc.EvaluateFilter("missing", f)
	assert.True(t, apperr.IsNotFound(err))
}

func TestBuildNetwork(t *testing.T) {
	h := newHarness(t, 4)
	id := h.register(t)

	t.Run("metabolic view", func(t *testing.T) {
		network, err := h.svc.BuildNetwork(id, NetworkRequest{NetworkType: "mn"})

		require.NoError(t, err)
		assert.Equal(t, models.MetabolicNetwork, network.Kind)
		assert.Equal(t, 14, network.Stats.TotalNodes)
		assert.Equal(t, 16, network.Stats.TotalEdges)
	})

	t.Run("unknown filter ids are reported", func(t *testing.T) {
		f := models.NewFilter()
		f.Species.Add("nope")
		_, err := h.svc.EvaluateFilter(id, f)
		require.NoError(t, err)

		network, err := h.svc.BuildNetwork(id, NetworkRequest{NetworkType: " MN "})

		require.NoError(t, err)
		require.Len(t, network.Diagnostics, 1)
		assert.Equal(t, models.DiagnosticUnknownIdentifier, network.Diagnostics[0].Kind)
		assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Diagnostics.WithLabelValues("unknown_identifier")))
	})

	t.Run("invalid requests", func(t *testing.T) {
		_, err := h.svc.BuildNetwork(id, NetworkRequest{NetworkType: "xx"})
		assert.True(t, apperr.IsType(err, apperr.ErrorTypeUnsupportedNetworkType))

		_, err = h.svc.BuildNetwork(id, NetworkRequest{})
		assert.True(t, apperr.IsValidation(err))

		_, err = h.svc.BuildNetwork("missing", NetworkRequest{NetworkType: "en"})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	t.Run("enzyme view follows stored filter and request policy", func(t *testing.T) {
		h := newHarness(t, 4)
		id := h.register(t)
		f := models.NewFilter()
		f.Enzymes.Add("b")
		_, err := h.svc.EvaluateFilter(id, f)
		require.NoError(t, err)

		req := ExportRequest{NetworkRequest: NetworkRequest{NetworkType: "en"}, NetworkFormat: "dot"}
		stored, err := h.svc.Export(ctx, id, req)
		require.NoError(t, err)
		assert.Equal(t, 9, strings.Count(h.artifact(t, stored.Name), "label="), "stored filter removes complexes")

		req.RemovingEnzymeRemovesComplex = boolPtr(false)
		kept, err := h.svc.Export(ctx, id, req)
		require.NoError(t, err)
		assert.Equal(t, "text/plain", kept.ContentType)
		assert.True(t, strings.HasSuffix(kept.Name, ".dot"))
		assert.Equal(t, 12, strings.Count(h.artifact(t, kept.Name), "label="))

		req.RemovingEnzymeRemovesComplex = boolPtr(true)
		cascaded, err := h.svc.Export(ctx, id, req)
		require.NoError(t, err)
		assert.NotEqual(t, kept.Name, cascaded.Name)
		assert.Equal(t, 9, strings.Count(h.artifact(t, cascaded.Name), "label="))

		assert.Equal(t, 3.0, testutil.ToFloat64(h.metrics.Exports.WithLabelValues("en", "dot", "success")))
	})

	t.Run("every format", func(t *testing.T) {
		h := newHarness(t, 4)
		id := h.register(t)

		for _, format := range []string{"sbml", "graphml", "gml", "dot"} {
			info, err := h.svc.Export(ctx, id, ExportRequest{
				NetworkRequest: NetworkRequest{NetworkType: "mn"},
				NetworkFormat:  strings.ToUpper(format),
			})
			require.NoError(t, err, format)
			assert.Greater(t, info.Size, int64(0))
		}

		stored, err := h.store.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, stored, 4)
	})

	t.Run("failures store nothing", func(t *testing.T) {
		h := newHarness(t, 4)
		id := h.register(t)

		_, err := h.svc.Export(ctx, id, ExportRequest{NetworkRequest: NetworkRequest{NetworkType: "mn"}, NetworkFormat: "png"})
		assert.True(t, apperr.IsType(err, apperr.ErrorTypeUnsupportedFormat))

		_, err = h.svc.Export(ctx, id, ExportRequest{NetworkRequest: NetworkRequest{NetworkType: "xx"}, NetworkFormat: "dot"})
		assert.True(t, apperr.IsType(err, apperr.ErrorTypeUnsupportedNetworkType))

		_, err = h.svc.Export(ctx, "missing", ExportRequest{NetworkRequest: NetworkRequest{NetworkType: "mn"}, NetworkFormat: "dot"})
		assert.True(t, apperr.IsNotFound(err))
		assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Exports.WithLabelValues("mn", "dot", "error")))

		stored, err := h.store.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestArtifactNotFound(t *testing.T) {
	h := newHarness(t, 4)

	_, _, err := h.svc.Artifact(context.Background(), "absent.dot")

	assert.True(t, apperr.IsNotFound(err))
}

func boolPtr(b bool) *bool { return &b }

func TestNetworkFilter(t *testing.T) {
	stored := models.NewFilter()
	stored.Reactions.Add("r1")
	stored.RemoveReactionMissingSpecies = true

	t.Run("omitted policies keep stored ones", func(t *testing.T) {
		f := networkFilter(stored, NetworkRequest{}, models.MetabolicNetwork)

		assert.True(t, f.Reactions.Has("r1"))
		assert.True(t, f.RemoveReactionMissingSpecies)
		assert.False(t, f.RemoveReactionEnzymesRemoved)
		assert.True(t, f.RemovingEnzymeRemovesComplex)
	})

	t.Run("request policies override stored ones", func(t *testing.T) {
		f := networkFilter(stored, NetworkRequest{
			RemoveReactionMissingSpecies: boolPtr(false),
			RemovingEnzymeRemovesComplex: boolPtr(false),
		}, models.MetabolicNetwork)

		assert.False(t, f.RemoveReactionMissingSpecies)
		assert.False(t, f.RemovingEnzymeRemovesComplex)
	})

	t.Run("enzyme view drops uncatalysed reactions", func(t *testing.T) {
		f := networkFilter(stored, NetworkRequest{RemoveReactionEnzymesRemoved: boolPtr(false)}, models.EnzymeNetwork)

		assert.True(t, f.RemoveReactionEnzymesRemoved)
	})
}

func TestFilterRoundTripThroughBatchText(t *testing.T) {
	h := newHarness(t, 4)
	id := h.register(t)

	f := parser.ParseFilterBatch("enzymes: b\nenzyme_complexes: b + d\n")
	result, err := h.svc.EvaluateFilter(id, f)

	require.NoError(t, err)
	assert.Equal(t, []string{"b + d"}, result.Filter.FilterEnzymeComplexes)
	assert.Equal(t, 2, result.Current.EnzymeComplexes, "complexes removed only through b still count")
}
