// Package parser provides utilities for decoding model and filter documents and
// for transforming a model into the networks it contains.
package parser

import (
	"fmt"

	"github.com/gemtract/core/internal/apperr"
	"github.com/gemtract/core/internal/models"
)

// BuildNetwork extracts the network of the requested kind from model after
// applying filter.
func BuildNetwork(model *models.Model, filter models.Filter, kind models.NetworkKind) (*models.Network, error) {
	switch kind {
	case models.MetabolicNetwork:
		return BuildMetabolicNetwork(model, filter), nil
	case models.EnzymeNetwork:
		return BuildEnzymeNetwork(model, filter), nil
	default:
		return nil, apperr.NewUnsupportedNetworkTypeError(string(kind))
	}
}

// BuildMetabolicNetwork returns the bipartite species/reaction network. Edges
// run reactant -> reaction and reaction -> product.
func BuildMetabolicNetwork(model *models.Model, filter models.Filter) *models.Network {
	b := newBuilder(model, filter)
	network := b.newNetwork(models.MetabolicNetwork)

	for _, s := range model.Species {
		if b.filter.Species.Has(s.ID) {
			continue
		}
		network.Nodes = append(network.Nodes, models.Node{
			ID:          s.ID,
			Name:        s.Name,
			Type:        models.NodeSpecies,
			Compartment: s.Compartment,
		})
	}

	for i := range model.Reactions {
		r := &model.Reactions[i]
		if !b.reactionSurvives(r) {
			continue
		}

		network.Nodes = append(network.Nodes, models.Node{
			ID:         r.ID,
			Name:       r.Name,
			Type:       models.NodeReaction,
			Reversible: r.Reversible,
		})

		for _, s := range uniqueIDs(r.Reactants) {
			if b.speciesSurvives(s) {
				network.Edges = append(network.Edges, models.Edge{Source: s, Target: r.ID})
			}
		}
		for _, s := range uniqueIDs(r.Products) {
			if b.speciesSurvives(s) {
				network.Edges = append(network.Edges, models.Edge{Source: r.ID, Target: s})
			}
		}
	}

	return b.finish(network)
}

// BuildEnzymeNetwork returns the co-catalysis network. Every surviving
// reaction contributes one edge per unordered pair of its surviving catalysts,
// so a pair catalysing N reactions together is connected N times.
func BuildEnzymeNetwork(model *models.Model, filter models.Filter) *models.Network {
	b := newBuilder(model, filter)
	network := b.newNetwork(models.EnzymeNetwork)

	for _, e := range model.Enzymes {
		if b.filter.Enzymes.Has(e.ID) {
			continue
		}
		network.Nodes = append(network.Nodes, models.Node{
			ID:   e.ID,
			Name: e.Name,
			Type: models.NodeEnzyme,
		})
	}

	for _, c := range model.Complexes {
		if !b.complexSurvives(c.ID) {
			continue
		}
		network.Nodes = append(network.Nodes, models.Node{
			ID:      c.ID,
			Name:    c.Name,
			Type:    models.NodeEnzymeComplex,
			Members: append([]string(nil), c.Members...),
		})
	}

	for i := range model.Reactions {
		r := &model.Reactions[i]
		if !b.reactionSurvives(r) {
			continue
		}

		catalysts := make([]string, 0, len(r.Enzymes)+len(r.Complexes))
		for _, e := range uniqueIDs(r.Enzymes) {
			if b.enzymeSurvives(e) {
				catalysts = append(catalysts, e)
			}
		}
		for _, c := range uniqueIDs(r.Complexes) {
			if b.complexSurvives(c) {
				catalysts = append(catalysts, c)
			}
		}

		for x := 0; x < len(catalysts); x++ {
			for y := x + 1; y < len(catalysts); y++ {
				network.Edges = append(network.Edges, models.Edge{
					Source:   catalysts[x],
					Target:   catalysts[y],
					Reaction: r.ID,
				})
			}
		}
	}

	return b.finish(network)
}

// ExcludedComplexes derives the set of removed enzyme complexes: the ones
// listed explicitly plus, when RemovingEnzymeRemovesComplex is set, every
// complex with at least one removed member. It is recomputed per call.
func ExcludedComplexes(model *models.Model, filter models.Filter) models.IDSet {
	filter = filter.Normalize()
	excluded := models.NewIDSet(filter.EnzymeComplexes.Sorted()...)
	if !filter.RemovingEnzymeRemovesComplex {
		return excluded
	}

	for _, c := range model.Complexes {
		for _, member := range c.Members {
			if filter.Enzymes.Has(member) {
				excluded.Add(c.ID)
				break
			}
		}
	}

	return excluded
}

type builder struct {
	model    *models.Model
	idx      *models.Index
	filter   models.Filter
	excluded models.IDSet

	malformedComplexes models.IDSet
	diagnostics        []models.Diagnostic
}

func newBuilder(model *models.Model, filter models.Filter) *builder {
	b := &builder{
		model:              model,
		idx:                model.Index(),
		filter:             filter.Normalize(),
		malformedComplexes: models.IDSet{},
	}
	b.excluded = ExcludedComplexes(model, b.filter)

	b.checkFilterReferences("species", b.filter.Species, func(id string) bool { _, ok := b.idx.Species[id]; return ok })
	b.checkFilterReferences("reaction", b.filter.Reactions, func(id string) bool { _, ok := b.idx.Reactions[id]; return ok })
	b.checkFilterReferences("enzyme", b.filter.Enzymes, func(id string) bool { _, ok := b.idx.Enzymes[id]; return ok })
	b.checkFilterReferences("enzyme complex", b.filter.EnzymeComplexes, func(id string) bool { _, ok := b.idx.Complexes[id]; return ok })

	for _, c := range model.Complexes {
		for _, member := range c.Members {
			if _, ok := b.idx.Enzymes[member]; !ok {
				b.malformedComplexes.Add(c.ID)
				b.diagnose(models.DiagnosticMalformedComplex, "enzyme complex", c.ID,
					fmt.Sprintf("member %q does not exist", member))
				break
			}
		}
	}

	return b
}

// checkFilterReferences records filter ids absent from the model. They are
// treated as already removed.
func (b *builder) checkFilterReferences(entity string, ids models.IDSet, exists func(string) bool) {
	for _, id := range ids.Sorted() {
		if !exists(id) {
			b.diagnose(models.DiagnosticUnknownIdentifier, entity, id, "")
		}
	}
}

func (b *builder) diagnose(kind models.DiagnosticKind, entity, id, detail string) {
	b.diagnostics = append(b.diagnostics, models.Diagnostic{Kind: kind, Entity: entity, ID: id, Detail: detail})
}

func (b *builder) newNetwork(kind models.NetworkKind) *models.Network {
	name := b.model.Name
	if name == "" {
		name = b.model.ID
	}
	return &models.Network{
		Kind:  kind,
		Name:  name,
		Nodes: []models.Node{},
		Edges: []models.Edge{},
	}
}

func (b *builder) finish(network *models.Network) *models.Network {
	network.Stats = network.ComputeStats()
	network.Diagnostics = b.diagnostics
	return network
}

func (b *builder) speciesSurvives(id string) bool {
	_, ok := b.idx.Species[id]
	return ok && !b.filter.Species.Has(id)
}

func (b *builder) enzymeSurvives(id string) bool {
	_, ok := b.idx.Enzymes[id]
	return ok && !b.filter.Enzymes.Has(id)
}

func (b *builder) complexSurvives(id string) bool {
	_, ok := b.idx.Complexes[id]
	return ok && !b.excluded.Has(id) && !b.malformedComplexes.Has(id)
}

// reactionSurvives applies the reaction rules shared by both network kinds.
// A reaction listing no catalysts at all is never removed for lack of them.
func (b *builder) reactionSurvives(r *models.Reaction) bool {
	if b.filter.Reactions.Has(r.ID) {
		return false
	}
	if !b.wellFormed(r) {
		return false
	}

	if b.filter.RemoveReactionMissingSpecies {
		for _, s := range r.Reactants {
			if !b.speciesSurvives(s) {
				return false
			}
		}
		for _, s := range r.Products {
			if !b.speciesSurvives(s) {
				return false
			}
		}
	}

	if b.filter.RemoveReactionEnzymesRemoved && len(r.Enzymes)+len(r.Complexes) > 0 {
		for _, e := range r.Enzymes {
			if b.enzymeSurvives(e) {
				return true
			}
		}
		for _, c := range r.Complexes {
			if b.complexSurvives(c) {
				return true
			}
		}
		return false
	}

	return true
}

// wellFormed reports whether every reference of r resolves in the model.
// Malformed reactions are skipped and recorded as diagnostics.
func (b *builder) wellFormed(r *models.Reaction) bool {
	check := func(kind string, ids []string, exists func(string) bool) bool {
		for _, id := range ids {
			if !exists(id) {
				b.diagnose(models.DiagnosticMalformedReaction, "reaction", r.ID,
					fmt.Sprintf("%s %q does not exist", kind, id))
				return false
			}
		}
		return true
	}

	species := func(id string) bool { _, ok := b.idx.Species[id]; return ok }
	enzymes := func(id string) bool { _, ok := b.idx.Enzymes[id]; return ok }
	complexes := func(id string) bool { _, ok := b.idx.Complexes[id]; return ok }

	return check("reactant", r.Reactants, species) &&
		check("product", r.Products, species) &&
		check("enzyme", r.Enzymes, enzymes) &&
		check("enzyme complex", r.Complexes, complexes)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
