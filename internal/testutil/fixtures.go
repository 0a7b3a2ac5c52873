// Package testutil provides reusable model fixtures for tests across the
// repository.
package testutil

import (
	"encoding/json"
	"testing"

	"github.com/gemtract/core/internal/models"
)

// GeneFilterModel returns a small model exercising every cascade rule:
//
//   - enzymes a..j, complexes "a + b", "b + c", "b + d"
//   - a and b jointly catalyse r1 and r3
//   - r5 has three catalysts, r6 exactly one (h), r7 none
//   - r6 consumes s5 without a product
//
// Unfiltered it yields 14 metabolic nodes / 16 edges and 13 enzyme nodes / 8
// edges. Removing enzyme b leaves 12 enzyme nodes, or 9 when complexes go with
// their members.
func GeneFilterModel() *models.Model {
	return &models.Model{
		ID:   "gene_filter_example",
		Name: "gene filter example",
		Species: []models.Species{
			{ID: "s1", Name: "glucose", Compartment: "c"},
			{ID: "s2", Name: "glucose-6-phosphate", Compartment: "c"},
			{ID: "s3", Name: "fructose-6-phosphate", Compartment: "c"},
			{ID: "s4", Name: "fructose-1,6-bisphosphate", Compartment: "c"},
			{ID: "s5", Name: "ATP", Compartment: "c"},
			{ID: "s6", Name: "pyruvate", Compartment: "m"},
		},
		Reactions: []models.Reaction{
			{ID: "r1", Reactants: []string{"s1"}, Products: []string{"s2"}, Enzymes: []string{"a", "b"}},
			{ID: "r2", Reactants: []string{"s2"}, Products: []string{"s3"}, Enzymes: []string{"c"}, Complexes: []string{"b + c"}},
			{ID: "r3", Reactants: []string{"s3"}, Products: []string{"s4"}, Enzymes: []string{"a", "b"}},
			{ID: "r4", Reactants: []string{"s4", "s5"}, Products: []string{"s6"}, Complexes: []string{"a + b", "b + d"}},
			{ID: "r5", Reactants: []string{"s6"}, Products: []string{"s1"}, Enzymes: []string{"e", "f", "g"}},
			{ID: "r6", Reactants: []string{"s5"}, Products: []string{}, Enzymes: []string{"h"}},
			{ID: "r7", Name: "spontaneous", Reactants: []string{"s1"}, Products: []string{"s3"}, Reversible: true},
			{ID: "r8", Reactants: []string{"s2"}, Products: []string{"s4"}, Enzymes: []string{"i", "j"}},
		},
		Enzymes: []models.Enzyme{
			{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"},
			{ID: "f"}, {ID: "g"}, {ID: "h"}, {ID: "i"}, {ID: "j", Name: "enzyme j"},
		},
		Complexes: []models.Complex{
			{ID: "a + b", Members: []string{"a", "b"}},
			{ID: "b + c", Members: []string{"b", "c"}},
			{ID: "b + d", Members: []string{"b", "d"}},
		},
	}
}

// GeneFilterModelJSON returns GeneFilterModel as a model document.
func GeneFilterModelJSON(t testing.TB) []byte {
	t.Helper()
	data, err := json.Marshal(GeneFilterModel())
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

// SpeciesEdgeCount sums reactant and product references over all reactions.
func SpeciesEdgeCount(m *models.Model) int {
	n := 0
	for _, r := range m.Reactions {
		n += len(r.Reactants) + len(r.Products)
	}
	return n
}
