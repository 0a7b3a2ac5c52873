// Package parser provides utilities for decoding model and filter documents and
// for transforming a model into the networks it contains.
package parser

import (
	"fmt"

	"github.com/gemtract/core/internal/models"
)

const (
	ReasonNotCatalysed       = "reaction is not catalysed anymore"
	ReasonReactantRemoved    = "some species consumed by this reaction were removed"
	ReasonProductRemoved     = "some species produced by this reaction were removed"
	ReasonGhostSpecies       = "species does not appear in any reaction anymore"
	ReasonGhostEnzyme        = "enzyme is not used in any reaction or enzyme complex anymore"
	ReasonComplexUnused      = "enzyme complex is not used in any reaction anymore"
	ReasonComplexMemberGone  = "some enzymes required by this complex are not available anymore"
	reasonSubcomplexRemovedF = "subcomplex %s was removed"
)

// Inconsistency names an element the user kept that lost its context through
// other removals.
type Inconsistency struct {
	ID      string   `json:"id"`
	Reasons []string `json:"reasons"`
}

type ConsistencyReport struct {
	Species         []Inconsistency `json:"species"`
	Reactions       []Inconsistency `json:"reactions"`
	Enzymes         []Inconsistency `json:"enzymes"`
	EnzymeComplexes []Inconsistency `json:"enzyme_complexes"`
}

// Total returns the number of inconsistent elements across all classes.
func (r ConsistencyReport) Total() int {
	return len(r.Species) + len(r.Reactions) + len(r.Enzymes) + len(r.EnzymeComplexes)
}

// CheckConsistency reports elements left in place by filter that no longer fit
// the trimmed model. Only directly listed removals count here; the cascade
// policies are applied by the network builders.
func CheckConsistency(model *models.Model, filter models.Filter) ConsistencyReport {
	filter = filter.Normalize()
	report := ConsistencyReport{
		Species:         []Inconsistency{},
		Reactions:       []Inconsistency{},
		Enzymes:         []Inconsistency{},
		EnzymeComplexes: []Inconsistency{},
	}

	speciesUsed := models.IDSet{}
	enzymesUsed := models.IDSet{}
	complexesUsed := models.IDSet{}

	for _, r := range model.Reactions {
		if filter.Reactions.Has(r.ID) {
			continue
		}
		for _, s := range r.Reactants {
			speciesUsed.Add(s)
		}
		for _, s := range r.Products {
			speciesUsed.Add(s)
		}
		for _, e := range r.Enzymes {
			enzymesUsed.Add(e)
		}
		for _, c := range r.Complexes {
			complexesUsed.Add(c)
		}

		var reasons []string
		if catalysts := r.Catalysts(); len(catalysts) > 0 && !anyKept(r.Enzymes, filter.Enzymes) && !anyKept(r.Complexes, filter.EnzymeComplexes) {
			reasons = append(reasons, ReasonNotCatalysed)
		}
		if anyRemoved(r.Reactants, filter.Species) {
			reasons = append(reasons, ReasonReactantRemoved)
		}
		if anyRemoved(r.Products, filter.Species) {
			reasons = append(reasons, ReasonProductRemoved)
		}
		if len(reasons) > 0 {
			report.Reactions = append(report.Reactions, Inconsistency{ID: r.ID, Reasons: reasons})
		}
	}

	for _, c := range model.Complexes {
		if filter.EnzymeComplexes.Has(c.ID) {
			continue
		}
		for _, member := range c.Members {
			enzymesUsed.Add(member)
		}
	}

	for _, s := range model.Species {
		if !filter.Species.Has(s.ID) && !speciesUsed.Has(s.ID) {
			report.Species = append(report.Species, Inconsistency{ID: s.ID, Reasons: []string{ReasonGhostSpecies}})
		}
	}

	for _, e := range model.Enzymes {
		if !filter.Enzymes.Has(e.ID) && !enzymesUsed.Has(e.ID) {
			report.Enzymes = append(report.Enzymes, Inconsistency{ID: e.ID, Reasons: []string{ReasonGhostEnzyme}})
		}
	}

	for _, c := range model.Complexes {
		if filter.EnzymeComplexes.Has(c.ID) {
			continue
		}
		var reasons []string
		if !complexesUsed.Has(c.ID) {
			reasons = append(reasons, ReasonComplexUnused)
		}
		if anyRemoved(c.Members, filter.Enzymes) {
			reasons = append(reasons, ReasonComplexMemberGone)
		}
		for _, removed := range model.Complexes {
			if removed.ID != c.ID && filter.EnzymeComplexes.Has(removed.ID) && containsAll(c.Members, removed.Members) {
				reasons = append(reasons, fmt.Sprintf(reasonSubcomplexRemovedF, removed.ID))
			}
		}
		if len(reasons) > 0 {
			report.EnzymeComplexes = append(report.EnzymeComplexes, Inconsistency{ID: c.ID, Reasons: reasons})
		}
	}

	return report
}

func anyKept(ids []string, removed models.IDSet) bool {
	for _, id := range ids {
		if !removed.Has(id) {
			return true
		}
	}
	return false
}

func anyRemoved(ids []string, removed models.IDSet) bool {
	for _, id := range ids {
		if removed.Has(id) {
			return true
		}
	}
	return false
}

// containsAll reports whether every element of sub appears in super.
func containsAll(super, sub []string) bool {
	set := models.NewIDSet(super...)
	for _, id := range sub {
		if !set.Has(id) {
			return false
		}
	}
	return true
}
