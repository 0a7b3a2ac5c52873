// Package models defines the core data structures of a metabolic model and the
// networks extracted from it. It includes entity definitions, filters and lookups.
package models

import (
	"encoding/json"
	"sort"
)

// IDSet is a set of entity identifiers. It marshals to a sorted JSON list.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

func (s IDSet) Len() int { return len(s) }

func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the members of s and other.
func (s IDSet) Union(other IDSet) IDSet {
	out := make(IDSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

// Filter lists the identifiers a user removed from a model and the policies
// deciding how removals cascade. EnzymeComplexes holds only explicitly removed
// complexes; complexes removed through their members are derived on demand.
type Filter struct {
	Species         IDSet `json:"species"`
	Reactions       IDSet `json:"reactions"`
	Enzymes         IDSet `json:"enzymes"`
	EnzymeComplexes IDSet `json:"enzyme_complexes"`

	RemoveReactionEnzymesRemoved bool `json:"remove_reaction_enzymes_removed"`
	RemoveReactionMissingSpecies bool `json:"remove_reaction_missing_species"`
	RemovingEnzymeRemovesComplex bool `json:"removing_enzyme_removes_complex"`
}

// NewFilter returns a filter with empty sets and the default policies.
func NewFilter() Filter {
	return Filter{
		Species:                      IDSet{},
		Reactions:                    IDSet{},
		Enzymes:                      IDSet{},
		EnzymeComplexes:              IDSet{},
		RemovingEnzymeRemovesComplex: true,
	}
}

// Normalize replaces nil sets with empty ones so lookups never need nil checks.
func (f Filter) Normalize() Filter {
	if f.Species == nil {
		f.Species = IDSet{}
	}
	if f.Reactions == nil {
		f.Reactions = IDSet{}
	}
	if f.Enzymes == nil {
		f.Enzymes = IDSet{}
	}
	if f.EnzymeComplexes == nil {
		f.EnzymeComplexes = IDSet{}
	}
	return f
}

type FilterSummary struct {
	FilterSpecies         []string `json:"filter_species"`
	FilterReactions       []string `json:"filter_reactions"`
	FilterEnzymes         []string `json:"filter_enzymes"`
	FilterEnzymeComplexes []string `json:"filter_enzyme_complexes"`
}

func (f Filter) Summary() FilterSummary {
	f = f.Normalize()
	return FilterSummary{
		FilterSpecies:         f.Species.Sorted(),
		FilterReactions:       f.Reactions.Sorted(),
		FilterEnzymes:         f.Enzymes.Sorted(),
		FilterEnzymeComplexes: f.EnzymeComplexes.Sorted(),
	}
}
