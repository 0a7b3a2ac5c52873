// Package parser provides utilities for decoding model and filter documents and
// for transforming a model into the networks it contains.
package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gemtract/core/internal/models"
)

// filterDocument is the file form of a filter. Policy flags are pointers so an
// absent key keeps the default of models.NewFilter.
type filterDocument struct {
	Species         []string `yaml:"species"`
	Reactions       []string `yaml:"reactions"`
	Enzymes         []string `yaml:"enzymes"`
	EnzymeComplexes []string `yaml:"enzyme_complexes"`

	RemoveReactionEnzymesRemoved *bool `yaml:"remove_reaction_enzymes_removed"`
	RemoveReactionMissingSpecies *bool `yaml:"remove_reaction_missing_species"`
	RemovingEnzymeRemovesComplex *bool `yaml:"removing_enzyme_removes_complex"`
}

func (d filterDocument) filter() models.Filter {
	f := models.NewFilter()
	f.Species = models.NewIDSet(cleanIDs(d.Species)...)
	f.Reactions = models.NewIDSet(cleanIDs(d.Reactions)...)
	f.Enzymes = models.NewIDSet(cleanIDs(d.Enzymes)...)
	f.EnzymeComplexes = models.NewIDSet(cleanIDs(d.EnzymeComplexes)...)
	if d.RemoveReactionEnzymesRemoved != nil {
		f.RemoveReactionEnzymesRemoved = *d.RemoveReactionEnzymesRemoved
	}
	if d.RemoveReactionMissingSpecies != nil {
		f.RemoveReactionMissingSpecies = *d.RemoveReactionMissingSpecies
	}
	if d.RemovingEnzymeRemovesComplex != nil {
		f.RemovingEnzymeRemovesComplex = *d.RemovingEnzymeRemovesComplex
	}
	return f
}

func ParseFilterYAML(data []byte) (models.Filter, error) {
	var doc filterDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return models.Filter{}, fmt.Errorf("failed to unmarshal filter: %w", err)
	}
	return doc.filter(), nil
}

// ParseFilterJSON decodes a JSON filter. "reaction" is accepted as an alias
// of "reactions".
func ParseFilterJSON(data []byte) (models.Filter, error) {
	doc := struct {
		models.Filter
		Reaction models.IDSet `json:"reaction"`
	}{Filter: models.NewFilter()}
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Filter{}, fmt.Errorf("failed to unmarshal filter: %w", err)
	}
	f := doc.Filter.Normalize()
	if doc.Reaction.Len() > 0 {
		f.Reactions = f.Reactions.Union(doc.Reaction)
	}
	return f, nil
}

// ParseFilterBatch reads the line oriented batch syntax:
//
//	species: s1, s2
//	reactions: r1
//	enzymes: b
//	enzyme_complexes: b + c
//
// Lines that do not split into exactly one key and one value are skipped, as
// are unknown keys. A repeated key replaces the earlier line.
func ParseFilterBatch(text string) models.Filter {
	var doc filterDocument
	for _, line := range strings.Split(text, "\n") {
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		ids := cleanIDs(strings.Split(parts[1], ","))
		switch strings.TrimSpace(parts[0]) {
		case "species":
			doc.Species = ids
		case "reactions":
			doc.Reactions = ids
		case "enzymes":
			doc.Enzymes = ids
		case "enzyme_complexes":
			doc.EnzymeComplexes = ids
		}
	}
	return doc.filter()
}

// FormatFilterBatch renders the id sets of f in the batch syntax.
func FormatFilterBatch(f models.Filter) string {
	f = f.Normalize()
	var sb strings.Builder
	fmt.Fprintf(&sb, "species: %s\n", strings.Join(f.Species.Sorted(), ", "))
	fmt.Fprintf(&sb, "reactions: %s\n", strings.Join(f.Reactions.Sorted(), ", "))
	fmt.Fprintf(&sb, "enzymes: %s\n", strings.Join(f.Enzymes.Sorted(), ", "))
	fmt.Fprintf(&sb, "enzyme_complexes: %s\n", strings.Join(f.EnzymeComplexes.Sorted(), ", "))
	return sb.String()
}

// LoadFilter reads a filter file, choosing the syntax by extension: YAML for
// .yaml/.yml, JSON for .json and the batch syntax otherwise.
func LoadFilter(path string) (models.Filter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Filter{}, fmt.Errorf("read filter %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseFilterYAML(data)
	case ".json":
		return ParseFilterJSON(data)
	default:
		return ParseFilterBatch(string(data)), nil
	}
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
