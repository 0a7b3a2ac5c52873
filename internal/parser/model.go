// Package parser provides utilities for decoding model and filter documents and
// for transforming a model into the networks it contains.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gemtract/core/internal/apperr"
	"github.com/gemtract/core/internal/models"
)

// ComplexSeparator joins member ids into the identifier of an unnamed complex.
const ComplexSeparator = " + "

func ParseModel(data []byte) (*models.Model, error) {
	if len(data) == 0 {
		return nil, apperr.NewMalformedModelError("empty model data")
	}

	var model models.Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, apperr.NewMalformedModelError("failed to unmarshal model").WithCause(err)
	}

	for i := range model.Complexes {
		if model.Complexes[i].ID == "" {
			model.Complexes[i].ID = ComplexID(model.Complexes[i].Members)
		}
	}

	if err := ValidateModel(&model); err != nil {
		return nil, err
	}

	return &model, nil
}

// ComplexID derives the identifier of a complex from its ordered members.
func ComplexID(members []string) string {
	return strings.Join(members, ComplexSeparator)
}

// ValidateModel checks identifier uniqueness. Species and reactions share one
// namespace, as do enzymes and complexes, because each pair ends up as nodes of
// the same network. Dangling references are left for the network builder.
func ValidateModel(model *models.Model) error {
	metabolic := make(map[string]string)
	catalysts := make(map[string]string)

	claim := func(seen map[string]string, entity, id string) error {
		if strings.TrimSpace(id) == "" {
			return apperr.NewMalformedModelError(fmt.Sprintf("%s without identifier", entity))
		}
		if other, ok := seen[id]; ok {
			return apperr.NewMalformedModelError(fmt.Sprintf("duplicate identifier %q (%s and %s)", id, other, entity))
		}
		seen[id] = entity
		return nil
	}

	for _, s := range model.Species {
		if err := claim(metabolic, "species", s.ID); err != nil {
			return err
		}
	}
	for _, r := range model.Reactions {
		if err := claim(metabolic, "reaction", r.ID); err != nil {
			return err
		}
	}
	for _, e := range model.Enzymes {
		if err := claim(catalysts, "enzyme", e.ID); err != nil {
			return err
		}
	}
	for _, c := range model.Complexes {
		if len(c.Members) == 0 {
			return apperr.NewMalformedModelError(fmt.Sprintf("enzyme complex %q has no members", c.ID))
		}
		if err := claim(catalysts, "enzyme complex", c.ID); err != nil {
			return err
		}
	}

	return nil
}
