package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gemtract/core/internal/apperr"
	"github.com/gemtract/core/internal/models"
)

// NetworkRequest selects the network view and the policies applied to the
// model's stored filter. An omitted policy keeps the stored filter's value.
type NetworkRequest struct {
	NetworkType                  string `json:"network_type" validate:"required,oneof=mn en"`
	RemoveReactionEnzymesRemoved *bool  `json:"remove_reaction_enzymes_removed,omitempty"`
	RemoveReactionMissingSpecies *bool  `json:"remove_reaction_missing_species,omitempty"`
	RemovingEnzymeRemovesComplex *bool  `json:"removing_enzyme_removes_complex,omitempty"`
}

type ExportRequest struct {
	NetworkRequest
	NetworkFormat string `json:"network_format" validate:"required,oneof=sbml graphml gml dot"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (r *NetworkRequest) normalize() {
	r.NetworkType = strings.ToLower(strings.TrimSpace(r.NetworkType))
}

func (r *ExportRequest) normalize() {
	r.NetworkRequest.normalize()
	r.NetworkFormat = strings.ToLower(strings.TrimSpace(r.NetworkFormat))
}

// check validates a request, reporting values outside the network type and
// format enumerations with their dedicated error types.
func (s *Service) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.NewValidationError(err.Error())
	}

	fields := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "oneof" {
			switch fe.Field() {
			case "network_type":
				return apperr.NewUnsupportedNetworkTypeError(fmt.Sprint(fe.Value()))
			case "network_format":
				return apperr.NewUnsupportedFormatError(fmt.Sprint(fe.Value()))
			}
		}
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperr.NewValidationError("invalid request").WithDetails(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}

// networkFilter overrides the policies of the stored filter with the ones the
// request sets. Enzyme views always drop reactions that lost every catalyst.
func networkFilter(stored models.Filter, req NetworkRequest, kind models.NetworkKind) models.Filter {
	f := stored.Normalize()
	if req.RemoveReactionEnzymesRemoved != nil {
		f.RemoveReactionEnzymesRemoved = *req.RemoveReactionEnzymesRemoved
	}
	if req.RemoveReactionMissingSpecies != nil {
		f.RemoveReactionMissingSpecies = *req.RemoveReactionMissingSpecies
	}
	if req.RemovingEnzymeRemovesComplex != nil {
		f.RemovingEnzymeRemovesComplex = *req.RemovingEnzymeRemovesComplex
	}
	if kind == models.EnzymeNetwork {
		f.RemoveReactionEnzymesRemoved = true
	}
	return f
}
