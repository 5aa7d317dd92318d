package service

import (
	"go-pos-api/pkg/validator"
)

// ValidationError carries field-level failures out of a service so handlers
// can answer 422 with a field-keyed error map.
type ValidationError struct {
	Errors []*validator.ErrorResponse
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	first := e.Errors[0]
	return "validation failed: field '" + first.FailedField + "' failed on tag '" + first.Tag + "'"
}

// Fields returns the field-keyed error map for the response body.
func (e *ValidationError) Fields() map[string]string {
	return validator.Fields(e.Errors)
}

// validateStruct runs the struct tags and wraps any failures.
func validateStruct(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// existsError reports a reference to a row that does not resolve, in the same
// shape as a tag failure so handlers treat both as 422.
func existsError(field string) error {
	return &ValidationError{Errors: []*validator.ErrorResponse{
		{FailedField: field, Tag: "exists"},
	}}
}
