package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

type template string

var templates = map[string]template{
	"required": "{field} is required",
	"notblank": "{field} must not be blank",
	"uuid":     "{field} must be a valid uuid",
	"email":    "{field} must be a valid email address",
	"oneof":    "{field} must be one of {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"max":      "{field} must be less than or equal to {param}",
	"gtfield":  "{field} must be after {param}",
	"dive":     "{field} contains an invalid item",
}

func (t template) render(fieldErr val.FieldError) string {
	return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(string(t))
}

// describe returns a readable message for the first field error that has a template.
func describe(err error) string {
	var fieldErrs val.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	for _, fieldErr := range fieldErrs {
		if tmpl, ok := templates[fieldErr.Tag()]; ok {
			return tmpl.render(fieldErr)
		}
	}

	return fieldErrs.Error()
}
