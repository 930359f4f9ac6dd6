// Package validator decodes request payloads and checks them with go-playground/validator, reporting
// failures as BadRequest with json field names.
package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"unibook/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var engine = newEngine()

func newEngine() *val.Validate {
	engine := val.New(val.WithRequiredStructEnabled())

	engine.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		default:
			return name
		}
	})

	custom := map[string]val.Func{
		"empty": func(fl val.FieldLevel) bool {
			return fl.Field().IsZero()
		},
		"notblank": func(fl val.FieldLevel) bool {
			return fl.Field().Kind() == reflect.String && strings.TrimSpace(fl.Field().String()) != ""
		},
	}

	for tag, fn := range custom {
		if err := engine.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return engine
}

// Validate decodes JSON from r into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	return asBadRequest(engine.Struct(data))
}

func ValidateVar(field any, tag string) error {
	return asBadRequest(engine.Var(field, tag))
}

func asBadRequest(err error) error {
	if err == nil {
		return nil
	}

	return failure.BadRequestFromString(describe(err)) //nolint:wrapcheck
}
