package binder

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	mx       = "max"
	required = "required"
)

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case mx:
		return fmt.Sprintf("%q length must be less than or equal to %s %s", field, err.Param(), plural("character", err.Param()))
	case required:
		return fmt.Sprintf("%q is required", field)
	default:
		return fmt.Sprintf("%q failed the %q check", field, err.Tag())
	}
}

func plural(resource, count string) string {
	if count != "1" {
		return resource + "s"
	}
	return resource
}
