package binder

import (
	"context"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/errcodes"
)

// Binder cleans up payload structs with mold, fills in defaults, and
// validates them. Validation failures come back as errcodes.ValidationError
// describing the first offending field.
type Binder struct {
	conform  *mold.Transformer
	validate *validator.Validate
}

// New initializes a new Binder instance that reports fields by their json
// names.
func New() *Binder {
	conform := modifiers.New()
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Binder{conform, validate}
}

// Bind modifies and validates the given payload in place. i must be a pointer
// to a struct.
func (b *Binder) Bind(ctx context.Context, i interface{}) error {
	if err := b.conform.Struct(ctx, i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	if err := b.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return errors.WithStack(err)
		}
		msg := formatValidationError(errs[0])
		return errcodes.ValidationError(msg)
	}
	return nil
}
