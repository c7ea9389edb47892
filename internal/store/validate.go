package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	perrors "github.com/abgdnv/products/internal/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report attribute names rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("attr"); name != "" {
			return name
		}
		return fld.Name
	})
	// text the database can store: valid UTF-8 without NUL bytes
	_ = v.RegisterValidation("utf8text", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
	})
	return v
}

// Validate checks p against the constraints every store enforces before a write.
func Validate(p *Product) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fieldErr := range validationErrors {
			fields[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		return &perrors.ValidationError{Fields: fields}
	}
	return fmt.Errorf("failed to validate product: %w", err)
}
