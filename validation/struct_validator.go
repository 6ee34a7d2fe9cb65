package validation

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/compapol/errors"
)

var tags = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Errors name fields as clients send them, e.g. "fichas_resueltas[2]".
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
			return name
		}
		return snake(f.Name)
	})
	return v
})

// Validate checks s against its `validate` tags. Failures come back as one
// Validation AppError listing every field.
func Validate(s any) error {
	err := tags().Struct(s)
	if err == nil {
		return nil
	}
	failed, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("Solicitud no válida")
	}
	fields := make([]FieldError, len(failed))
	for i, fe := range failed {
		fields[i] = FieldError{Field: fe.Field(), Message: describe(fe)}
	}
	return failure(fields)
}

// describe renders a tag failure in Spanish. Lengths of strings are in
// characters and of slices in elements.
func describe(fe validator.FieldError) string {
	text := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "max":
		if text {
			return "debe tener como máximo " + fe.Param() + " caracteres"
		}
		return "admite como máximo " + fe.Param() + " elementos"
	case "min":
		if text {
			return "debe tener al menos " + fe.Param() + " caracteres"
		}
		return "requiere al menos " + fe.Param() + " elementos"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	}
	return "no es válido"
}

func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
