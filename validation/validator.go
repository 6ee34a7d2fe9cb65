package validation

import (
	"strings"

	"github.com/kbukum/compapol/errors"
)

// FieldError is one failing field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Checker accumulates failures for rules that struct tags cannot express.
type Checker struct {
	fields []FieldError
}

func New() *Checker { return &Checker{} }

// Check records message against field when ok is false.
func (c *Checker) Check(ok bool, field, message string) *Checker {
	if !ok {
		c.fields = append(c.fields, FieldError{Field: field, Message: message})
	}
	return c
}

func (c *Checker) Fields() []FieldError { return c.fields }

// Err returns nil when every check passed.
func (c *Checker) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return failure(c.fields)
}

// failure builds the 400 AppError shared by tag and manual checks:
// "field: message" pairs joined by "; ", with the list under "fields".
func failure(fields []FieldError) *errors.AppError {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", fields)
}
