package draft

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/kbukum/compapol/errors"
	"github.com/kbukum/compapol/validation"
)

// ErrEntryShape rejects filiación/objeto entries that are neither JSON
// objects nor strings.
var ErrEntryShape = stderrors.New("draft: entry must be a JSON object or string")

// Entry is one opaque filiación or objeto. Its JSON is kept compacted and
// re-emitted verbatim, key order included.
type Entry struct {
	raw json.RawMessage
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || (b[0] != '{' && b[0] != '"') {
		return ErrEntryShape
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	e.raw = buf.Bytes()
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.raw) == 0 {
		return []byte("null"), nil
	}
	return e.raw, nil
}

// IsZero reports whether the entry was never populated.
func (e Entry) IsZero() bool { return len(e.raw) == 0 }

func (e Entry) String() string { return string(e.raw) }

// Request is the body of POST /api/police-draft.
type Request struct {
	Texto       string   `json:"texto" validate:"required,max=20000"`
	Filiaciones []Entry  `json:"filiaciones" validate:"max=100"`
	Objetos     []Entry  `json:"objetos" validate:"max=200"`
	Fichas      []string `json:"fichas_resueltas" validate:"max=100,dive,max=2000"`
}

// Response is the drafted body.
type Response struct {
	HTML string `json:"html"`
}

// Normalize trims the dictation and drops blank fichas.
func (r *Request) Normalize() {
	r.Texto = strings.TrimSpace(r.Texto)
	fichas := r.Fichas[:0:0]
	for _, f := range r.Fichas {
		if f = strings.TrimSpace(f); f != "" {
			fichas = append(fichas, f)
		}
	}
	r.Fichas = fichas
}

// Validate checks tag constraints and entry shapes.
func (r *Request) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	v := validation.New()
	for i, e := range r.Filiaciones {
		v.Check(!e.IsZero(), fmt.Sprintf("filiaciones[%d]", i), "debe ser un objeto o un texto")
	}
	for i, e := range r.Objetos {
		v.Check(!e.IsZero(), fmt.Sprintf("objetos[%d]", i), "debe ser un objeto o un texto")
	}
	return v.Err()
}

// DecodeError maps a JSON binding failure onto an AppError. An empty body
// is not an error; the caller validates the zero Request instead.
func DecodeError(err error) error {
	switch {
	case err == nil, stderrors.Is(err, io.EOF):
		return nil
	case stderrors.Is(err, ErrEntryShape):
		return errors.Validation("filiaciones y objetos deben contener objetos o textos")
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr), stderrors.Is(err, io.ErrUnexpectedEOF):
		return errors.Validation("JSON no válido").WithCause(err)
	case stderrors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "cuerpo"
		}
		return errors.Validation(field + ": tipo no válido").WithCause(err)
	}
	return err
}

// marshalJSON encodes v without HTML escaping and without the trailing
// newline json.Encoder adds.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// jsonList renders a list for the prompt, "[]" when empty.
func jsonList[T any](items []T) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := marshalJSON(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}
