// Package validation checks request schemas at the HTTP boundary.
//
// Struct tags (go-playground/validator) cover lengths and counts:
//
//	type DraftRequest struct {
//	    Texto  string   `json:"texto" validate:"required,max=20000"`
//	    Fichas []string `json:"fichas_resueltas" validate:"max=100,dive,max=2000"`
//	}
//	err := validation.Validate(req)
//
// A Checker collects rules that tags cannot express. Both produce a
// VALIDATION_ERROR AppError whose message lists every failing field.
package validation
