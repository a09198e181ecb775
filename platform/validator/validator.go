// Package validator wraps go-playground/validator for transport DTO and
// field validation. This is part of the platform layer and contains no
// business logic.
package validator

import "github.com/go-playground/validator/v10"

// Validator is the injected validation dependency; handlers and services
// share one instance built at startup.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates a struct against its `validate` tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single value against a tag expression, e.g.
// "required,email".
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation adds a custom tag.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
