package handler

import (
	val "github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
// Form DTOs declare their rules in `validate:` struct tags.
type Validator struct {
	validate *val.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: val.New(val.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
