package handler

import "github.com/contalink/backoffice/internal/core/schema"

// echoValidator lets Echo call c.Validate(form) with the schema rules.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures are
// *domain.ValidationError values.
func (echoValidator) Validate(i any) error {
	return schema.Validate(i)
}
