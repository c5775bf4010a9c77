package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateRequest validates a struct with validation tags.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes a JSON request body and validates it.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return ValidateRequest(v)
}

// FirstValidationMessage returns the message of the first violated rule,
// which is what the API reports on a 400, or "" when err is not a
// validation error.
func FirstValidationMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return ""
	}

	e := validationErrors[0]
	return e.Field() + ": " + ruleMessage(e)
}

func ruleMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	case "gte":
		return "value must be greater than or equal to " + e.Param()
	case "lte":
		return "value must be less than or equal to " + e.Param()
	case "gt":
		return "value must be greater than " + e.Param()
	case "lt":
		return "value must be less than " + e.Param()
	default:
		return "invalid value"
	}
}
