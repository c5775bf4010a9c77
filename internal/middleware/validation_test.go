package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type testRequest struct {
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email" validate:"required,email"`
	Stock int    `json:"stock" validate:"gte=0"`
}

func TestDecodeAndValidate(t *testing.T) {
	body := `{"name":"tomate","email":"shop@example.com","stock":3}`
	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	var parsed testRequest
	if err := DecodeAndValidate(req, &parsed); err != nil {
		t.Fatalf("DecodeAndValidate failed: %v", err)
	}
	if parsed.Name != "tomate" || parsed.Stock != 3 {
		t.Errorf("parsed = %+v", parsed)
	}
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte("{not json")))

	var parsed testRequest
	err := DecodeAndValidate(req, &parsed)
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	// Decode failures are not validation failures; there is no rule message.
	if msg := FirstValidationMessage(err); msg != "" {
		t.Errorf("FirstValidationMessage = %q, want empty", msg)
	}
}

func TestFirstValidationMessageReportsFirstViolation(t *testing.T) {
	err := ValidateRequest(testRequest{Name: "", Email: "bad", Stock: -1})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	msg := FirstValidationMessage(err)
	if msg != "Name: this field is required" {
		t.Errorf("FirstValidationMessage = %q, want the Name violation first", msg)
	}
}

func TestProperty_RequiredFieldValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation passes iff all required fields are present", prop.ForAll(
		func(includeName bool, includeEmail bool) bool {
			reqMap := map[string]interface{}{"stock": 1}
			if includeName {
				reqMap["name"] = "tomate"
			}
			if includeEmail {
				reqMap["email"] = "shop@example.com"
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var parsed testRequest
			err := DecodeAndValidate(req, &parsed)

			if includeName && includeEmail {
				return err == nil
			}
			return err != nil && FirstValidationMessage(err) != ""
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
