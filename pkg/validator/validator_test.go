package validator

import "testing"

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=admin doctor patient"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

func TestFormatValidationErrorsUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Email: "nope", Role: "nurse", Quantity: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}

	errs := v.FormatValidationErrors(err)
	want := map[string]string{
		"email":    "email must be a valid email address",
		"role":     "role must be one of: admin doctor patient",
		"quantity": "quantity must be greater than or equal to 0",
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Errorf("errs[%q] = %q, want %q", field, errs[field], msg)
		}
	}
}

func TestValidatePasses(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(&sample{Email: "a@b.co", Role: "admin"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
