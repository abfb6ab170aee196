package validation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingField         = errors.New("missing required field")
	ErrMissingPaymentDetail = errors.New("missing payment detail")
	ErrTermsNotAccepted     = errors.New("terms not accepted")
	ErrUnsupportedPayment   = errors.New("unsupported payment method")
)

// Issue names one rejected form field and the rule it failed.
type Issue struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// FieldError reports every rejected field of one checkout step. errors.Is
// matches it against its Kind.
type FieldError struct {
	Kind   error
	Issues []Issue
}

func (e *FieldError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Field
		if is.Rule != "required" {
			parts[i] += " (" + is.Rule + ")"
		}
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(parts, ", "))
}

func (e *FieldError) Unwrap() error { return e.Kind }

// Fields lists the rejected field names in declaration order.
func (e *FieldError) Fields() []string {
	out := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		out[i] = is.Field
	}
	return out
}
