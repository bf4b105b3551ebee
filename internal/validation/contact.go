package validation

import "regexp"

const (
	MsgContactRequired = "Contact number is required"
	MsgContactLength   = "Contact number must be exactly 10 digits"

	contactNumberLength = 10
)

var contactNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

var std = New()

// Result is the outcome of a single-field check.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ValidateContactNumber accepts exactly ten ASCII digits. No country codes,
// separators or whitespace.
func ValidateContactNumber(number string) Result {
	if err := std.Var(number, "required"); err != nil {
		return Result{Message: MsgContactRequired}
	}
	if err := std.Var(number, "contact_number"); err != nil {
		return Result{Message: MsgContactLength}
	}
	return Result{Valid: true}
}

// FormatContactNumber drops every non-digit and keeps at most ten digits.
// The result is not necessarily valid: "123" formats to "123".
func FormatContactNumber(input string) string {
	out := make([]byte, 0, contactNumberLength)
	for i := 0; i < len(input) && len(out) < contactNumberLength; i++ {
		if c := input[i]; c >= '0' && c <= '9' {
			out = append(out, c)
		}
	}
	return string(out)
}
