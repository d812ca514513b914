package checkout

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError is a per-field failure surfaced inline next to the
// offending input. It never reaches the network layer.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// National-number digit length per dial code. Codes not listed fall
// back to defaultPhoneRange.
var phoneRanges = map[string][2]int{
	"254": {9, 9},  // Kenya
	"255": {9, 9},  // Tanzania
	"256": {9, 9},  // Uganda
	"250": {9, 9},  // Rwanda
	"251": {9, 9},  // Ethiopia
	"1":   {10, 10},
	"44":  {10, 10},
	"91":  {10, 10},
	"49":  {10, 11},
	"971": {9, 9},
}

var defaultPhoneRange = [2]int{7, 12}

// Postal formats checked only when the field is non-empty.
var postalRes = map[string]*regexp.Regexp{
	"Kenya":          regexp.MustCompile(`^\d{5}$`),
	"Tanzania":       regexp.MustCompile(`^\d{5}$`),
	"Uganda":         regexp.MustCompile(`^\d{5}$`),
	"United States":  regexp.MustCompile(`^\d{5}(-\d{4})?$`),
	"United Kingdom": regexp.MustCompile(`^[A-Za-z0-9 ]{5,8}$`),
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone produces the canonical dialCode+nationalNumber form:
// "0712345678" with dial code "254" becomes "254712345678". The same
// string is used for the delivery contact and the payment gateway.
func NormalizePhone(raw, dialCode string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(digits, dialCode):
		digits = digits[len(dialCode):]
	case strings.HasPrefix(digits, "0"):
		digits = strings.TrimLeft(digits, "0")
	}
	return dialCode + digits
}

// ValidatePhone checks the national-number length against the dial
// code's known range, or the conservative default for unlisted codes.
func ValidatePhone(raw, dialCode string) error {
	national := strings.TrimPrefix(NormalizePhone(raw, dialCode), dialCode)
	r, ok := phoneRanges[dialCode]
	if !ok {
		r = defaultPhoneRange
	}
	if len(national) < r[0] || len(national) > r[1] {
		return ValidationError{Field: "phone", Message: fmt.Sprintf("phone number must be %d-%d digits for +%s", r[0], r[1], dialCode)}
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return ValidationError{Field: "email", Message: "enter a valid email address"}
	}
	return nil
}

func ValidatePostalCode(country, code string) error {
	if code == "" {
		return nil // optional
	}
	re, ok := postalRes[country]
	if !ok {
		return nil
	}
	if !re.MatchString(code) {
		return ValidationError{Field: "postalCode", Message: "postal code format is invalid for " + country}
	}
	return nil
}
