package utils

import (
	"fmt"
	"strings"
)

// Israeli mobile carrier series. Valid-length numbers outside this list
// normalize fine but fail IsValidMobile.
var mobilePrefixes = map[string]bool{
	"50": true, "51": true, "52": true, "53": true,
	"54": true, "55": true, "58": true,
}

// NormalizePhone canonicalizes any human-entered Israeli phone string to
// E.164 (+972XXXXXXXXX). Every component stores and compares this form
// only; display formatting happens at presentation boundaries.
//
// Accepted inputs: 0501234567, 050-123-4567, 972501234567, +972501234567,
// +972-50-123-4567. Returns an error when the input cannot be mapped
// unambiguously to a domestic number.
func NormalizePhone(phone string) (string, error) {
	clean := stripPhone(phone)
	if clean == "" {
		return "", fmt.Errorf("invalid phone number: %q", phone)
	}

	switch {
	case strings.HasPrefix(clean, "972"):
		if len(clean) == 12 {
			return "+" + clean, nil
		}
	case strings.HasPrefix(clean, "0"):
		if len(clean) == 10 {
			return "+972" + clean[1:], nil
		}
	case strings.HasPrefix(clean, "5"):
		if len(clean) == 9 {
			return "+972" + clean, nil
		}
	}

	return "", fmt.Errorf("invalid phone number: %q", phone)
}

// IsValidMobile reports whether phone normalizes to an Israeli mobile
// number on a recognized carrier series.
func IsValidMobile(phone string) bool {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return false
	}
	return mobilePrefixes[normalized[4:6]]
}

// FormatPhoneDisplay renders E.164 as +972-50-123-4567. Falls back to
// the input when it cannot be normalized.
func FormatPhoneDisplay(phone string) string {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return phone
	}
	digits := normalized[4:]
	return fmt.Sprintf("+972-%s-%s-%s", digits[:2], digits[2:5], digits[5:])
}

// FormatPhoneLocal renders E.164 in the domestic convention: 050-123-4567.
func FormatPhoneLocal(phone string) string {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return phone
	}
	digits := normalized[4:]
	return fmt.Sprintf("0%s-%s-%s", digits[:2], digits[2:5], digits[5:])
}

// stripPhone drops everything except digits; a leading plus is consumed.
func stripPhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			continue
		}
	}
	return b.String()
}
