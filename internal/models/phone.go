package models

import "strings"

// DefaultCountryCode is prefixed to national numbers that start with a single 0.
const DefaultCountryCode = "49"

// NormalizePhone converts a phone number to international digits without a
// leading plus, e.g. "0170 123-4567" becomes "491701234567".
func NormalizePhone(phone, countryCode string) string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "00"):
		digits = digits[2:]
	case strings.HasPrefix(digits, "0"):
		digits = countryCode + digits[1:]
	}

	// "+49 (0) 170..." style numbers keep a trunk zero after the country code
	if strings.HasPrefix(digits, countryCode+"0") {
		digits = countryCode + digits[len(countryCode)+1:]
	}
	return digits
}
