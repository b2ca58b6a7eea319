package checkout

import "strings"

// NormalizePhone rewrites a customer phone number to canonical
// international form: "+" followed by country code and subscriber digits.
// A national trunk "0" prefix is replaced with the tenant's country code,
// as is a bare subscriber number.
func NormalizePhone(raw, countryCode string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return "", ErrMissingPhone
	}

	hasPlus := strings.HasPrefix(cleaned, "+")
	digits := strings.TrimPrefix(cleaned, "+")
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}

	switch {
	case hasPlus:
		// already international, but a country code never starts with 0
		if strings.HasPrefix(digits, "0") {
			return "", ErrInvalidPhone
		}
	case strings.HasPrefix(digits, "00"):
		digits = digits[2:]
	case strings.HasPrefix(digits, "0"):
		digits = countryCode + digits[1:]
	case strings.HasPrefix(digits, countryCode):
		// international form without the plus
	default:
		digits = countryCode + digits
	}

	if len(digits) < 9 || len(digits) > 15 {
		return "", ErrInvalidPhone
	}
	return "+" + digits, nil
}
