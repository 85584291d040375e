package internal

import "unicode"

// PasswordStrength scores a password from 0 to 100 in steps of 25:
// length of at least 8, mixed case, a digit, and a symbol each add 25.
func PasswordStrength(password string) int {
	strength := 0

	if len(password) >= 8 {
		strength += 25
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if hasLower && hasUpper {
		strength += 25
	}
	if hasDigit {
		strength += 25
	}
	if hasSymbol {
		strength += 25
	}

	return strength
}

// PasswordStrengthLabel maps a strength score to a user-facing label.
func PasswordStrengthLabel(strength int) string {
	switch {
	case strength <= 25:
		return "weak"
	case strength <= 50:
		return "fair"
	case strength <= 75:
		return "good"
	default:
		return "strong"
	}
}
