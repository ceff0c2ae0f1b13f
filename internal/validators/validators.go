// Package validators holds the pure input validators and formatters used by
// registration and update flows. Every function is total: malformed input
// validates to false, nothing panics.
package validators

import (
	"regexp"
	"strings"
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe   = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	postalCodeRe = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	nonDigitRe   = regexp.MustCompile(`[^\d]`)
)

// StripDigits removes everything but decimal digits. It is the single
// normalization point for national IDs, phones and postal codes: callers
// must strip before validating, before any uniqueness check, and before
// writing to the store.
func StripDigits(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

// ValidateNationalID checks the 11-digit national ID using the two-stage
// weighted check-digit algorithm: digit 10 is weighted 10..2 and digit 11
// is weighted 11..2, each summed modulo 11 with remainders below 2 mapping
// to zero. Strings of eleven identical digits are rejected outright.
func ValidateNationalID(id string) bool {
	id = StripDigits(id)
	if len(id) != 11 {
		return false
	}
	if allSameDigits(id) {
		return false
	}
	if checkDigit(id, 9, 10) != int(id[9]-'0') {
		return false
	}
	return checkDigit(id, 10, 11) == int(id[10]-'0')
}

func allSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// checkDigit computes the verification digit over the first n digits with
// the given starting weight.
func checkDigit(id string, n, startWeight int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(id[i]-'0') * (startWeight - i)
	}
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}

// FormatNationalID renders a stored 11-digit ID as XXX.XXX.XXX-XX. Input
// that does not strip to 11 digits is returned stripped and unformatted.
func FormatNationalID(id string) string {
	id = StripDigits(id)
	if len(id) != 11 {
		return id
	}
	return id[0:3] + "." + id[3:6] + "." + id[6:9] + "-" + id[9:11]
}

// ValidateEmail applies a permissive, not RFC-exhaustive, pattern: one @,
// non-empty local and domain parts, a dot somewhere in the domain.
func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateUsername allows 3-30 characters of letters, digits and underscore.
func ValidateUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// ValidatePhone accepts 10 or 11 digits after stripping formatting.
func ValidatePhone(phone string) bool {
	n := len(StripDigits(phone))
	return n >= 10 && n <= 11
}

// ValidatePostalCode accepts the 5+3 digit format with an optional dash.
func ValidatePostalCode(code string) bool {
	return postalCodeRe.MatchString(code)
}

// FormatPostalCode renders a stored 8-digit postal code as XXXXX-XXX.
func FormatPostalCode(code string) string {
	code = StripDigits(code)
	if len(code) != 8 {
		return code
	}
	return code[0:5] + "-" + code[5:8]
}

// ValidateFullName requires at least two space-separated tokens.
func ValidateFullName(name string) bool {
	return len(strings.Fields(strings.TrimSpace(name))) >= 2
}

// ValidateStateCode checks membership in the fixed state-code list.
func ValidateStateCode(code string, known []string) bool {
	code = strings.ToUpper(code)
	for _, s := range known {
		if s == code {
			return true
		}
	}
	return false
}
