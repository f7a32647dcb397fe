package format

import (
	"errors"
	"regexp"
	"strings"
)

var (
	nonDigitRegex    = regexp.MustCompile(`\D`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	ErrInvalidNumber = errors.New("enter valid number: +254 XXX XXX XXX")
)

const countryCode = "254"

// NormalizePhone folds the local spellings of a Kenyan number
// (0712…, 254712…, +254 712…, 254254712…) into "+254712345678".
func NormalizePhone(raw string) (string, error) {
	digits := nonDigitRegex.ReplaceAllString(raw, "")

	switch {
	case strings.HasPrefix(digits, countryCode+countryCode):
		digits = strings.TrimPrefix(digits, countryCode)
	case strings.HasPrefix(digits, "0"):
		digits = countryCode + strings.TrimPrefix(digits, "0")
	}

	if len(digits) != 12 || !strings.HasPrefix(digits, countryCode) {
		return "", ErrInvalidNumber
	}
	return "+" + digits, nil
}

// DisplayPhone groups a stored number as "+254 712 345 678".
// Numbers in an unexpected shape are returned unchanged.
func DisplayPhone(number string) string {
	digits := nonDigitRegex.ReplaceAllString(number, "")
	if len(digits) < 12 || !strings.HasPrefix(digits, countryCode) {
		return number
	}

	rest := digits[len(countryCode):]
	groups := make([]string, 0, 4)
	for len(rest) > 3 {
		groups = append(groups, rest[:3])
		rest = rest[3:]
	}
	groups = append(groups, rest)

	return "+" + countryCode + " " + strings.Join(groups, " ")
}

// IsNumeric reports whether s, ignoring spaces and a leading '+', is all digits.
func IsNumeric(s string) bool {
	s = strings.TrimPrefix(whitespaceRegex.ReplaceAllString(s, ""), "+")
	if s == "" {
		return false
	}
	return !nonDigitRegex.MatchString(s)
}
