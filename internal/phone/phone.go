// Package phone canonicalises Kenyan mobile numbers to the local ten digit
// form, e.g. 0712345678.
package phone

import (
	"strings"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
)

var ErrInvalid = apperror.New(apperror.KindValidation, "invalid phone number")

// Normalize accepts 0712345678, 712345678, 254712345678 and +254712345678,
// with or without spaces and dashes.
func Normalize(s string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '+', r == '(', r == ')':
			return -1
		default:
			return 'x'
		}
	}, s)

	if strings.ContainsRune(digits, 'x') {
		return "", ErrInvalid
	}

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "254"):
		digits = "0" + digits[3:]
	case len(digits) == 9 && digits[0] != '0':
		digits = "0" + digits
	}

	if len(digits) != 10 || digits[0] != '0' {
		return "", ErrInvalid
	}

	return digits, nil
}
