package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/tasklist/internal/common"
)

// SpecialCharacters is the set a password must draw at least one character
// from to satisfy the complexity policy.
const SpecialCharacters = `!@#$%^&*()-_=+[]{};:'",.<>/?\|~` + "`"

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 10

// ValidatePassword checks the registration password complexity policy and
// returns one error per violated rule, each wrapping common.ErrorValidation.
// Rules are checked independently so a caller can report all failures at once.
func ValidatePassword(password string) []error {
	var errs []error

	if len(password) < minPasswordLength {
		errs = append(errs, fmt.Errorf("%w: password must be at least %d characters long", common.ErrorValidation, minPasswordLength))
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if strings.ContainsRune(SpecialCharacters, r) {
			hasSpecial = true
		}
	}

	if !hasLetter {
		errs = append(errs, fmt.Errorf("%w: password must contain at least one letter", common.ErrorValidation))
	}
	if !hasDigit {
		errs = append(errs, fmt.Errorf("%w: password must contain at least one digit", common.ErrorValidation))
	}
	if !hasSpecial {
		errs = append(errs, fmt.Errorf("%w: password must contain at least one special character", common.ErrorValidation))
	}

	return errs
}
