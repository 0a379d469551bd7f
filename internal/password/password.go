// Package password holds the strength rules for the password a chef picks
// at signup or in settings.
package password

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

const (
	minimumLength      = 8
	minimumEntropyBits = 40
	// Shorter name parts such as "Ada" are too common to refuse.
	minimumPersonalPart = 4
)

var (
	ErrTooShort    = errors.New("password must be at least 8 characters")
	ErrNoUppercase = errors.New("must contain at least one uppercase letter")
	ErrNoLowercase = errors.New("must contain at least one lowercase letter")
	ErrNoDigit     = errors.New("must contain at least one number")
	ErrTooWeak     = errors.New("password is too easy to guess")
	ErrPersonal    = errors.New("password must not contain your name or email")
)

type rule struct {
	holds func(string) bool
	err   error
}

func hasRune(is func(rune) bool) func(string) bool {
	return func(s string) bool { return strings.IndexFunc(s, is) >= 0 }
}

var rules = []rule{
	{holds: func(s string) bool { return utf8.RuneCountInString(s) >= minimumLength }, err: ErrTooShort},
	{holds: hasRune(unicode.IsUpper), err: ErrNoUppercase},
	{holds: hasRune(unicode.IsLower), err: ErrNoLowercase},
	{holds: hasRune(unicode.IsDigit), err: ErrNoDigit},
}

// Validate returns the first rule password breaks, or nil. personal are the
// chef's own name and email; a password built around one of them is
// refused last, after every rule that needs no context.
func Validate(password string, personal ...string) error {
	for _, r := range rules {
		if !r.holds(password) {
			return r.err
		}
	}

	if err := passwordvalidator.Validate(password, minimumEntropyBits); err != nil {
		return errors.Join(ErrTooWeak, err)
	}

	if containsPersonal(password, personal) {
		return ErrPersonal
	}
	return nil
}

// containsPersonal looks for each word of a name, or the local part of an
// email, inside password.
func containsPersonal(password string, personal []string) bool {
	lower := strings.ToLower(password)
	for _, p := range personal {
		p = strings.ToLower(strings.TrimSpace(p))
		if local, _, ok := strings.Cut(p, "@"); ok {
			p = local
		}
		parts := strings.FieldsFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, part := range parts {
			if utf8.RuneCountInString(part) >= minimumPersonalPart && strings.Contains(lower, part) {
				return true
			}
		}
	}
	return false
}
