// Package jwt reads claims from the session token issued by the backend.
// The signing secret belongs to the backend, so signatures are not
// verified here; the backend rejects forged tokens on the next call.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt returns the exp claim of rawToken. ok is false when the token
// cannot be parsed or carries no exp claim.
func ExpiresAt(rawToken string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return time.Time{}, false
	}
	date, err := claims.GetExpirationTime()
	if err != nil || date == nil {
		return time.Time{}, false
	}
	return date.Time, true
}

// Expired reports whether rawToken is unusable at now: malformed, or past
// its exp claim. A well-formed token without exp never expires.
func Expired(rawToken string, now time.Time) bool {
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{}); err != nil {
		return true
	}
	exp, ok := ExpiresAt(rawToken)
	if !ok {
		return false
	}
	return !now.Before(exp)
}

// Subject returns the sub claim of rawToken.
func Subject(rawToken string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("reading subject: %w", err)
	}
	return sub, nil
}
