// Package token contains the cookies the site sets: the backend session
// token it relays and the anonymous visitor id its stores are keyed by.
package token

import (
	"context"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/matt-dz/savorystories/internal/backend"
)

const (
	VisitorCookieName = "sid"

	sessionLifetime = 60 * 60 * 24 * 7   // 7 days
	visitorLifetime = 60 * 60 * 24 * 365 // 1 year
)

type visitorKeyType struct{}

var visitorKey visitorKeyType

// NewVisitorID returns a fresh visitor id.
func NewVisitorID() string {
	return ulid.Make().String()
}

func VisitorWithCtx(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey, id)
}

// VisitorFromCtx returns the visitor id, or "" outside a request.
func VisitorFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey).(string)
	return id
}

// SessionToken returns the backend session token sent by the browser.
func SessionToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(backend.SessionCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func NewSessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     backend.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   sessionLifetime,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     backend.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

func NewVisitorCookie(id string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     VisitorCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   visitorLifetime,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}
