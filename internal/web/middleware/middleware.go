// Package middleware contains middleware functions for the web front end
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/jwt"
	"github.com/matt-dz/savorystories/internal/log"
	"github.com/matt-dz/savorystories/internal/web/requestid"
	"github.com/matt-dz/savorystories/internal/web/token"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			return []slog.Attr{slog.String("request_id", requestid.ExtractRequestID(r.Context()))}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := requestid.New()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.String("request_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// Visitor makes sure every browser carries a visitor id. Per-visitor state
// (theme, cached profile) is keyed by it.
func Visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(token.VisitorCookieName); err == nil && c.Value != "" {
			id = c.Value
		} else {
			id = token.NewVisitorID()
			secure := env.EnvFromCtx(r.Context()).Config.IsProd()
			http.SetCookie(w, token.NewVisitorCookie(id, secure))
		}
		r = r.WithContext(token.VisitorWithCtx(r.Context(), id))
		next.ServeHTTP(w, r)
	})
}

// Session relays the backend session cookie into the request context so
// the backend client sends it along. With expiry checking enabled an
// expired token is dropped as if it were absent.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := token.SessionToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		env := env.EnvFromCtx(r.Context())
		if env.Config.Guard.CheckExpiry && jwt.Expired(raw, time.Now()) {
			env.Logger.DebugContext(r.Context(), "dropping expired session token")
			http.SetCookie(w, token.ClearSessionCookie(env.Config.IsProd()))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(backend.WithToken(r.Context(), raw)))
	})
}
