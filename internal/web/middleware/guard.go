package middleware

import (
	"net/http"
	"strings"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/web/view"
)

func isDashboard(path string) bool {
	return path == view.DashboardPath || strings.HasPrefix(path, view.DashboardPath+"/")
}

func isAuthPage(path string) bool {
	return path == view.LoginPath || path == "/signup"
}

// Decide returns where a request for uri should be redirected, or "" to let
// it through. Dashboard pages need a session; the login and signup pages
// make no sense with one.
func Decide(uri string, hasToken bool) string {
	path, _, _ := strings.Cut(uri, "?")
	switch {
	case !hasToken && isDashboard(path):
		return view.LoginURL(uri)
	case hasToken && isAuthPage(path):
		return view.DashboardPath
	default:
		return ""
	}
}

// Guard applies Decide to every request. It must run after Session.
func Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasToken := backend.TokenFromCtx(r.Context())
		if target := Decide(r.URL.RequestURI(), hasToken); target != "" {
			env.EnvFromCtx(r.Context()).Logger.DebugContext(r.Context(), "guard redirect")
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SafeFrom returns from when it is a local path worth returning to after
// login, and the dashboard otherwise.
func SafeFrom(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") ||
		strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return view.DashboardPath
	}
	path, _, _ := strings.Cut(from, "?")
	if isAuthPage(path) {
		return view.DashboardPath
	}
	return from
}
