// Package view assembles the request-scoped parts of a page (signed-in chef,
// theme, toasts) and hands the result to the renderer.
package view

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/flash"
	"github.com/matt-dz/savorystories/internal/model"
	"github.com/matt-dz/savorystories/internal/web/render"
	"github.com/matt-dz/savorystories/internal/web/requestid"
	"github.com/matt-dz/savorystories/internal/web/token"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// NewBase collects what the layout needs for the current request. It pops
// pending toasts, so call it once per rendered page.
func NewBase(w http.ResponseWriter, r *http.Request, title string) render.Base {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	visitor := token.VisitorFromCtx(ctx)
	_, signedIn := backend.TokenFromCtx(ctx)

	base := render.Base{
		Title:     title,
		Path:      r.URL.Path,
		SignedIn:  signedIn,
		Toasts:    flash.Pop(w, r),
		RequestID: requestid.ExtractRequestID(ctx),
	}
	if visitor == "" {
		return base
	}

	if env.Themes != nil {
		dark, err := env.Themes.IsDark(ctx, visitor)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to load theme", slog.Any("error", err))
		}
		base.Dark = dark
	}
	if chef, ok := CurrentChef(r); ok {
		base.Chef = &chef
	}
	return base
}

// Render renders a full page. A template failure becomes a bare 500.
func Render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	if env.Renderer == nil {
		env.Logger.ErrorContext(ctx, "no renderer configured")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	err := env.Renderer.Page(w, status, page, render.Page{
		Base: NewBase(w, r, title),
		Data: data,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to render page", slog.String("page", page), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Fragment renders a partial on its own, for script driven updates.
func Fragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	if env.Renderer == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	html, err := env.Renderer.FragmentString(name, data)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to render fragment", slog.String("fragment", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// RenderNotFound renders the not-found page with a 404.
func RenderNotFound(w http.ResponseWriter, r *http.Request, nf NotFound) {
	Render(w, r, http.StatusNotFound, "not_found", nf.Heading, nf)
}

// Redirect sends the browser to target with a GET.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// LoginURL is the login page remembering where to go afterwards.
func LoginURL(from string) string {
	if from == "" || from == "/" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{"from": {from}}.Encode()
}

// SignOut forgets the session cookie and the stored profile.
func SignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	http.SetCookie(w, token.ClearSessionCookie(env.Config.IsProd()))
	if visitor := token.VisitorFromCtx(ctx); visitor != "" && env.Profiles != nil {
		if err := env.Profiles.Clear(ctx, visitor); err != nil {
			env.Logger.ErrorContext(ctx, "failed to clear profile", slog.Any("error", err))
		}
	}
}

// Unauthorized reports whether err means the backend rejected the session.
// When it does, the visitor is signed out and sent to the login page.
func Unauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	env.EnvFromCtx(r.Context()).Logger.DebugContext(r.Context(), "backend rejected session")
	SignOut(w, r)
	flash.Warning(w, r, "Your session has expired. Please log in again.")
	from := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		from = DashboardPath
	}
	Redirect(w, r, LoginURL(from))
	return true
}

// CurrentChef returns the stored profile of the signed-in visitor.
func CurrentChef(r *http.Request) (model.Chef, bool) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	visitor := token.VisitorFromCtx(ctx)
	if _, signedIn := backend.TokenFromCtx(ctx); !signedIn || visitor == "" || env.Profiles == nil {
		return model.Chef{}, false
	}
	chef, ok, err := env.Profiles.Load(ctx, visitor)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to load profile", slog.Any("error", err))
		return model.Chef{}, false
	}
	return chef, ok
}
