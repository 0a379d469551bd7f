// Package auth contains handlers for logging in, registering and logging
// out.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/flash"
	"github.com/matt-dz/savorystories/internal/form"
	"github.com/matt-dz/savorystories/internal/publish"
	"github.com/matt-dz/savorystories/internal/signup"
	"github.com/matt-dz/savorystories/internal/web/middleware"
	"github.com/matt-dz/savorystories/internal/web/token"
	"github.com/matt-dz/savorystories/internal/web/view"
)

func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, http.StatusOK, "login", "Log in", view.Login{
		From: r.URL.Query().Get("from"),
	})
}

// HandleLogin signs the chef in, keeps the profile for the header and
// returns to the page the guard sent them from.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	if err := r.ParseForm(); err != nil {
		env.Logger.DebugContext(ctx, "failed to parse form", slog.Any("error", err))
	}
	from := r.PostForm.Get("from")

	var f form.Login
	errs, err := form.Parse(r.PostForm, &f)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode login form", slog.Any("error", err))
	}
	if errs.Any() {
		view.Render(w, r, http.StatusUnprocessableEntity, "login", "Log in", view.Login{Form: f, Errors: errs, From: from})
		return
	}

	env.Logger.DebugContext(ctx, "logging in")
	session, err := env.Backend.Login(ctx, f.Credentials())
	if err == nil && session.Token == "" {
		err = errors.New("backend issued no session")
	}
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to log in", slog.Any("error", err))
		flash.Error(w, r, backend.Message(err, "Login failed"))
		f.Password = ""
		view.Render(w, r, http.StatusUnauthorized, "login", "Log in", view.Login{Form: f, From: from})
		return
	}

	http.SetCookie(w, token.NewSessionCookie(session.Token, env.Config.IsProd()))
	if visitor := token.VisitorFromCtx(ctx); visitor != "" && env.Profiles != nil {
		if err := env.Profiles.Set(ctx, visitor, session.Chef); err != nil {
			env.Logger.ErrorContext(ctx, "failed to store profile", slog.Any("error", err))
		}
	}
	flash.Success(w, r, "Login Successfull")
	view.Redirect(w, r, middleware.SafeFrom(from))
}

func HandleSignupPage(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, http.StatusOK, "signup", "Sign up", view.Signup{Step: int(signup.StepAccount)})
}

func flow(r *http.Request) *signup.Flow {
	env := env.EnvFromCtx(r.Context())
	return signup.New(env.Backend, env.Profiles, env.Logger)
}

// HandleSignup runs the account step. On success the session cookie is set
// and the profile step is rendered in place.
func HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	if err := r.ParseForm(); err != nil {
		env.Logger.DebugContext(ctx, "failed to parse form", slog.Any("error", err))
	}
	var f form.Signup
	errs, err := form.Parse(r.PostForm, &f)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode signup form", slog.Any("error", err))
	}
	step := view.Signup{Step: int(signup.StepAccount), Account: f, Errors: errs}
	if errs.Any() {
		step.Account.Password = ""
		view.Render(w, r, http.StatusUnprocessableEntity, "signup", "Sign up", step)
		return
	}

	env.Logger.DebugContext(ctx, "registering chef")
	session, err := flow(r).Account(ctx, token.VisitorFromCtx(ctx), f.Registration())
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to register", slog.Any("error", err))
		flash.Error(w, r, backend.Message(err, "Something went wrong"))
		step.Account.Password = ""
		view.Render(w, r, http.StatusBadRequest, "signup", "Sign up", step)
		return
	}

	http.SetCookie(w, token.NewSessionCookie(session.Token, env.Config.IsProd()))
	r = r.WithContext(backend.WithToken(ctx, session.Token))
	view.Render(w, r, http.StatusOK, "signup", "Your profile", view.Signup{
		Step:    int(signup.StepAccount.Next()),
		Profile: form.Profile{Name: session.Chef.Name, Bio: session.Chef.Bio},
	})
}

// HandleSignupProfile runs the profile step with the session from the
// account step.
func HandleSignupProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	if _, ok := backend.TokenFromCtx(ctx); !ok {
		view.Redirect(w, r, "/signup")
		return
	}

	render := func(status int, f form.Profile, errs form.Errors) {
		view.Render(w, r, status, "signup", "Your profile", view.Signup{
			Step:    int(signup.StepProfile),
			Profile: f,
			Errors:  errs,
		})
	}

	parseErr := form.ParseMultipart(w, r)
	var f form.Profile
	errs, err := form.Parse(r.Form, &f)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode profile form", slog.Any("error", err))
	}
	if errs == nil {
		errs = form.Errors{}
	}
	var avatar *backend.Upload
	if parseErr != nil {
		errs["avatar"] = form.ImageMessage(parseErr)
	} else if avatar, err = form.Image(r, "avatar"); err != nil {
		errs["avatar"] = form.ImageMessage(err)
	}
	if errs.Any() {
		render(http.StatusUnprocessableEntity, f, errs)
		return
	}

	env.Logger.DebugContext(ctx, "completing profile")
	chef, err := flow(r).Profile(ctx, token.VisitorFromCtx(ctx), f.Update(), avatar)
	switch {
	case errors.Is(err, publish.ErrImageNotAttached):
		env.Logger.ErrorContext(ctx, "failed to upload avatar", slog.Any("error", err))
		flash.Warning(w, r, backend.Message(err, "Your profile was saved but the photo could not be uploaded"))
	case err != nil:
		if view.Unauthorized(w, r, err) {
			return
		}
		env.Logger.ErrorContext(ctx, "failed to update profile", slog.Any("error", err))
		flash.Error(w, r, backend.Message(err, "Something went wrong"))
		render(http.StatusBadRequest, f, nil)
		return
	}

	flash.Success(w, r, fmt.Sprintf("Welcome to Savory Stories, %s", chef.Name))
	view.Redirect(w, r, view.DashboardPath)
}

// HandleLogout ends the backend session and forgets the local one, even
// when the backend call fails.
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	if _, ok := backend.TokenFromCtx(ctx); ok {
		if err := env.Backend.Logout(ctx); err != nil {
			env.Logger.ErrorContext(ctx, "failed to log out", slog.Any("error", err))
		}
	}
	view.SignOut(w, r)
	view.Redirect(w, r, "/")
}
