// Package settings contains the handlers of the chef's settings page:
// profile details, password and account deletion.
package settings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/flash"
	"github.com/matt-dz/savorystories/internal/form"
	"github.com/matt-dz/savorystories/internal/publish"
	"github.com/matt-dz/savorystories/internal/signup"
	"github.com/matt-dz/savorystories/internal/web/token"
	"github.com/matt-dz/savorystories/internal/web/view"
)

const settingsPath = view.DashboardPath + "/settings"

func render(w http.ResponseWriter, r *http.Request, status int, data view.Settings) {
	chef, _ := view.CurrentChef(r)
	data.Chef = chef
	if data.Profile == (form.Profile{}) {
		data.Profile = form.Profile{Name: chef.Name, Bio: chef.Bio}
	}
	view.Render(w, r, status, "settings", "Settings", data)
}

func HandleSettings(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.Settings{})
}

// HandleProfile saves name and bio, then the avatar when one was chosen.
func HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

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
		render(w, r, http.StatusUnprocessableEntity, view.Settings{Profile: f, ProfileErrors: errs})
		return
	}

	env.Logger.DebugContext(ctx, "updating profile")
	flow := signup.New(env.Backend, env.Profiles, env.Logger)
	_, err = flow.Profile(ctx, token.VisitorFromCtx(ctx), f.Update(), avatar)
	switch {
	case err == nil:
		flash.Success(w, r, "Profile updated successfully!")
	case errors.Is(err, publish.ErrImageNotAttached):
		env.Logger.ErrorContext(ctx, "failed to upload avatar", slog.Any("error", err))
		flash.Warning(w, r, "Profile saved, but the photo could not be uploaded")
	default:
		if view.Unauthorized(w, r, err) {
			return
		}
		env.Logger.ErrorContext(ctx, "failed to update profile", slog.Any("error", err))
		flash.Error(w, r, backend.Message(err, "Failed to update profile"))
		render(w, r, http.StatusBadRequest, view.Settings{Profile: f})
		return
	}
	view.Redirect(w, r, settingsPath)
}

// HandlePassword changes the password. The new password is checked for
// strength before the backend is asked.
func HandlePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	if err := r.ParseForm(); err != nil {
		env.Logger.DebugContext(ctx, "failed to parse form", slog.Any("error", err))
	}
	var f form.Password
	errs, err := form.Parse(r.PostForm, &f)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode password form", slog.Any("error", err))
	}
	if errs.Any() {
		render(w, r, http.StatusUnprocessableEntity, view.Settings{PasswordErrors: errs})
		return
	}

	env.Logger.DebugContext(ctx, "changing password")
	if err := env.Backend.ChangePassword(ctx, f.Change()); err != nil {
		if view.Unauthorized(w, r, err) {
			return
		}
		env.Logger.ErrorContext(ctx, "failed to change password", slog.Any("error", err))
		flash.Error(w, r, backend.Message(err, "Failed to update password"))
		render(w, r, http.StatusBadRequest, view.Settings{})
		return
	}
	flash.Success(w, r, "Password updated successfully!")
	view.Redirect(w, r, settingsPath)
}

// HandleDeleteAccount removes the account and signs the visitor out.
func HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	env.Logger.DebugContext(ctx, "deleting account")
	if err := env.Backend.DeleteAccount(ctx); err != nil {
		if view.Unauthorized(w, r, err) {
			return
		}
		env.Logger.ErrorContext(ctx, "failed to delete account", slog.Any("error", err))
		flash.Error(w, r, backend.Message(err, "Failed to delete account"))
		view.Redirect(w, r, settingsPath)
		return
	}

	env.Cache.Invalidate(env.Backend.Recipes.Route())
	env.Cache.Invalidate(env.Backend.Blogs.Route())
	view.SignOut(w, r)
	flash.Success(w, r, "Account deleted. Hope to see you again!")
	view.Redirect(w, r, "/")
}
