// Package home contains the handlers of the landing, about and newsletter
// pages and the theme toggle.
package home

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/flash"
	"github.com/matt-dz/savorystories/internal/form"
	"github.com/matt-dz/savorystories/internal/web/routes/content"
	"github.com/matt-dz/savorystories/internal/web/token"
	"github.com/matt-dz/savorystories/internal/web/view"
)

// homeData fetches the featured sections in parallel. A failing section is
// flagged and the other one still renders.
func homeData(ctx context.Context) view.Home {
	env := env.EnvFromCtx(ctx)
	var data view.Home

	var g errgroup.Group
	g.Go(func() error {
		recipes, err := content.Recipes.Featured(ctx)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to load featured recipes", slog.Any("error", err))
			data.RecipesFailed = true
			return nil
		}
		data.Recipes = recipes
		return nil
	})
	g.Go(func() error {
		blogs, err := content.Blogs.Featured(ctx)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to load featured blogs", slog.Any("error", err))
			data.BlogsFailed = true
			return nil
		}
		data.Blogs = blogs
		return nil
	})
	_ = g.Wait()
	return data
}

func HandleHome(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, http.StatusOK, "home", "", homeData(r.Context()))
}

func HandleAbout(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, http.StatusOK, "about", "About", nil)
}

// HandleSubscribe adds an email to the newsletter. Validation errors
// re-render the home page with the message under the field.
func HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	if err := r.ParseForm(); err != nil {
		env.Logger.DebugContext(ctx, "failed to parse form", slog.Any("error", err))
	}
	var f form.Subscribe
	errs, err := form.Parse(r.PostForm, &f)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode subscribe form", slog.Any("error", err))
	}
	if errs.Any() {
		data := homeData(ctx)
		data.Subscribe = view.Subscribe{Email: f.Email, Errors: errs}
		view.Render(w, r, http.StatusUnprocessableEntity, "home", "", data)
		return
	}

	env.Logger.DebugContext(ctx, "subscribing to newsletter")
	if _, err := env.Backend.Subscribe(ctx, strings.ToLower(f.Email)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to subscribe", slog.Any("error", err))
		flash.Error(w, r, backend.Message(err, "Something went wrong. Please try again."))
	} else {
		flash.Success(w, r, "Successfully Subscribed!")
	}
	view.Redirect(w, r, "/#newsletter")
}

// HandleToggleTheme flips the visitor's dark mode preference and returns to
// the page the toggle was pressed on.
func HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	if visitor := token.VisitorFromCtx(ctx); visitor != "" && env.Themes != nil {
		if _, err := env.Themes.Toggle(ctx, visitor); err != nil {
			env.Logger.ErrorContext(ctx, "failed to toggle theme", slog.Any("error", err))
		}
	}

	back := r.PostFormValue("from")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = "/"
	}
	view.Redirect(w, r, back)
}
