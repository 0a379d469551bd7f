// Package web sets up and starts the web server with routing and
// middleware.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matt-dz/savorystories/internal/env"
	webError "github.com/matt-dz/savorystories/internal/web/error"
	"github.com/matt-dz/savorystories/internal/web/middleware"
	"github.com/matt-dz/savorystories/internal/web/routes/auth"
	"github.com/matt-dz/savorystories/internal/web/routes/content"
	"github.com/matt-dz/savorystories/internal/web/routes/dashboard"
	"github.com/matt-dz/savorystories/internal/web/routes/home"
	"github.com/matt-dz/savorystories/internal/web/routes/ping"
	"github.com/matt-dz/savorystories/internal/web/routes/settings"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func addRoutes(router chi.Router, env *env.Env) {
	router.Get("/ping", ping.HandlePing)
	router.Handle("/static/*", http.StripPrefix("/static", env.Renderer.Static()))

	router.Get("/", home.HandleHome)
	router.Get("/about", home.HandleAbout)
	router.Post("/subscribe", home.HandleSubscribe)
	router.Post("/theme/toggle", home.HandleToggleTheme)

	router.Route("/recipes", func(r chi.Router) {
		r.Get("/", content.Recipes.HandleList)
		r.Get("/live", content.Recipes.HandleLive)
		r.Get("/{slug}", content.Recipes.HandleDetail)
	})
	router.Route("/blog", func(r chi.Router) {
		r.Get("/", content.Blogs.HandleList)
		r.Get("/live", content.Blogs.HandleLive)
		r.Get("/{slug}", content.Blogs.HandleDetail)
	})

	router.Get("/login", auth.HandleLoginPage)
	router.Post("/login", auth.HandleLogin)
	router.Get("/signup", auth.HandleSignupPage)
	router.Post("/signup", auth.HandleSignup)
	router.Post("/signup/profile", auth.HandleSignupProfile)
	router.Post("/logout", auth.HandleLogout)

	router.Route("/dashboard", func(r chi.Router) {
		r.Get("/", dashboard.HandleDashboard)
		r.Get("/recipes/items", dashboard.HandleItems(content.Recipes))
		r.Get("/blogs/items", dashboard.HandleItems(content.Blogs))

		r.Get("/new-recipe", dashboard.Recipes.HandleNew)
		r.Post("/new-recipe", dashboard.Recipes.HandleCreate)
		r.Get("/edit-recipe/{slug}", dashboard.Recipes.HandleEdit)
		r.Post("/edit-recipe/{slug}", dashboard.Recipes.HandleUpdate)
		r.Post("/recipes/{id}/delete", dashboard.Recipes.HandleDelete)

		r.Get("/new-blog", dashboard.Blogs.HandleNew)
		r.Post("/new-blog", dashboard.Blogs.HandleCreate)
		r.Get("/edit-blog/{slug}", dashboard.Blogs.HandleEdit)
		r.Post("/edit-blog/{slug}", dashboard.Blogs.HandleUpdate)
		r.Post("/blogs/{id}/delete", dashboard.Blogs.HandleDelete)

		r.Get("/settings", settings.HandleSettings)
		r.Post("/settings/profile", settings.HandleProfile)
		r.Post("/settings/password", settings.HandlePassword)
		r.Post("/settings/delete-account", settings.HandleDeleteAccount)
	})

	router.NotFound(webError.NotFoundHandler)
	router.MethodNotAllowed(webError.MethodNotAllowedHandler)
}

// NewRouter returns the site's handler with every middleware applied.
func NewRouter(env *env.Env) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(chimw.Recoverer)
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.Visitor)
	router.Use(middleware.Session)
	router.Use(middleware.Guard)

	addRoutes(router, env)
	return router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, env *env.Env) error {
	srv := &http.Server{
		Addr:              env.Config.ListenAddr,
		Handler:           NewRouter(env),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		env.Logger.Info(fmt.Sprintf("Listening at %s", env.Config.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	env.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
