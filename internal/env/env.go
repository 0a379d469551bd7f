// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/config"
	"github.com/matt-dz/savorystories/internal/fetch"
	"github.com/matt-dz/savorystories/internal/log"
	"github.com/matt-dz/savorystories/internal/store"
	"github.com/matt-dz/savorystories/internal/web/render"
)

type Env struct {
	Logger   *slog.Logger
	Config   config.Config
	Backend  *backend.Client
	Cache    *fetch.Cache
	Profiles *store.Profiles
	Themes   *store.Themes
	Renderer *render.Renderer
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx returns a context carrying env.
func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx returns the env stored by WithCtx, or a Null env.
func EnvFromCtx(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey).(*Env); ok {
		return env
	}
	return Null()
}

// Null returns an env that logs nowhere and has no dependencies.
func Null() *Env {
	return &Env{
		Logger: log.NullLogger(),
	}
}
