// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/config"
	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/fetch"
	apphttp "github.com/matt-dz/savorystories/internal/http"
	"github.com/matt-dz/savorystories/internal/log"
	"github.com/matt-dz/savorystories/internal/store"
	"github.com/matt-dz/savorystories/internal/web/render"
)

// Logger creates the application logger at the configured level. JSON is
// used in production and text everywhere else.
func Logger(conf config.Config) *slog.Logger {
	format := log.FormatText
	if conf.IsProd() {
		format = log.FormatJSON
	}
	return log.New(format, &slog.HandlerOptions{
		Level: log.ParseLevel(conf.LogLevel),
	})
}

// Store opens the persistence adapter behind the visitor stores.
func Store(ctx context.Context, conf config.Store) (store.Driver, error) {
	switch conf.Driver {
	case config.StoreMemory:
		return store.NewMemory(), nil
	case config.StoreSQLite:
		return store.OpenSQL(ctx, store.DialectSQLite, conf.DSN)
	case config.StorePostgres:
		return store.OpenSQL(ctx, store.DialectPostgres, conf.DSN)
	case config.StoreRedis:
		return store.OpenRedis(ctx, conf.DSN)
	default:
		return nil, NewUnsupportedDriverError(conf.Driver)
	}
}

// Backend creates the content API client. Reads are retried up to
// RetryMax times; mutations never are.
func Backend(conf config.Backend, logger *slog.Logger) (*backend.Client, error) {
	httpConfig := apphttp.DefaultConfig()
	httpConfig.Timeout = conf.Timeout
	httpConfig.RetryMax = conf.RetryMax
	httpConfig.Logger = logger

	client, err := backend.New(conf.URL, apphttp.New(httpConfig), logger)
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}
	return client, nil
}

// Env assembles every dependency the handlers need. The returned driver
// must be closed by the caller.
func Env(ctx context.Context, conf config.Config, logger *slog.Logger) (*env.Env, store.Driver, error) {
	client, err := Backend(conf.Backend, logger)
	if err != nil {
		return nil, nil, err
	}

	cache, err := fetch.New(conf.Cache.Size, conf.Cache.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("creating cache: %w", err)
	}

	// Without an image base every stored image renders as the placeholder.
	renderer, err := render.New(conf.Backend.ImageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing templates: %w", err)
	}

	logger.DebugContext(ctx, "opening store", slog.String("driver", conf.Store.Driver))
	driver, err := Store(ctx, conf.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	return &env.Env{
		Logger:   logger,
		Config:   conf,
		Backend:  client,
		Cache:    cache,
		Profiles: store.NewProfiles(driver),
		Themes:   store.NewThemes(driver),
		Renderer: renderer,
	}, driver, nil
}
