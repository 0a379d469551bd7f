package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/backend/backendtest"
	apphttp "github.com/matt-dz/savorystories/internal/http"
	"github.com/matt-dz/savorystories/internal/model"
)

func TestWithImageCallOrder(t *testing.T) {
	var calls []string
	save := func(context.Context) (string, error) {
		calls = append(calls, "save")
		return "saved", nil
	}
	attach := func(_ context.Context, v string) (string, error) {
		calls = append(calls, "attach:"+v)
		return v + "+image", nil
	}

	got, err := WithImage(context.Background(), save, attach)
	require.NoError(t, err)
	assert.Equal(t, "saved+image", got)
	assert.Equal(t, []string{"save", "attach:saved"}, calls)
}

func TestWithImageSaveFails(t *testing.T) {
	boom := errors.New("boom")
	attached := false
	_, err := WithImage(context.Background(),
		func(context.Context) (int, error) { return 0, boom },
		func(_ context.Context, v int) (int, error) { attached = true; return v, nil },
	)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrImageNotAttached)
	assert.False(t, attached)
}

func TestWithImageNoAttach(t *testing.T) {
	got, err := WithImage(context.Background(),
		func(context.Context) (int, error) { return 7, nil },
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func newClient(t *testing.T, srv *backendtest.Server, token string) (*backend.Client, context.Context) {
	t.Helper()
	client, err := backend.New(srv.URL, apphttp.New(apphttp.DefaultConfig()), nil)
	require.NoError(t, err)
	return client, backend.WithToken(context.Background(), token)
}

func TestRecipeImageAttachedAfterCreate(t *testing.T) {
	srv := backendtest.New(t)
	_, token := srv.AddChef("Ada", "ada@example.com", "secret123")
	client, ctx := newClient(t, srv, token)

	upload := backend.Upload{Filename: "soup.png", ContentType: "image/png", Data: []byte("png")}
	recipe, err := WithImage(ctx,
		func(ctx context.Context) (model.Recipe, error) {
			return client.Recipes.Create(ctx, model.RecipeInput{Title: "Tomato soup", Description: "Warm"})
		},
		func(ctx context.Context, r model.Recipe) (model.Recipe, error) {
			return client.Recipes.UploadImage(ctx, r.ID, upload)
		},
	)
	require.NoError(t, err)
	assert.NotEmpty(t, recipe.Image)

	stored, ok := srv.Recipe(recipe.ID)
	require.True(t, ok)
	assert.Equal(t, recipe.Image, stored.Image)
}

func TestRecipeKeptWhenUploadFails(t *testing.T) {
	srv := backendtest.New(t)
	_, token := srv.AddChef("Ada", "ada@example.com", "secret123")
	srv.SetFailUploads(true)
	client, ctx := newClient(t, srv, token)

	upload := backend.Upload{Filename: "soup.png", ContentType: "image/png", Data: []byte("png")}
	recipe, err := WithImage(ctx,
		func(ctx context.Context) (model.Recipe, error) {
			return client.Recipes.Create(ctx, model.RecipeInput{Title: "Tomato soup", Description: "Warm"})
		},
		func(ctx context.Context, r model.Recipe) (model.Recipe, error) {
			return client.Recipes.UploadImage(ctx, r.ID, upload)
		},
	)
	require.ErrorIs(t, err, ErrImageNotAttached)
	require.NotEmpty(t, recipe.ID)

	stored, ok := srv.Recipe(recipe.ID)
	require.True(t, ok, "record survives the failed upload")
	assert.Empty(t, stored.Image)
	assert.Equal(t, 1, srv.RecipeCount())
}
