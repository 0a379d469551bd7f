package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/backend/backendtest"
	apphttp "github.com/matt-dz/savorystories/internal/http"
	"github.com/matt-dz/savorystories/internal/log"
	"github.com/matt-dz/savorystories/internal/model"
)

func newClient(t *testing.T, baseURL string) *backend.Client {
	t.Helper()
	c, err := backend.New(baseURL, apphttp.New(apphttp.DefaultConfig()), log.NullLogger())
	require.NoError(t, err)
	return c
}

func TestListPagination(t *testing.T) {
	srv := backendtest.New(t)
	chef, _ := srv.AddChef("Ann", "ann@example.com", "secret1")
	srv.SeedRecipes(14, chef)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	opts := backend.ListOptions{Page: 1, Search: "", Sort: backend.SortNewest, Limit: 6}
	first, err := c.Recipes.List(ctx, opts)
	require.NoError(t, err)
	assert.Len(t, first.Data, 6)
	require.NotNil(t, first.Meta)
	assert.Equal(t, 3, first.Meta.LastPage)
	assert.Equal(t, 14, first.Meta.Total)
	assert.Equal(t, "Recipe 14", first.Data[0].Title, "newest first")
	require.NotNil(t, first.Links)
	assert.Empty(t, first.Links.Prev)
	assert.NotEmpty(t, first.Links.Next)

	opts.Page = 3
	last, err := c.Recipes.List(ctx, opts)
	require.NoError(t, err)
	assert.Len(t, last.Data, 2)
	assert.Equal(t, 13, last.Meta.From)
	assert.Equal(t, 14, last.Meta.To)
}

func TestListOutOfRangeIsEmpty(t *testing.T) {
	srv := backendtest.New(t)
	chef, _ := srv.AddChef("Ann", "ann@example.com", "secret1")
	srv.SeedRecipes(3, chef)
	c := newClient(t, srv.URL)

	page, err := c.Recipes.List(context.Background(), backend.ListOptions{Page: 9})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestListSearchAndSort(t *testing.T) {
	srv := backendtest.New(t)
	chef, _ := srv.AddChef("Ann", "ann@example.com", "secret1")
	srv.SeedBlogs(12, chef)
	c := newClient(t, srv.URL)

	page, err := c.Blogs.List(context.Background(), backend.ListOptions{Search: "post 1", Sort: backend.SortOldest})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "Blog post 10", page.Data[0].Title)
	assert.Equal(t, "Blog post 12", page.Data[2].Title)
}

func TestListOptionsValues(t *testing.T) {
	got := backend.ListOptions{}.Values()
	assert.Equal(t, "1", got.Get("page"))
	assert.Equal(t, "6", got.Get("limit"))
	assert.Equal(t, "newest", got.Get("sort"))
	assert.Equal(t, "false", got.Get("home"))
	assert.True(t, got.Has("search"))
}

func TestGetNotFound(t *testing.T) {
	srv := backendtest.New(t)
	c := newClient(t, srv.URL)

	_, err := c.Recipes.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrNotFound))
	assert.Equal(t, "Not found", backend.Message(err, "fallback"))
}

func TestGetEmptyRecord(t *testing.T) {
	srv := backendtest.New(t)
	srv.SetNullMissing(true)
	c := newClient(t, srv.URL)

	_, err := c.Recipes.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrNotFound), "null data is not a recipe")

	noID := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"title":"","slug":""}}`))
	}))
	t.Cleanup(noID.Close)

	_, err = newClient(t, noID.URL).Blogs.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrNotFound), "a record without id is not a blog")
}

func TestUpdateWithoutID(t *testing.T) {
	srv := backendtest.New(t)
	_, token := srv.AddChef("Ann", "ann@example.com", "secret1")
	c := newClient(t, srv.URL)
	ctx := backend.WithToken(context.Background(), token)

	_, err := c.Recipes.Update(ctx, "", model.RecipeInput{Title: "Soup"})
	assert.True(t, errors.Is(err, backend.ErrNotFound))
	_, err = c.Recipes.Delete(ctx, "")
	assert.True(t, errors.Is(err, backend.ErrNotFound))
	assert.Zero(t, srv.Hits("PATCH /recipes"), "no request is sent for an empty id")
	assert.Zero(t, srv.Hits("DELETE /recipes"), "no request is sent for an empty id")
}

func TestMineRequiresSession(t *testing.T) {
	srv := backendtest.New(t)
	ann, annToken := srv.AddChef("Ann", "ann@example.com", "secret1")
	bob, _ := srv.AddChef("Bob", "bob@example.com", "secret1")
	srv.SeedRecipes(8, ann)
	srv.SeedRecipes(2, bob)
	c := newClient(t, srv.URL)

	_, err := c.Recipes.Mine(context.Background())
	assert.True(t, errors.Is(err, backend.ErrUnauthorized))

	mine, err := c.Recipes.Mine(backend.WithToken(context.Background(), annToken))
	require.NoError(t, err)
	assert.Len(t, mine, 8)
	assert.Equal(t, 2, srv.Hits("GET /recipes/my-recipes"))
}

func TestCreateUpdateDelete(t *testing.T) {
	srv := backendtest.New(t)
	_, token := srv.AddChef("Ann", "ann@example.com", "secret1")
	c := newClient(t, srv.URL)
	ctx := backend.WithToken(context.Background(), token)

	created, err := c.Blogs.Create(ctx, model.BlogInput{
		Title:    "A long blog title",
		Category: "news",
		Excerpt:  "An excerpt of twenty characters",
		Content:  "Body",
	})
	require.NoError(t, err)
	assert.Equal(t, "a-long-blog-title", created.Slug)

	updated, err := c.Blogs.Update(ctx, created.ID, model.BlogInput{
		Title:    "A long blog title",
		Category: "travel",
		Excerpt:  "An excerpt of twenty characters",
		Content:  "Body",
	})
	require.NoError(t, err)
	assert.Equal(t, "travel", updated.Category)

	withImage, err := c.Blogs.UploadImage(ctx, created.ID, backend.Upload{
		Filename:    "cover.png",
		ContentType: "image/png",
		Data:        []byte("png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "uploads/blogs/"+created.ID+"/cover.png", withImage.FeaturedImage)

	msg, err := c.Blogs.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deleted successfully", msg)

	_, err = c.Blogs.Get(ctx, created.Slug)
	assert.True(t, errors.Is(err, backend.ErrNotFound))
}

func TestAuthCapturesSessionCookie(t *testing.T) {
	srv := backendtest.New(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	session, err := c.Register(ctx, backend.Registration{
		Name:     "Cleo",
		Email:    "cleo@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.Chef.ID)
	assert.Equal(t, "cleo@example.com", session.Chef.Email)

	_, err = c.Register(ctx, backend.Registration{Name: "Cleo", Email: "cleo@example.com", Password: "secret1"})
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	_, err = c.Login(ctx, backend.Credentials{Email: "cleo@example.com", Password: "wrong-pass"})
	assert.True(t, errors.Is(err, backend.ErrUnauthorized))

	login, err := c.Login(ctx, backend.Credentials{Email: "cleo@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEqual(t, session.Token, login.Token)

	authed := backend.WithToken(ctx, login.Token)
	chef, err := c.UpdateProfile(authed, backend.ProfileUpdate{Name: "Cleo B", Bio: "Bakes"})
	require.NoError(t, err)
	assert.Equal(t, "Cleo B", chef.Name)

	chef, err = c.UploadAvatar(authed, backend.Upload{Filename: "me.jpg", ContentType: "image/jpeg", Data: []byte("jpg")})
	require.NoError(t, err)
	assert.Contains(t, chef.Avatar, "me.jpg")

	require.NoError(t, c.ChangePassword(authed, backend.PasswordChange{CurrentPassword: "secret1", NewPassword: "Secret12"}))
	require.NoError(t, c.Logout(authed))
	_, err = c.UpdateProfile(authed, backend.ProfileUpdate{Name: "x"})
	assert.True(t, errors.Is(err, backend.ErrUnauthorized))
}

func TestSubscribe(t *testing.T) {
	srv := backendtest.New(t)
	c := newClient(t, srv.URL)

	msg, err := c.Subscribe(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Subscribed", msg)
	assert.Equal(t, []string{"reader@example.com"}, srv.Subscribers())

	_, err = c.Subscribe(context.Background(), "reader@example.com")
	assert.Equal(t, "Already subscribed", backend.Message(err, ""))
}

func TestMutationsAreNeverRetried(t *testing.T) {
	var posts, gets int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		} else {
			gets++
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	conf := apphttp.DefaultConfig()
	conf.RetryMax = 1
	conf.RetryWaitMin = time.Millisecond
	conf.RetryWaitMax = time.Millisecond
	c, err := backend.New(srv.URL, apphttp.New(conf), nil)
	require.NoError(t, err)

	_, err = c.Subscribe(context.Background(), "a@example.com")
	require.Error(t, err)
	_, err = c.Recipes.List(context.Background(), backend.ListOptions{})
	require.Error(t, err)

	assert.Equal(t, 1, posts)
	assert.Equal(t, 2, gets)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := backend.New("/api", apphttp.New(apphttp.DefaultConfig()), nil)
	assert.Error(t, err)
}
