package content

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/fetch"
	"github.com/matt-dz/savorystories/internal/listquery"
	"github.com/matt-dz/savorystories/internal/livesearch"
	"github.com/matt-dz/savorystories/internal/model"
	webError "github.com/matt-dz/savorystories/internal/web/error"
	"github.com/matt-dz/savorystories/internal/web/view"
)

// HandleList renders the list page for the query in the URL. A failed
// fetch still renders the page, with an error state in place of the cards.
func (k Kind[T, In]) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	q := listquery.Parse(r.URL.Query())

	env.Logger.DebugContext(ctx, "listing", slog.String("kind", k.Name), slog.Int("page", q.Page))
	page, err := k.List(ctx, q)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list", slog.String("kind", k.Name), slog.Any("error", err))
	}
	view.Render(w, r, http.StatusOK, "listing", k.Heading, k.Listing(q, page, err))
}

// Search runs one live search and renders the results fragment.
func (k Kind[T, In]) Search(ctx context.Context, values url.Values) (livesearch.Result, error) {
	env := env.EnvFromCtx(ctx)
	q := listquery.Parse(values)
	page, err := k.List(ctx, q)
	if err != nil {
		return livesearch.Result{}, err
	}
	html, err := env.Renderer.FragmentString("listing_results", k.Listing(q, page, nil))
	if err != nil {
		return livesearch.Result{}, err
	}
	return livesearch.Result{HTML: html}, nil
}

// HandleLive serves the live search websocket of the list page.
func (k Kind[T, In]) HandleLive(w http.ResponseWriter, r *http.Request) {
	env := env.EnvFromCtx(r.Context())
	livesearch.Handler(env.Config.Search.Debounce, env.Logger, k.Search)(w, r)
}

// HandleDetail renders one item, the not-found page for an unknown slug,
// or an error page when the backend cannot answer.
func (k Kind[T, In]) HandleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	slug := chi.URLParam(r, "slug")

	res := k.Get(ctx, slug)
	switch res.State {
	case fetch.StatePresent:
		chef, _ := view.CurrentChef(r)
		_, _, title := model.Key(res.Value)
		view.Render(w, r, http.StatusOK, k.DetailPage, title, k.detail(res.Value, k.Owns(res.Value, chef.ID)))
	case fetch.StateNotFound, fetch.StateLoading:
		env.Logger.DebugContext(ctx, "item not found", slog.String("kind", k.Name), slog.String("slug", slug))
		view.RenderNotFound(w, r, k.NotFound)
	default:
		env.Logger.ErrorContext(ctx, "failed to get item", slog.String("kind", k.Name), slog.Any("error", res.Err))
		webError.Render(w, r, webError.BackendUnavailable)
	}
}
