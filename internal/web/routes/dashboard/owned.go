// Package dashboard contains the handlers of the signed-in chef's pages:
// owned items, the recipe and blog editors and deletion.
package dashboard

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/listquery"
	"github.com/matt-dz/savorystories/internal/model"
	"github.com/matt-dz/savorystories/internal/reveal"
	"github.com/matt-dz/savorystories/internal/web/routes/content"
	"github.com/matt-dz/savorystories/internal/web/view"
)

const (
	paramQuery = "q"
	paramShown = "shown"
)

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// itemsURL points at the fragment after shown items of kind. It carries
// the dashboard's other parameters so the fragment's links keep them.
func itemsURL(kind string, shown int, query string, current url.Values) string {
	v := listquery.Patch(current, map[string]string{
		paramShown: strconv.Itoa(shown),
		paramQuery: query,
		kind:       "",
	})
	return listquery.Href(view.DashboardPath+"/"+kind+"/items", v)
}

// moreURL is the no-script dashboard link revealing shown items of kind.
func moreURL(kind string, shown int, query string, current url.Values) string {
	v := listquery.Patch(current, map[string]string{
		paramShown: "",
		paramQuery: query,
		kind:       strconv.Itoa(shown),
	})
	return listquery.Href(view.DashboardPath, v)
}

// owned builds one dashboard section. current are the dashboard's own
// query parameters, where the no-script fallback keeps each section's
// revealed count.
func owned[T model.Item, In any](
	k content.Kind[T, In],
	items []T,
	err error,
	query string,
	current url.Values,
) view.Owned {
	o := view.Owned{Kind: k.Name, Query: query, Failed: err != nil}
	if err != nil {
		return o
	}
	items = reveal.Filter(items, query)
	w := reveal.At(len(items), atoi(current.Get(k.Name)))
	k.FillOwned(&o, reveal.Slice(items, w))
	o.Window = w
	if w.More() {
		o.NextURL = itemsURL(k.Name, w.Shown, query, current)
		o.MoreURL = moreURL(k.Name, w.Advance().Shown, query, current)
	}
	return o
}

// HandleDashboard fetches both owned lists in parallel and renders the
// first batch of each.
func HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	current := r.URL.Query()
	query := strings.TrimSpace(current.Get(paramQuery))

	var (
		recipes    []model.Recipe
		blogs      []model.Blog
		recipesErr error
		blogsErr   error
	)
	var g errgroup.Group
	g.Go(func() error {
		recipes, recipesErr = content.Recipes.Mine(ctx)
		return nil
	})
	g.Go(func() error {
		blogs, blogsErr = content.Blogs.Mine(ctx)
		return nil
	})
	_ = g.Wait()

	for _, err := range []error{recipesErr, blogsErr} {
		if err == nil {
			continue
		}
		if view.Unauthorized(w, r, err) {
			return
		}
		env.Logger.ErrorContext(ctx, "failed to load owned items", slog.Any("error", err))
	}

	chef, _ := view.CurrentChef(r)
	view.Render(w, r, http.StatusOK, "dashboard", "Dashboard", view.Dashboard{
		Chef:    chef,
		Query:   query,
		Recipes: owned(content.Recipes, recipes, recipesErr, query, current),
		Blogs:   owned(content.Blogs, blogs, blogsErr, query, current),
	})
}

// HandleItems returns the next batch after shown items as a fragment. The
// owned list comes from the cache filled by the dashboard.
func HandleItems[T model.Item, In any](k content.Kind[T, In]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		env := env.EnvFromCtx(ctx)
		current := r.URL.Query()
		query := strings.TrimSpace(current.Get(paramQuery))

		items, err := k.Mine(ctx)
		if err != nil {
			if view.Unauthorized(w, r, err) {
				return
			}
			env.Logger.ErrorContext(ctx, "failed to load owned items", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}

		items = reveal.Filter(items, query)
		batch, next := reveal.Next(items, reveal.At(len(items), atoi(current.Get(paramShown))))
		o := view.Owned{Kind: k.Name, Query: query, Window: next}
		k.FillOwned(&o, batch)
		if next.More() {
			o.NextURL = itemsURL(k.Name, next.Shown, query, current)
			o.MoreURL = moreURL(k.Name, next.Advance().Shown, query, current)
		}
		view.Fragment(w, r, "owned_items", o)
	}
}
