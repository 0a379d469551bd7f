// Package content contains the handlers of the public recipe and blog pages
// and the cached reads shared with the dashboard.
package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/fetch"
	"github.com/matt-dz/savorystories/internal/listquery"
	"github.com/matt-dz/savorystories/internal/model"
	"github.com/matt-dz/savorystories/internal/web/view"
)

// Kind describes one listable resource and how its pages are built.
type Kind[T model.Item, In any] struct {
	Name       string
	Path       string
	Heading    string
	DetailPage string
	NotFound   view.NotFound

	resource  func(*backend.Client) *backend.Resource[T, In]
	author    func(T) string
	fill      func(*view.Listing, []T)
	fillOwned func(*view.Owned, []T)
	detail    func(T, bool) any
}

var Recipes = Kind[model.Recipe, model.RecipeInput]{
	Name:       view.KindRecipes,
	Path:       "/recipes",
	Heading:    "All Recipes",
	DetailPage: "recipe",
	NotFound: view.NotFound{
		Heading:   "Recipe Not Found",
		Message:   "Sorry, we couldn't find the recipe you're looking for. It may have been removed or the link might be incorrect.",
		Back:      "/recipes",
		BackLabel: "Browse All Recipes",
	},
	resource:  func(c *backend.Client) *backend.Resource[model.Recipe, model.RecipeInput] { return c.Recipes },
	author:    func(r model.Recipe) string { return r.Author.ID },
	fill:      func(l *view.Listing, items []model.Recipe) { l.Recipes = items },
	fillOwned: func(o *view.Owned, items []model.Recipe) { o.Recipes = items },
	detail: func(r model.Recipe, owned bool) any {
		return view.RecipeDetail{Recipe: r, Owned: owned}
	},
}

var Blogs = Kind[model.Blog, model.BlogInput]{
	Name:       view.KindBlogs,
	Path:       "/blog",
	Heading:    "Our Blog",
	DetailPage: "blog",
	NotFound: view.NotFound{
		Heading:   "Blog Post Not Found",
		Message:   "Sorry, we couldn't find the post you're looking for. It may have been removed or the link might be incorrect.",
		Back:      "/blog",
		BackLabel: "Browse All Posts",
	},
	resource:  func(c *backend.Client) *backend.Resource[model.Blog, model.BlogInput] { return c.Blogs },
	author:    func(b model.Blog) string { return b.Author.ID },
	fill:      func(l *view.Listing, items []model.Blog) { l.Blogs = items },
	fillOwned: func(o *view.Owned, items []model.Blog) { o.Blogs = items },
	detail: func(b model.Blog, owned bool) any {
		return view.BlogDetail{Blog: b, Owned: owned}
	},
}

// Resource returns the backend resource of k.
func (k Kind[T, In]) Resource(ctx context.Context) *backend.Resource[T, In] {
	return k.resource(env.EnvFromCtx(ctx).Backend)
}

// List returns one page of the public collection, shared by every visitor
// asking for the same query.
func (k Kind[T, In]) List(ctx context.Context, q listquery.Query) (model.Page[T], error) {
	res := k.Resource(ctx)
	return fetch.Get(ctx, env.EnvFromCtx(ctx).Cache, q.Key(res.Route()), func(ctx context.Context) (model.Page[T], error) {
		return res.List(ctx, q.Options())
	})
}

// Featured returns the items shown on the home page.
func (k Kind[T, In]) Featured(ctx context.Context) ([]T, error) {
	res := k.Resource(ctx)
	opts := backend.DefaultListOptions()
	opts.Home = true
	key := fetch.Key(res.Route(), "home", opts.Limit)
	page, err := fetch.Get(ctx, env.EnvFromCtx(ctx).Cache, key, func(ctx context.Context) (model.Page[T], error) {
		return res.List(ctx, opts)
	})
	return page.Data, err
}

// Get resolves one item by slug.
func (k Kind[T, In]) Get(ctx context.Context, slug string) fetch.Result[T] {
	res := k.Resource(ctx)
	return fetch.Detail(ctx, env.EnvFromCtx(ctx).Cache, res.Route(), slug, res.Get)
}

// credentialDigest keys owned lists without putting the token in the cache.
func credentialDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

// Mine returns every item owned by the signed-in chef.
func (k Kind[T, In]) Mine(ctx context.Context) ([]T, error) {
	res := k.Resource(ctx)
	tok, _ := backend.TokenFromCtx(ctx)
	key := fetch.Key(res.MineRoute(), credentialDigest(tok), "all")
	return fetch.Get(ctx, env.EnvFromCtx(ctx).Cache, key, res.Mine)
}

// Invalidate drops every cached read of k: lists, details, featured and
// owned items.
func (k Kind[T, In]) Invalidate(ctx context.Context) {
	env.EnvFromCtx(ctx).Cache.Invalidate(k.Resource(ctx).Route())
}

// Owns reports whether chefID authored item.
func (k Kind[T, In]) Owns(item T, chefID string) bool {
	return chefID != "" && k.author(item) == chefID
}

// FillOwned puts items into the right slot of o.
func (k Kind[T, In]) FillOwned(o *view.Owned, items []T) {
	k.fillOwned(o, items)
}

var sorts = []struct {
	label string
	sort  backend.Sort
}{
	{"Newest", backend.SortNewest},
	{"Oldest", backend.SortOldest},
}

// Listing builds the list view for q from a fetched page.
func (k Kind[T, In]) Listing(q listquery.Query, page model.Page[T], err error) view.Listing {
	current := q.Values()
	l := view.Listing{
		Kind:    k.Name,
		Heading: k.Heading,
		Path:    k.Path,
		Search:  q.Search,
		Failed:  err != nil,
	}
	for _, s := range sorts {
		l.Sorts = append(l.Sorts, view.SortLink{
			Label:  s.label,
			Href:   listquery.Href(k.Path, listquery.Patch(current, listquery.SortPatch(s.sort))),
			Active: q.Sort == s.sort,
		})
	}
	if err != nil {
		return l
	}
	k.fill(&l, page.Data)
	l.Pager = pager(k.Path, current, page)
	return l
}

func pager[T any](path string, current url.Values, page model.Page[T]) *view.Pager {
	m := page.Meta
	if m == nil || m.Total == 0 || len(page.Data) == 0 {
		return nil
	}
	links := model.Links{}
	if page.Links != nil {
		links = *page.Links
	}
	href := func(raw string, n int) string {
		if h := listquery.LinkHref(path, current, raw); h != "" {
			return h
		}
		return listquery.Href(path, listquery.Patch(current, listquery.PagePatch(n)))
	}

	p := &view.Pager{
		From:    m.From,
		To:      m.To,
		Total:   m.Total,
		Current: m.CurrentPage,
		Last:    m.LastPage,
	}
	if m.CurrentPage > 1 {
		p.First = href(links.First, 1)
		p.Prev = href(links.Prev, m.CurrentPage-1)
	}
	if m.CurrentPage < m.LastPage {
		p.Next = href(links.Next, m.CurrentPage+1)
		p.LastHref = href(links.Last, m.LastPage)
	}
	return p
}
