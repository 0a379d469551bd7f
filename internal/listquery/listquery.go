// Package listquery keeps list state (search, sort, page, limit) in URL
// query parameters, so every list view is linkable and navigable.
package listquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/fetch"
)

const (
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSearch = "search"
	ParamSort   = "sort"

	maxLimit = 48
)

type Query struct {
	Page   int
	Limit  int
	Search string
	Sort   backend.Sort
}

// Parse reads a Query from URL values, applying defaults for missing or
// invalid values. An empty search means no filter.
func Parse(values url.Values) Query {
	q := Query{
		Page:   backend.DefaultPage,
		Limit:  backend.DefaultLimit,
		Search: strings.TrimSpace(values.Get(ParamSearch)),
		Sort:   backend.SortNewest,
	}
	if n, err := strconv.Atoi(values.Get(ParamPage)); err == nil && n > 0 {
		q.Page = n
	}
	if n, err := strconv.Atoi(values.Get(ParamLimit)); err == nil && n > 0 {
		q.Limit = min(n, maxLimit)
	}
	if s := backend.Sort(values.Get(ParamSort)); s.Valid() {
		q.Sort = s
	}
	return q
}

// Options converts the query to backend list options.
func (q Query) Options() backend.ListOptions {
	return backend.ListOptions{
		Page:   q.Page,
		Limit:  q.Limit,
		Search: q.Search,
		Sort:   q.Sort,
	}
}

// Key returns the fetch key for the tuple (route, page, search, sort, limit).
func (q Query) Key(route string) string {
	return fetch.Key(route, q.Page, q.Search, q.Sort, q.Limit)
}

// Values returns the canonical URL parameters, omitting defaults.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.Limit > 0 && q.Limit != backend.DefaultLimit {
		v.Set(ParamLimit, strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	if q.Sort != "" && q.Sort != backend.SortNewest {
		v.Set(ParamSort, string(q.Sort))
	}
	return v
}

// Patch applies a set of parameter changes to current and returns the new
// values. Non-empty values are set and empty values delete the parameter.
// The page resets to 1 unless the patch itself names a page.
func Patch(current url.Values, patch map[string]string) url.Values {
	next := url.Values{}
	for k, vs := range current {
		next[k] = append([]string(nil), vs...)
	}

	for k, v := range patch {
		if v = strings.TrimSpace(v); v == "" {
			next.Del(k)
			continue
		}
		next.Set(k, v)
	}

	if _, ok := patch[ParamPage]; !ok {
		next.Del(ParamPage)
	}
	return next
}

// SearchPatch changes the search text.
func SearchPatch(search string) map[string]string {
	return map[string]string{ParamSearch: search}
}

// SortPatch changes the sort order.
func SortPatch(sort backend.Sort) map[string]string {
	return map[string]string{ParamSort: string(sort)}
}

// PagePatch moves to page, keeping every other parameter.
func PagePatch(page int) map[string]string {
	if page <= 1 {
		return map[string]string{ParamPage: ""}
	}
	return map[string]string{ParamPage: strconv.Itoa(page)}
}

// LinkParams returns the query parameters carried by an opaque pagination
// link of the backend. It returns nil when the link is empty or invalid.
func LinkParams(link string) map[string]string {
	if link == "" {
		return nil
	}
	u, err := url.Parse(link)
	if err != nil {
		return nil
	}
	out := make(map[string]string)
	for k, vs := range u.Query() {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

// LinkHref turns a backend pagination link into a local href for path that
// keeps the current list state. It returns "" for an empty link.
func LinkHref(path string, current url.Values, link string) string {
	params := LinkParams(link)
	if params == nil {
		return ""
	}
	page, ok := params[ParamPage]
	if !ok {
		return ""
	}
	patch := map[string]string{ParamPage: page}
	if page == "1" {
		patch[ParamPage] = ""
	}
	return Href(path, Patch(current, patch))
}

// Href joins path and values.
func Href(path string, values url.Values) string {
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
