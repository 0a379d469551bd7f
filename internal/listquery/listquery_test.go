package listquery

import (
	"net/url"
	"testing"

	"github.com/matt-dz/savorystories/internal/backend"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Query
	}{
		{
			name:  "defaults",
			query: "",
			want:  Query{Page: 1, Limit: 6, Search: "", Sort: backend.SortNewest},
		},
		{
			name:  "all set",
			query: "page=3&limit=12&search=%20soup%20&sort=oldest",
			want:  Query{Page: 3, Limit: 12, Search: "soup", Sort: backend.SortOldest},
		},
		{
			name:  "invalid values fall back",
			query: "page=-2&limit=abc&sort=popular",
			want:  Query{Page: 1, Limit: 6, Search: "", Sort: backend.SortNewest},
		},
		{
			name:  "limit is capped",
			query: "limit=1000",
			want:  Query{Page: 1, Limit: maxLimit, Sort: backend.SortNewest},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parsing query: %v", err)
			}
			if got := Parse(values); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestPatchResetsPage(t *testing.T) {
	current := url.Values{
		ParamPage:   {"3"},
		ParamSearch: {"soup"},
		ParamSort:   {"oldest"},
	}

	tests := []struct {
		name  string
		patch map[string]string
		want  url.Values
	}{
		{
			name:  "search change resets page",
			patch: SearchPatch("stew"),
			want:  url.Values{ParamSearch: {"stew"}, ParamSort: {"oldest"}},
		},
		{
			name:  "sort change resets page",
			patch: SortPatch(backend.SortNewest),
			want:  url.Values{ParamSearch: {"soup"}, ParamSort: {"newest"}},
		},
		{
			name:  "clearing search deletes it and resets page",
			patch: SearchPatch(""),
			want:  url.Values{ParamSort: {"oldest"}},
		},
		{
			name:  "page change keeps search and sort",
			patch: PagePatch(2),
			want:  url.Values{ParamPage: {"2"}, ParamSearch: {"soup"}, ParamSort: {"oldest"}},
		},
		{
			name:  "page one is the default",
			patch: PagePatch(1),
			want:  url.Values{ParamSearch: {"soup"}, ParamSort: {"oldest"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Patch(current, tt.patch)
			if got.Encode() != tt.want.Encode() {
				t.Errorf("expected %q, got %q", tt.want.Encode(), got.Encode())
			}
		})
	}

	if current.Get(ParamPage) != "3" {
		t.Error("Patch must not modify its input")
	}
}

func TestKeyChangesWithEveryDimension(t *testing.T) {
	base := Query{Page: 1, Limit: 6, Search: "", Sort: backend.SortNewest}
	variants := []Query{
		{Page: 2, Limit: 6, Sort: backend.SortNewest},
		{Page: 1, Limit: 12, Sort: backend.SortNewest},
		{Page: 1, Limit: 6, Search: "soup", Sort: backend.SortNewest},
		{Page: 1, Limit: 6, Sort: backend.SortOldest},
	}

	if base.Key("recipes") == base.Key("blogs") {
		t.Error("expected route to be part of the key")
	}
	for _, v := range variants {
		if v.Key("recipes") == base.Key("recipes") {
			t.Errorf("expected key of %+v to differ from base", v)
		}
	}
	if base.Key("recipes") != Parse(url.Values{}).Key("recipes") {
		t.Error("expected identical tuples to share a key")
	}
}

func TestLinkParams(t *testing.T) {
	got := LinkParams("http://api.example.com/recipes?page=2&limit=6&sort=newest")
	if got[ParamPage] != "2" || got[ParamLimit] != "6" || got[ParamSort] != "newest" {
		t.Errorf("unexpected params %v", got)
	}
	if LinkParams("") != nil {
		t.Error("expected nil for empty link")
	}
}

func TestLinkHref(t *testing.T) {
	current := url.Values{ParamSearch: {"soup"}}
	got := LinkHref("/recipes", current, "http://api.example.com/recipes?page=3&search=soup")
	if got != "/recipes?page=3&search=soup" {
		t.Errorf("unexpected href %q", got)
	}
	got = LinkHref("/recipes", url.Values{ParamPage: {"2"}}, "http://api.example.com/recipes?page=1")
	if got != "/recipes" {
		t.Errorf("unexpected href %q", got)
	}
	if LinkHref("/recipes", current, "") != "" {
		t.Error("expected empty href for missing link")
	}
}

func TestValuesOmitDefaults(t *testing.T) {
	q := Query{Page: 1, Limit: 6, Sort: backend.SortNewest}
	if len(q.Values()) != 0 {
		t.Errorf("expected no params, got %v", q.Values())
	}
	q = Query{Page: 2, Limit: 6, Search: "pie", Sort: backend.SortOldest}
	if q.Values().Encode() != "page=2&search=pie&sort=oldest" {
		t.Errorf("unexpected values %q", q.Values().Encode())
	}
}
