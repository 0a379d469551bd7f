// Package reveal shows a fully fetched list in fixed-size batches.
package reveal

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/matt-dz/savorystories/internal/model"
)

// Batch is the number of items revealed at a time.
const Batch = 6

// Window tracks how many of Total items are visible.
type Window struct {
	Shown int
	Total int
}

// New returns a window over total items showing the first batch.
func New(total int) Window {
	total = max(total, 0)
	return Window{Shown: min(Batch, total), Total: total}
}

// At returns the window after shown items were already visible, as
// reported back by the page. Out-of-range values are clamped.
func At(total, shown int) Window {
	w := New(total)
	if shown > w.Shown {
		w.Shown = min(shown, w.Total)
	}
	return w
}

// Advance reveals the next batch, capped at Total.
func (w Window) Advance() Window {
	w.Shown = min(w.Shown+Batch, w.Total)
	return w
}

// More reports whether items remain hidden.
func (w Window) More() bool {
	return w.Shown < w.Total
}

// Slice returns the visible items.
func Slice[T any](items []T, w Window) []T {
	return items[:min(w.Shown, len(items))]
}

// Next returns the items revealed by advancing w, and the advanced window.
func Next[T any](items []T, w Window) ([]T, Window) {
	next := w.Advance()
	from := min(w.Shown, len(items))
	to := min(next.Shown, len(items))
	return items[from:to], next
}

// lowerTitles implements fuzzy.Source over lower-cased titles.
type lowerTitles []string

func (l lowerTitles) String(i int) string { return l[i] }
func (l lowerTitles) Len() int            { return len(l) }

// Filter ranks items by fuzzy match of query against their titles. An empty
// query returns items unchanged.
func Filter[T model.Item](items []T, query string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	lowered := make(lowerTitles, len(items))
	for i, item := range items {
		_, _, title := model.Key(item)
		lowered[i] = strings.ToLower(title)
	}
	matches := fuzzy.FindFrom(query, lowered)
	out := make([]T, len(matches))
	for i, m := range matches {
		out[i] = items[m.Index]
	}
	return out
}
