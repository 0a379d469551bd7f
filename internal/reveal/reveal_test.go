package reveal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matt-dz/savorystories/internal/model"
)

func TestWindowProgression(t *testing.T) {
	tests := []struct {
		total int
		want  []int
	}{
		{total: 0, want: []int{0}},
		{total: 4, want: []int{4}},
		{total: 6, want: []int{6}},
		{total: 7, want: []int{6, 7}},
		{total: 14, want: []int{6, 12, 14}},
		{total: 18, want: []int{6, 12, 18}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d items", tt.total), func(t *testing.T) {
			w := New(tt.total)
			var got []int
			for {
				got = append(got, w.Shown)
				if !w.More() {
					break
				}
				w = w.Advance()
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.total, w.Advance().Shown, "advance past the end stays capped")
		})
	}
}

func TestAtClamps(t *testing.T) {
	assert.Equal(t, Window{Shown: 6, Total: 10}, At(10, -3))
	assert.Equal(t, Window{Shown: 8, Total: 10}, At(10, 8))
	assert.Equal(t, Window{Shown: 10, Total: 10}, At(10, 99))
	assert.Equal(t, Window{Shown: 3, Total: 3}, At(3, 0))
}

func TestSliceAndNext(t *testing.T) {
	items := make([]int, 14)
	for i := range items {
		items[i] = i
	}

	w := New(len(items))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, Slice(items, w))

	batch, w := Next(items, w)
	assert.Equal(t, []int{6, 7, 8, 9, 10, 11}, batch)
	batch, w = Next(items, w)
	assert.Equal(t, []int{12, 13}, batch)
	batch, _ = Next(items, w)
	assert.Empty(t, batch)
}

func TestFilter(t *testing.T) {
	recipes := []model.Recipe{
		{ID: "1", Title: "Tomato Soup"},
		{ID: "2", Title: "Beef Stew"},
		{ID: "3", Title: "Chicken soup with noodles"},
	}

	assert.Equal(t, recipes, Filter(recipes, "  "))

	got := Filter(recipes, "SOUP")
	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	assert.ElementsMatch(t, []string{"1", "3"}, ids)

	assert.Empty(t, Filter(recipes, "pancake"))
}
