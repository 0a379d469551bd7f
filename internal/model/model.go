// Package model contains the transport types exchanged with the content backend.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the accepted difficulty values in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func (d Difficulty) String() string {
	return string(d)
}

// Chef is the author of recipes and blogs. The authenticated profile payload
// names its identifier "id" while embedded authors use "_id"; both decode
// into ID. An author given as a bare identifier string decodes into a Chef
// with only ID set.
type Chef struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Avatar    string     `json:"avatar,omitempty"`
	Bio       string     `json:"bio,omitempty"`
	Email     string     `json:"email,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (c *Chef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decoding chef id: %w", err)
		}
		*c = Chef{ID: id}
		return nil
	}

	type chef Chef
	var raw struct {
		chef
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding chef: %w", err)
	}
	*c = Chef(raw.chef)
	if c.ID == "" {
		c.ID = raw.AltID
	}
	return nil
}

// Initial returns the upper-cased first letter of the name, used when there
// is no avatar to show.
func (c Chef) Initial() string {
	r, size := utf8.DecodeRuneInString(c.Name)
	if size == 0 || r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

// Merge applies the non-empty fields of patch on top of c.
func (c Chef) Merge(patch Chef) Chef {
	if patch.ID != "" {
		c.ID = patch.ID
	}
	if patch.Name != "" {
		c.Name = patch.Name
	}
	if patch.Avatar != "" {
		c.Avatar = patch.Avatar
	}
	if patch.Bio != "" {
		c.Bio = patch.Bio
	}
	if patch.Email != "" {
		c.Email = patch.Email
	}
	if patch.CreatedAt != nil {
		c.CreatedAt = patch.CreatedAt
	}
	if patch.UpdatedAt != nil {
		c.UpdatedAt = patch.UpdatedAt
	}
	return c
}

type Recipe struct {
	ID           string     `json:"_id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	CookingTime  int        `json:"cookingTime,omitempty"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
	Category     string     `json:"category,omitempty"`
	Image        string     `json:"image,omitempty"`
	Author       Chef       `json:"author"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// RecipeInput is the body of a recipe create or update call.
type RecipeInput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	CookingTime  int        `json:"cookingTime,omitempty"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
	Category     string     `json:"category,omitempty"`
}

type Blog struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Category      string    `json:"category,omitempty"`
	Excerpt       string    `json:"excerpt,omitempty"`
	Content       string    `json:"content"`
	FeaturedImage string    `json:"featuredImage,omitempty"`
	Author        Chef      `json:"author"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BlogInput is the body of a blog create or update call.
type BlogInput struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
}

// Paragraphs splits blog content on blank lines.
func (b Blog) Paragraphs() []string {
	content := strings.ReplaceAll(b.Content, "\r\n", "\n")
	parts := strings.Split(content, "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Item is implemented by every listable resource.
type Item interface {
	Recipe | Blog
}

// Key returns the identifier of a recipe or blog.
func Key[T Item](item T) (id, slug, title string) {
	switch v := any(item).(type) {
	case Recipe:
		return v.ID, v.Slug, v.Title
	case Blog:
		return v.ID, v.Slug, v.Title
	}
	return "", "", ""
}
