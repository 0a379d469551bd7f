package model

type Links struct {
	First string `json:"first"`
	Last  string `json:"last"`
	Prev  string `json:"prev"`
	Next  string `json:"next"`
}

type PageLink struct {
	URL    string `json:"url"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type Meta struct {
	CurrentPage int        `json:"current_page"`
	From        int        `json:"from"`
	To          int        `json:"to"`
	LastPage    int        `json:"last_page"`
	PerPage     int        `json:"per_page"`
	Total       int        `json:"total"`
	Links       []PageLink `json:"links,omitempty"`
}

// Envelope wraps every backend response.
type Envelope[T any] struct {
	Data  T      `json:"data"`
	Links *Links `json:"links,omitempty"`
	Meta  *Meta  `json:"meta,omitempty"`
}

// Page is a list envelope.
type Page[T any] = Envelope[[]T]
