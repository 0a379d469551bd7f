package view

import (
	"github.com/matt-dz/savorystories/internal/form"
	"github.com/matt-dz/savorystories/internal/model"
	"github.com/matt-dz/savorystories/internal/reveal"
)

const (
	KindRecipes = "recipes"
	KindBlogs   = "blogs"
)

type SortLink struct {
	Label  string
	Href   string
	Active bool
}

// Pager drives the pagination controls. An empty href disables its button.
type Pager struct {
	From     int
	To       int
	Total    int
	Current  int
	Last     int
	First    string
	Prev     string
	Next     string
	LastHref string
}

// Listing is a public recipe or blog list.
type Listing struct {
	Kind    string
	Heading string
	Path    string
	Search  string
	Sorts   []SortLink
	Recipes []model.Recipe
	Blogs   []model.Blog
	Pager   *Pager
	Failed  bool
}

func (l Listing) Empty() bool {
	return len(l.Recipes) == 0 && len(l.Blogs) == 0
}

type RecipeDetail struct {
	Recipe model.Recipe
	Owned  bool
}

type BlogDetail struct {
	Blog  model.Blog
	Owned bool
}

type NotFound struct {
	Heading   string
	Message   string
	Back      string
	BackLabel string
}

type ErrorPage struct {
	Status    int
	Message   string
	RequestID string
}

type Subscribe struct {
	Email  string
	Errors form.Errors
}

type Home struct {
	Recipes       []model.Recipe
	Blogs         []model.Blog
	RecipesFailed bool
	BlogsFailed   bool
	Subscribe     Subscribe
}

type Login struct {
	Form   form.Login
	Errors form.Errors
	From   string
}

type Signup struct {
	Step    int
	Account form.Signup
	Profile form.Profile
	Errors  form.Errors
}

// Owned is one tab of the dashboard: the revealed part of a chef's items.
type Owned struct {
	Kind    string
	Recipes []model.Recipe
	Blogs   []model.Blog
	Window  reveal.Window
	Query   string
	NextURL string
	MoreURL string
	Failed  bool
}

type Dashboard struct {
	Chef    model.Chef
	Query   string
	Recipes Owned
	Blogs   Owned
}

type RecipeForm struct {
	Form    form.Recipe
	Errors  form.Errors
	Editing bool
	Action  string
	Image   string
}

type BlogForm struct {
	Form    form.Blog
	Errors  form.Errors
	Editing bool
	Action  string
	Image   string
}

type Settings struct {
	Chef           model.Chef
	Profile        form.Profile
	ProfileErrors  form.Errors
	PasswordErrors form.Errors
}
