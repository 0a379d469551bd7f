// Package render turns page data into HTML using the embedded templates
// and serves the embedded static assets.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/matt-dz/savorystories/internal/flash"
	"github.com/matt-dz/savorystories/internal/model"
)

//go:embed templates static
var files embed.FS

const PlaceholderImage = "/static/placeholder.svg"

// Base is the data every page layout needs.
type Base struct {
	Title     string
	Path      string
	Chef      *model.Chef
	SignedIn  bool
	Dark      bool
	Toasts    []flash.Toast
	RequestID string
}

// Page is what page templates execute against.
type Page struct {
	Base
	Data any
}

type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
	imageBase string
	static    http.Handler
}

// New parses every template. imageBase is the root that relative image
// references are resolved against; when empty, images fall back to a
// placeholder.
func New(imageBase string) (*Renderer, error) {
	r := &Renderer{
		pages:     make(map[string]*template.Template),
		imageBase: strings.TrimRight(imageBase, "/"),
	}

	funcs := r.funcs()
	fragments, err := template.New("fragments").Funcs(funcs).ParseFS(files, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing partials: %w", err)
	}
	r.fragments = fragments

	pages, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	for _, p := range pages {
		name := strings.TrimSuffix(path.Base(p), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(files,
			"templates/layout.html",
			"templates/partials/*.html",
			p,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing page %s: %w", name, err)
		}
		r.pages[name] = t
	}

	static, err := fs.Sub(files, "static")
	if err != nil {
		return nil, fmt.Errorf("opening static assets: %w", err)
	}
	r.static = http.FileServerFS(static)
	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"imageURL": r.ImageURL,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"truncate": func(n int, s string) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return strings.TrimSpace(string(runes[:n])) + "…"
		},
		"add": func(a, b int) int { return a + b },
		"difficulties": func() []model.Difficulty {
			return model.Difficulties
		},
	}
}

// ImageURL resolves an image reference returned by the backend.
func (r *Renderer) ImageURL(ref string) string {
	switch {
	case ref == "":
		return PlaceholderImage
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "data:"):
		return ref
	case r.imageBase == "":
		return PlaceholderImage
	default:
		return r.imageBase + "/" + strings.TrimLeft(ref, "/")
	}
}

// Page renders the named page inside the layout.
func (r *Renderer) Page(w http.ResponseWriter, status int, name string, data Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("executing page %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Fragment renders a partial template on its own.
func (r *Renderer) Fragment(w io.Writer, name string, data any) error {
	if err := r.fragments.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("executing fragment %s: %w", name, err)
	}
	return nil
}

// FragmentString renders a partial template to a string.
func (r *Renderer) FragmentString(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.Fragment(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Static serves the embedded assets. Mount it under /static/.
func (r *Renderer) Static() http.Handler {
	return r.static
}
