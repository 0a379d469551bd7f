// Package backendtest provides an in-memory fake of the remote content API
// for tests. It speaks the same routes, envelopes and cookie as the real
// backend and counts every routed request.
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matt-dz/savorystories/internal/model"
)

const (
	sessionCookie = "jwt"
	maxUploadSize = 20 << 20
)

type account struct {
	chef     model.Chef
	password string
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	accounts    map[string]*account
	tokens      map[string]string
	subscribers []string
	hits        map[string]int
	seq         int
	epoch       time.Time

	recipes *collection[model.Recipe, model.RecipeInput]
	blogs   *collection[model.Blog, model.BlogInput]

	failUploads atomic.Bool
	failProfile atomic.Bool
	nullMissing atomic.Bool
	delay       atomic.Int64
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		hits:     make(map[string]int),
		epoch:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s.recipes = newCollection("recipes", recipeAccessor())
	s.blogs = newCollection("blogs", blogAccessor())

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.count)
	r.Use(s.slow)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)
	})
	r.Route("/profile", func(r chi.Router) {
		r.Patch("/", s.handleUpdateProfile)
		r.Post("/avatar", s.handleAvatar)
		r.Patch("/password", s.handleChangePassword)
		r.Delete("/delete-account", s.handleDeleteAccount)
	})
	r.Post("/subscribe", s.handleSubscribe)

	mount(s, r, s.recipes, "my-recipes")
	mount(s, r, s.blogs, "my-blogs")
	return r
}

// count records "METHOD /route/pattern" after chi resolved the route.
func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if len(pattern) > 1 {
			pattern = strings.TrimSuffix(pattern, "/")
		}
		s.mu.Lock()
		s.hits[r.Method+" "+pattern]++
		s.mu.Unlock()
	})
}

func (s *Server) slow(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d := time.Duration(s.delay.Load()); d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Hits returns how often a route was served, keyed like "GET /recipes/{slug}".
func (s *Server) Hits(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

// SetFailUploads makes every image or avatar upload answer 500.
func (s *Server) SetFailUploads(fail bool) {
	s.failUploads.Store(fail)
}

// SetNullMissing makes unknown slugs answer 200 with a null data field
// instead of 404.
func (s *Server) SetNullMissing(null bool) {
	s.nullMissing.Store(null)
}

// SetFailProfile makes profile updates answer 500.
func (s *Server) SetFailProfile(fail bool) {
	s.failProfile.Store(fail)
}

// SetDelay delays every response.
func (s *Server) SetDelay(d time.Duration) {
	s.delay.Store(int64(d))
}

func (s *Server) next() (int, time.Time) {
	s.seq++
	return s.seq, s.epoch.Add(time.Duration(s.seq) * time.Minute)
}

// AddChef creates an account and returns it with a valid session token.
func (s *Server) AddChef(name, email, password string) (model.Chef, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addChefLocked(name, email, password)
}

func (s *Server) addChefLocked(name, email, password string) (model.Chef, string) {
	n, now := s.next()
	chef := model.Chef{
		ID:        fmt.Sprintf("chef-%d", n),
		Name:      name,
		Email:     email,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
	s.accounts[chef.ID] = &account{chef: chef, password: password}
	return chef, s.issueLocked(chef.ID)
}

func (s *Server) issueLocked(chefID string) string {
	n, _ := s.next()
	token := fmt.Sprintf("token-%s-%d", chefID, n)
	s.tokens[token] = chefID
	return token
}

// Chef returns the stored account of id.
func (s *Server) Chef(id string) (model.Chef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return model.Chef{}, false
	}
	return acc.chef, true
}

// SeedRecipes adds n recipes authored by author, oldest first.
func (s *Server) SeedRecipes(n int, author model.Chef) []model.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Recipe, 0, n)
	for i := range n {
		in := model.RecipeInput{
			Title:        fmt.Sprintf("Recipe %02d", len(s.recipes.items)+1),
			Description:  "A seeded recipe",
			Ingredients:  []string{"salt", "water"},
			Instructions: []string{"mix", "serve"},
			CookingTime:  10 + i,
			Difficulty:   model.DifficultyEasy,
		}
		out = append(out, s.recipes.createLocked(s, in, authorRef(author)))
	}
	return out
}

// SeedBlogs adds n blogs authored by author, oldest first.
func (s *Server) SeedBlogs(n int, author model.Chef) []model.Blog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Blog, 0, n)
	for range n {
		in := model.BlogInput{
			Title:    fmt.Sprintf("Blog post %02d", len(s.blogs.items)+1),
			Category: "stories",
			Excerpt:  "A seeded excerpt that is long enough",
			Content:  "Seeded content.\n\nSecond paragraph.",
		}
		out = append(out, s.blogs.createLocked(s, in, authorRef(author)))
	}
	return out
}

// Recipe returns the stored recipe with id.
func (s *Server) Recipe(id string) (model.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recipes.byIDLocked(id)
}

// Blog returns the stored blog with id.
func (s *Server) Blog(id string) (model.Blog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blogs.byIDLocked(id)
}

// RecipeCount returns the number of stored recipes.
func (s *Server) RecipeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes.items)
}

// Subscribers returns every subscribed email.
func (s *Server) Subscribers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.subscribers...)
}

func authorRef(c model.Chef) model.Chef {
	return model.Chef{ID: c.ID, Name: c.Name, Avatar: c.Avatar, Bio: c.Bio}
}

// chefFromRequestLocked resolves the session cookie. Callers hold s.mu.
func (s *Server) chefFromRequestLocked(r *http.Request) (*account, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	id, ok := s.tokens[cookie.Value]
	if !ok {
		return nil, false
	}
	acc, ok := s.accounts[id]
	return acc, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"data": data})
}

func setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Bio      string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if strings.EqualFold(acc.chef.Email, body.Email) {
			writeMessage(w, http.StatusConflict, "Email already registered")
			return
		}
	}
	chef, token := s.addChefLocked(body.Name, body.Email, body.Password)
	if body.Bio != "" {
		s.accounts[chef.ID].chef.Bio = body.Bio
		chef.Bio = body.Bio
	}
	setSession(w, token)
	writeData(w, http.StatusCreated, profilePayload(chef))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if strings.EqualFold(acc.chef.Email, body.Email) && acc.password == body.Password {
			setSession(w, s.issueLocked(acc.chef.ID))
			writeData(w, http.StatusOK, profilePayload(acc.chef))
			return
		}
	}
	writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		delete(s.tokens, cookie.Value)
	}
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeMessage(w, http.StatusOK, "Logged out")
}

// profilePayload mirrors the authenticated profile shape, keyed by "id".
func profilePayload(c model.Chef) map[string]any {
	return map[string]any{
		"id":        c.ID,
		"name":      c.Name,
		"email":     c.Email,
		"avatar":    c.Avatar,
		"bio":       c.Bio,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if s.failProfile.Load() {
		writeMessage(w, http.StatusInternalServerError, "Profile service unavailable")
		return
	}
	var body struct {
		Name string `json:"name"`
		Bio  string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.chefFromRequestLocked(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	acc.chef.Name = body.Name
	acc.chef.Bio = body.Bio
	writeData(w, http.StatusOK, profilePayload(acc.chef))
}

func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	filename, ok := s.readUpload(w, r, "avatar")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.chefFromRequestLocked(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	acc.chef.Avatar = "avatars/" + acc.chef.ID + "/" + filename
	writeData(w, http.StatusOK, profilePayload(acc.chef))
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.chefFromRequestLocked(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	if acc.password != body.CurrentPassword {
		writeMessage(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	acc.password = body.NewPassword
	writeMessage(w, http.StatusOK, "Password updated")
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.chefFromRequestLocked(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	delete(s.accounts, acc.chef.ID)
	for token, id := range s.tokens {
		if id == acc.chef.ID {
			delete(s.tokens, token)
		}
	}
	writeMessage(w, http.StatusOK, "Account deleted")
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !strings.Contains(body.Email, "@") {
		writeMessage(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.subscribers {
		if strings.EqualFold(e, body.Email) {
			writeMessage(w, http.StatusConflict, "Already subscribed")
			return
		}
	}
	s.subscribers = append(s.subscribers, body.Email)
	writeMessage(w, http.StatusCreated, "Subscribed")
}

// readUpload reads the multipart file in field and returns its name.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (string, bool) {
	if s.failUploads.Load() {
		writeMessage(w, http.StatusInternalServerError, "Upload failed")
		return "", false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart body")
		return "", false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("missing %s file", field))
		return "", false
	}
	_ = file.Close()
	return header.Filename, true
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

type accessor[T any, In any] struct {
	id       func(T) string
	slug     func(T) string
	title    func(T) string
	author   func(T) string
	created  func(T) time.Time
	build    func(in In, id, slug string, author model.Chef, now time.Time) T
	apply    func(item T, in In, now time.Time) T
	setImage func(item T, path string) T
}

type collection[T any, In any] struct {
	name  string
	acc   accessor[T, In]
	items []T
}

func newCollection[T any, In any](name string, acc accessor[T, In]) *collection[T, In] {
	return &collection[T, In]{name: name, acc: acc}
}

func (c *collection[T, In]) createLocked(s *Server, in In, author model.Chef) T {
	n, now := s.next()
	id := fmt.Sprintf("%s-%d", strings.TrimSuffix(c.name, "s"), n)
	base := slugify(c.acc.title(c.acc.build(in, "", "", author, now)))
	slug := base
	for i := 2; c.slugTakenLocked(slug); i++ {
		slug = base + "-" + strconv.Itoa(i)
	}
	item := c.acc.build(in, id, slug, author, now)
	c.items = append(c.items, item)
	return item
}

func (c *collection[T, In]) slugTakenLocked(slug string) bool {
	for _, item := range c.items {
		if c.acc.slug(item) == slug {
			return true
		}
	}
	return false
}

func (c *collection[T, In]) byIDLocked(id string) (T, bool) {
	for _, item := range c.items {
		if c.acc.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T, In]) indexLocked(id string) int {
	for i, item := range c.items {
		if c.acc.id(item) == id {
			return i
		}
	}
	return -1
}

func (c *collection[T, In]) queryLocked(search, order, authorID string) []T {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if authorID != "" && c.acc.author(item) != authorID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.acc.title(item)), search) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == "oldest" {
			return c.acc.created(out[i]).Before(c.acc.created(out[j]))
		}
		return c.acc.created(out[i]).After(c.acc.created(out[j]))
	})
	return out
}

type pageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type pageMeta struct {
	CurrentPage int              `json:"current_page"`
	From        *int             `json:"from"`
	To          *int             `json:"to"`
	LastPage    int              `json:"last_page"`
	PerPage     int              `json:"per_page"`
	Total       int              `json:"total"`
	Links       []model.PageLink `json:"links"`
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func paginate[T any](r *http.Request, all []T) map[string]any {
	q := r.URL.Query()
	page := atoiDefault(q.Get("page"), 1)
	limit := atoiDefault(q.Get("limit"), 6)

	total := len(all)
	lastPage := max(1, (total+limit-1)/limit)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	data := all[start:end]

	link := func(p int) string {
		lq := r.URL.Query()
		lq.Set("page", strconv.Itoa(p))
		return "http://" + r.Host + r.URL.Path + "?" + lq.Encode()
	}

	links := pageLinks{First: link(1), Last: link(lastPage)}
	if page > 1 {
		prev := link(page - 1)
		links.Prev = &prev
	}
	if page < lastPage {
		next := link(page + 1)
		links.Next = &next
	}

	meta := pageMeta{CurrentPage: page, LastPage: lastPage, PerPage: limit, Total: total}
	if len(data) > 0 {
		from, to := start+1, end
		meta.From, meta.To = &from, &to
	}
	for p := 1; p <= lastPage; p++ {
		meta.Links = append(meta.Links, model.PageLink{URL: link(p), Label: strconv.Itoa(p), Active: p == page})
	}

	return map[string]any{"data": data, "links": links, "meta": meta}
}

func mount[T any, In any](s *Server, r chi.Router, c *collection[T, In], mine string) {
	r.Route("/"+c.name, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			s.mu.Lock()
			all := c.queryLocked(q.Get("search"), q.Get("sort"), "")
			s.mu.Unlock()
			writeJSON(w, http.StatusOK, paginate(r, all))
		})

		r.Get("/"+mine, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			s.mu.Lock()
			acc, ok := s.chefFromRequestLocked(r)
			if !ok {
				s.mu.Unlock()
				writeMessage(w, http.StatusUnauthorized, "Not authorized")
				return
			}
			all := c.queryLocked(q.Get("search"), q.Get("sort"), acc.chef.ID)
			s.mu.Unlock()
			writeJSON(w, http.StatusOK, paginate(r, all))
		})

		r.Get("/{slug}", func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, "slug")
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, item := range c.items {
				if c.acc.slug(item) == slug {
					writeData(w, http.StatusOK, item)
					return
				}
			}
			if s.nullMissing.Load() {
				writeJSON(w, http.StatusOK, map[string]any{"data": nil})
				return
			}
			writeMessage(w, http.StatusNotFound, "Not found")
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var in In
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				writeMessage(w, http.StatusBadRequest, "invalid body")
				return
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			acc, ok := s.chefFromRequestLocked(r)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Not authorized")
				return
			}
			writeData(w, http.StatusCreated, c.createLocked(s, in, authorRef(acc.chef)))
		})

		r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
			var in In
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				writeMessage(w, http.StatusBadRequest, "invalid body")
				return
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			idx, ok := s.ownedLocked(w, r, c)
			if !ok {
				return
			}
			_, now := s.next()
			c.items[idx] = c.acc.apply(c.items[idx], in, now)
			writeData(w, http.StatusOK, c.items[idx])
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			defer s.mu.Unlock()
			idx, ok := s.ownedLocked(w, r, c)
			if !ok {
				return
			}
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			writeMessage(w, http.StatusOK, "Deleted successfully")
		})

		r.Post("/{id}/image", func(w http.ResponseWriter, r *http.Request) {
			filename, ok := s.readUpload(w, r, "image")
			if !ok {
				return
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			idx, ok := s.ownedLocked(w, r, c)
			if !ok {
				return
			}
			path := "uploads/" + c.name + "/" + chi.URLParam(r, "id") + "/" + filename
			c.items[idx] = c.acc.setImage(c.items[idx], path)
			writeData(w, http.StatusOK, c.items[idx])
		})
	})
}

// ownedLocked resolves {id} and checks that the session chef authored it.
func (s *Server) ownedLocked(w http.ResponseWriter, r *http.Request, c interface {
	indexLocked(string) int
	authorAt(int) string
},
) (int, bool) {
	acc, ok := s.chefFromRequestLocked(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return 0, false
	}
	idx := c.indexLocked(chi.URLParam(r, "id"))
	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	if c.authorAt(idx) != acc.chef.ID {
		writeMessage(w, http.StatusForbidden, "You can only modify your own content")
		return 0, false
	}
	return idx, true
}

func (c *collection[T, In]) authorAt(i int) string {
	return c.acc.author(c.items[i])
}

func recipeAccessor() accessor[model.Recipe, model.RecipeInput] {
	return accessor[model.Recipe, model.RecipeInput]{
		id:      func(r model.Recipe) string { return r.ID },
		slug:    func(r model.Recipe) string { return r.Slug },
		title:   func(r model.Recipe) string { return r.Title },
		author:  func(r model.Recipe) string { return r.Author.ID },
		created: func(r model.Recipe) time.Time { return r.CreatedAt },
		build: func(in model.RecipeInput, id, slug string, author model.Chef, now time.Time) model.Recipe {
			return model.Recipe{
				ID:           id,
				Title:        in.Title,
				Slug:         slug,
				Description:  in.Description,
				Ingredients:  in.Ingredients,
				Instructions: in.Instructions,
				CookingTime:  in.CookingTime,
				Difficulty:   in.Difficulty,
				Category:     in.Category,
				Author:       author,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
		},
		apply: func(r model.Recipe, in model.RecipeInput, now time.Time) model.Recipe {
			r.Title = in.Title
			r.Description = in.Description
			r.Ingredients = in.Ingredients
			r.Instructions = in.Instructions
			r.CookingTime = in.CookingTime
			r.Difficulty = in.Difficulty
			r.Category = in.Category
			r.UpdatedAt = now
			return r
		},
		setImage: func(r model.Recipe, path string) model.Recipe {
			r.Image = path
			return r
		},
	}
}

func blogAccessor() accessor[model.Blog, model.BlogInput] {
	return accessor[model.Blog, model.BlogInput]{
		id:      func(b model.Blog) string { return b.ID },
		slug:    func(b model.Blog) string { return b.Slug },
		title:   func(b model.Blog) string { return b.Title },
		author:  func(b model.Blog) string { return b.Author.ID },
		created: func(b model.Blog) time.Time { return b.CreatedAt },
		build: func(in model.BlogInput, id, slug string, author model.Chef, now time.Time) model.Blog {
			return model.Blog{
				ID:        id,
				Title:     in.Title,
				Slug:      slug,
				Category:  in.Category,
				Excerpt:   in.Excerpt,
				Content:   in.Content,
				Author:    author,
				CreatedAt: now,
				UpdatedAt: now,
			}
		},
		apply: func(b model.Blog, in model.BlogInput, now time.Time) model.Blog {
			b.Title = in.Title
			b.Category = in.Category
			b.Excerpt = in.Excerpt
			b.Content = in.Content
			b.UpdatedAt = now
			return b
		},
		setImage: func(b model.Blog, path string) model.Blog {
			b.FeaturedImage = path
			return b
		},
	}
}
