package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/config"
	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/log"
	"github.com/matt-dz/savorystories/internal/web/requestid"
	"github.com/matt-dz/savorystories/internal/web/token"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		hasToken bool
		want     string
	}{
		{"dashboard without token", "/dashboard", false, "/login?from=%2Fdashboard"},
		{"dashboard subpage without token", "/dashboard/edit-recipe/soup", false, "/login?from=%2Fdashboard%2Fedit-recipe%2Fsoup"},
		{"keeps query in from", "/dashboard?q=soup", false, "/login?from=%2Fdashboard%3Fq%3Dsoup"},
		{"dashboard with token", "/dashboard", true, ""},
		{"login with token", "/login", true, "/dashboard"},
		{"login with token and from", "/login?from=/dashboard", true, "/dashboard"},
		{"signup with token", "/signup", true, "/dashboard"},
		{"signup profile step with token", "/signup/profile", true, ""},
		{"login without token", "/login", false, ""},
		{"public page", "/recipes", false, ""},
		{"lookalike prefix", "/dashboards", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.uri, tt.hasToken); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSafeFrom(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"", "/dashboard"},
		{"/dashboard/settings", "/dashboard/settings"},
		{"/recipes?page=2", "/recipes?page=2"},
		{"https://evil.example.com", "/dashboard"},
		{"//evil.example.com", "/dashboard"},
		{"/\\evil.example.com", "/dashboard"},
		{"/login", "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			if got := SafeFrom(tt.from); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "chef-1",
		"exp": exp.Unix(),
	})
	raw, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return raw
}

func chain(e *env.Env, h http.Handler) http.Handler {
	return InjectEnv(e)(Session(Guard(h)))
}

func TestGuardRedirects(t *testing.T) {
	e := &env.Env{Logger: log.NullLogger()}
	reached := false
	h := chain(e, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/settings", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected %d, got %d", http.StatusFound, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?from=%2Fdashboard%2Fsettings" {
		t.Errorf("unexpected location %q", loc)
	}
	if reached {
		t.Error("expected handler not to run")
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: backend.SessionCookie, Value: "opaque"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !reached {
		t.Error("expected handler to run with a token present")
	}
}

func TestSessionExpiryCheck(t *testing.T) {
	expired := signed(t, time.Now().Add(-time.Hour))
	fresh := signed(t, time.Now().Add(time.Hour))

	tests := []struct {
		name        string
		checkExpiry bool
		token       string
		wantToken   bool
	}{
		{"presence only accepts expired", false, expired, true},
		{"expiry check drops expired", true, expired, false},
		{"expiry check keeps fresh", true, fresh, true},
		{"expiry check drops garbage", true, "not-a-jwt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &env.Env{
				Logger: log.NullLogger(),
				Config: config.Config{Guard: config.Guard{CheckExpiry: tt.checkExpiry}},
			}
			var got bool
			h := InjectEnv(e)(Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, got = backend.TokenFromCtx(r.Context())
			})))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: backend.SessionCookie, Value: tt.token})
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.wantToken {
				t.Errorf("expected token present %v, got %v", tt.wantToken, got)
			}
		})
	}
}

func TestVisitorCookie(t *testing.T) {
	var seen string
	h := Visitor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = token.VisitorFromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != token.VisitorCookieName {
		t.Fatalf("expected a visitor cookie, got %v", cookies)
	}
	if seen != cookies[0].Value {
		t.Errorf("expected context id %q, got %q", cookies[0].Value, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: token.VisitorCookieName, Value: "known"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no new cookie for a known visitor")
	}
	if seen != "known" {
		t.Errorf("expected known, got %q", seen)
	}
}

func TestAddRequestID(t *testing.T) {
	var id string
	h := AddRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = requestid.ExtractRequestID(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if id == "" || id == "N/A" {
		t.Errorf("expected a request id, got %q", id)
	}
}
