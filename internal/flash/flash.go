// Package flash carries short toast messages across a redirect in a cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const (
	cookieName = "flash"
	maxToasts  = 5
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

type Toast struct {
	Kind    Kind   `json:"k"`
	Message string `json:"m"`
}

func decode(raw string) []Toast {
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var toasts []Toast
	if err := json.Unmarshal(data, &toasts); err != nil {
		return nil
	}
	return toasts
}

func encode(toasts []Toast) string {
	data, _ := json.Marshal(toasts)
	return base64.RawURLEncoding.EncodeToString(data)
}

func pending(w http.ResponseWriter, r *http.Request) []Toast {
	// Toasts added earlier in this request are only visible in the response
	// headers, so read those before the request cookie.
	for _, line := range w.Header().Values("Set-Cookie") {
		c, err := http.ParseSetCookie(line)
		if err == nil && c.Name == cookieName {
			if c.MaxAge < 0 {
				return nil
			}
			return decode(c.Value)
		}
	}
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	return decode(c.Value)
}

func setCookie(w http.ResponseWriter, value string, maxAge int) {
	h := w.Header()
	cookies := h.Values("Set-Cookie")
	h.Del("Set-Cookie")
	for _, line := range cookies {
		if c, err := http.ParseSetCookie(line); err == nil && c.Name == cookieName {
			continue
		}
		h.Add("Set-Cookie", line)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Add queues a toast for the next page the visitor sees.
func Add(w http.ResponseWriter, r *http.Request, kind Kind, message string) {
	toasts := append(pending(w, r), Toast{Kind: kind, Message: message})
	if len(toasts) > maxToasts {
		toasts = toasts[len(toasts)-maxToasts:]
	}
	setCookie(w, encode(toasts), 0)
}

func Success(w http.ResponseWriter, r *http.Request, message string) {
	Add(w, r, KindSuccess, message)
}

func Error(w http.ResponseWriter, r *http.Request, message string) {
	Add(w, r, KindError, message)
}

func Warning(w http.ResponseWriter, r *http.Request, message string) {
	Add(w, r, KindWarning, message)
}

// Pop returns the queued toasts and clears them.
func Pop(w http.ResponseWriter, r *http.Request) []Toast {
	toasts := pending(w, r)
	if _, err := r.Cookie(cookieName); err == nil || len(toasts) > 0 {
		setCookie(w, "", -1)
	}
	return toasts
}
