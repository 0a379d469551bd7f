// Package ping contains the liveness handler
package ping

import "net/http"

// HandlePing answers liveness checks. It never calls the backend, so a
// slow backend does not take the site out of rotation.
func HandlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}
