// Package livesearch runs search-as-you-type over a websocket. Keystrokes
// are debounced, every fired search opens a new generation and cancels the
// previous one, and results of stale generations are dropped.
package livesearch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/websocket"

	"github.com/matt-dz/savorystories/internal/listquery"
	"github.com/matt-dz/savorystories/internal/log"
)

const (
	DefaultInterval = 500 * time.Millisecond

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 1024
)

// Result is sent to the page after each completed search.
type Result struct {
	HTML  string `json:"html"`
	Query string `json:"query"`
	Error string `json:"error,omitempty"`
}

// SearchFunc runs one search for the given list parameters.
type SearchFunc func(ctx context.Context, values url.Values) (Result, error)

// Session debounces input and delivers the result of the latest search
// only.
type Session struct {
	ctx       context.Context
	debounced func(func())
	search    func(ctx context.Context, text string) (Result, error)
	deliver   func(Result)
	logger    *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// NewSession creates a session. deliver is never called concurrently.
func NewSession(
	ctx context.Context,
	interval time.Duration,
	search func(ctx context.Context, text string) (Result, error),
	deliver func(Result),
	logger *slog.Logger,
) *Session {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.NullLogger()
	}
	return &Session{
		ctx:       ctx,
		debounced: debounce.New(interval),
		search:    search,
		deliver:   deliver,
		logger:    logger,
	}
}

// Input records a keystroke. Only the last input of a burst is searched.
func (s *Session) Input(text string) {
	s.debounced(func() { s.fire(text) })
}

func (s *Session) fire(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	res, err := s.search(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		s.logger.DebugContext(ctx, "dropping stale search result", slog.String("search", text))
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search", slog.Any("error", err))
		res = Result{Error: "Search failed. Please try again."}
	}
	s.deliver(res)
}

// Close cancels the running search and drops every later result.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}

type inputMessage struct {
	Search string `json:"search"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Handler upgrades the request to a websocket and runs a Session for it.
// The query string of the upgrade request holds the list state the page was
// rendered with; each message {"search": "..."} patches it.
func Handler(interval time.Duration, logger *slog.Logger, search SearchFunc) http.HandlerFunc {
	if logger == nil {
		logger = log.NullLogger()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to upgrade live search", slog.Any("error", err))
			return
		}
		defer func() { _ = conn.Close() }()

		base := r.URL.Query()
		var writeMu sync.Mutex
		deliver := func(res Result) {
			writeMu.Lock()
			defer writeMu.Unlock()
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(res); err != nil {
				logger.DebugContext(r.Context(), "failed to write live search result", slog.Any("error", err))
			}
		}

		session := NewSession(r.Context(), interval, func(ctx context.Context, text string) (Result, error) {
			values := listquery.Patch(base, listquery.SearchPatch(text))
			res, err := search(ctx, values)
			if err != nil {
				return res, err
			}
			res.Query = values.Encode()
			return res, nil
		}, deliver, logger)
		defer session.Close()

		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.DebugContext(r.Context(), "live search closed", slog.Any("error", err))
				}
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))

			var msg inputMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				logger.DebugContext(r.Context(), "invalid live search message", slog.Any("error", err))
				continue
			}
			session.Input(msg.Search)
		}
	}
}
