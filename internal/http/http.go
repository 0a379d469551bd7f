// Package http provides a wrapper around the retryablehttp.Client
// for making HTTP requests to the content backend.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	maxErrorBody = 64 << 10
)

type HTTPDoer interface {
	Do(*retryablehttp.Request) (*http.Response, error)
}

// HTTP sends idempotent requests through the retrying client and every
// other request through a client that never retries.
type HTTP struct {
	*retryablehttp.Client
	once *retryablehttp.Client
}

var (
	_ HTTPDoer = (*retryablehttp.Client)(nil)
	_ HTTPDoer = (*HTTP)(nil)
)

type Config struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Timeout:  15 * time.Second,
		RetryMax: 0,
	}
}

func newClient(conf Config, retryMax int) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.HTTPClient.Timeout = conf.Timeout
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if conf.RetryWaitMin > 0 {
		client.RetryWaitMin = conf.RetryWaitMin
	}
	if conf.RetryWaitMax > 0 {
		client.RetryWaitMax = conf.RetryWaitMax
	}
	if conf.Logger != nil {
		client.Logger = conf.Logger
	} else {
		client.Logger = nil
	}
	return client
}

func New(conf Config) *HTTP {
	return &HTTP{
		Client: newClient(conf, conf.RetryMax),
		once:   newClient(conf, 0),
	}
}

// Do sends the request. Only GET and HEAD requests are ever retried.
func (h *HTTP) Do(req *retryablehttp.Request) (*http.Response, error) {
	switch req.Method {
	case http.MethodGet, http.MethodHead:
		return h.Client.Do(req)
	default:
		return h.once.Do(req)
	}
}

// StatusError is returned by ExpectStatus2xx for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, string(e.Body))
}

// ExpectStatus2xx returns a *StatusError and closes the body when the
// response is not successful.
func ExpectStatus2xx(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		return &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return nil
}
