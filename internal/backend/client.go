// Package backend is the typed client of the remote content API. Every
// request goes to a fixed base URL and carries the visitor's session cookie
// when one is present in the context.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	apphttp "github.com/matt-dz/savorystories/internal/http"
	appjson "github.com/matt-dz/savorystories/internal/json"
	"github.com/matt-dz/savorystories/internal/log"
	"github.com/matt-dz/savorystories/internal/model"
)

// SessionCookie is the name of the cookie the backend issues on login.
const SessionCookie = "jwt"

type tokenKeyType struct{}

var tokenKey tokenKeyType

// WithToken returns a context whose backend calls carry token as the
// session cookie.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromCtx returns the session token stored by WithToken.
func TokenFromCtx(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

type Client struct {
	http    apphttp.HTTPDoer
	baseURL *url.URL
	logger  *slog.Logger

	Recipes *Resource[model.Recipe, model.RecipeInput]
	Blogs   *Resource[model.Blog, model.BlogInput]
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, doer apphttp.HTTPDoer, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if logger == nil {
		logger = log.NullLogger()
	}

	c := &Client{
		http:    doer,
		baseURL: u,
		logger:  logger,
	}
	c.Recipes = newResource[model.Recipe, model.RecipeInput](c, "recipes", "my-recipes",
		func(r model.Recipe) string { return r.ID })
	c.Blogs = newResource[model.Blog, model.BlogInput](c, "blogs", "my-blogs",
		func(b model.Blog) string { return b.ID })
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body []byte,
	contentType string,
) (*retryablehttp.Request, error) {
	var rawBody any
	if body != nil {
		rawBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.endpoint(path, query), rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := TokenFromCtx(ctx); ok {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	return req, nil
}

func (c *Client) newJSONRequest(
	ctx context.Context,
	method, path string,
	payload any,
) (*retryablehttp.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	return c.newRequest(ctx, method, path, nil, body, "application/json")
}

// send performs req and decodes a JSON body into out when out is non-nil.
// Non-2xx responses are returned as *APIError.
func (c *Client) send(req *retryablehttp.Request, out any) (*http.Response, error) {
	ctx := req.Context()
	c.logger.DebugContext(ctx, "calling backend",
		slog.String("method", req.Method),
		slog.String("url", req.URL.Redacted()))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	if err := apphttp.ExpectStatus2xx(resp); err != nil {
		var statusErr *apphttp.StatusError
		if errors.As(err, &statusErr) {
			apiErr := newAPIError(statusErr.StatusCode, statusErr.Body)
			c.logger.DebugContext(ctx, "backend returned error",
				slog.Int("status", apiErr.Status),
				slog.String("message", apiErr.Message))
			return resp, apiErr
		}
		return resp, err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}
	if err := appjson.Decode(out, resp.Body); err != nil {
		if errors.Is(err, appjson.ErrEmptyBody) {
			return resp, nil
		}
		return resp, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	_, err = c.send(req, out)
	return err
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) (*http.Response, error) {
	req, err := c.newJSONRequest(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	return c.send(req, out)
}

// Upload is an image file forwarded to the backend as multipart form data.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (c *Client) upload(ctx context.Context, path, field string, file Upload, out any) error {
	var buf bytes.Buffer
	contentType, err := writeMultipart(&buf, field, file)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, buf.Bytes(), contentType)
	if err != nil {
		return err
	}
	_, err = c.send(req, out)
	return err
}

// sessionToken extracts the jwt cookie from a backend response.
func sessionToken(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookie {
			return cookie.Value
		}
	}
	return ""
}
