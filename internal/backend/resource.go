package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/matt-dz/savorystories/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 6
	// OwnedLimit is large enough that the owned list always fits one page.
	OwnedLimit = 100000
)

type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
)

func (s Sort) Valid() bool {
	return s == SortNewest || s == SortOldest
}

// ListOptions are sent as query parameters on every list call.
type ListOptions struct {
	Page   int
	Limit  int
	Search string
	Sort   Sort
	Home   bool
}

func DefaultListOptions() ListOptions {
	return ListOptions{
		Page:  DefaultPage,
		Limit: DefaultLimit,
		Sort:  SortNewest,
	}
}

// Values encodes the options, filling zero values with defaults. All five
// parameters are always present.
func (o ListOptions) Values() url.Values {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if !o.Sort.Valid() {
		o.Sort = SortNewest
	}
	return url.Values{
		"page":   {strconv.Itoa(o.Page)},
		"limit":  {strconv.Itoa(o.Limit)},
		"search": {o.Search},
		"sort":   {string(o.Sort)},
		"home":   {strconv.FormatBool(o.Home)},
	}
}

// Resource is the CRUD surface shared by recipes and blogs.
type Resource[T any, In any] struct {
	c     *Client
	route string
	mine  string
	id    func(T) string
}

func newResource[T any, In any](c *Client, route, mine string, id func(T) string) *Resource[T, In] {
	return &Resource[T, In]{c: c, route: route, mine: mine, id: id}
}

// Route returns the collection path, e.g. "recipes".
func (r *Resource[T, In]) Route() string {
	return r.route
}

// MineRoute returns the owned collection path, e.g. "recipes/my-recipes".
func (r *Resource[T, In]) MineRoute() string {
	return r.route + "/" + r.mine
}

// List returns one page of the public collection.
func (r *Resource[T, In]) List(ctx context.Context, opts ListOptions) (model.Page[T], error) {
	var page model.Page[T]
	if err := r.c.getJSON(ctx, r.route, opts.Values(), &page); err != nil {
		return page, fmt.Errorf("listing %s: %w", r.route, err)
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return page, nil
}

// Get returns the item with the given slug. A 404, a null data field and a
// record without an id all yield an error matching ErrNotFound.
func (r *Resource[T, In]) Get(ctx context.Context, slug string) (T, error) {
	var (
		env  model.Envelope[*T]
		zero T
	)
	if err := r.c.getJSON(ctx, r.route+"/"+url.PathEscape(slug), nil, &env); err != nil {
		return zero, fmt.Errorf("getting %s %q: %w", r.route, slug, err)
	}
	if env.Data == nil || r.id(*env.Data) == "" {
		return zero, fmt.Errorf("getting %s %q: empty record: %w", r.route, slug, ErrNotFound)
	}
	return *env.Data, nil
}

func (r *Resource[T, In]) itemPath(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%s without id: %w", r.route, ErrNotFound)
	}
	return r.route + "/" + url.PathEscape(id), nil
}

// Mine returns every item owned by the authenticated chef in one request.
func (r *Resource[T, In]) Mine(ctx context.Context) ([]T, error) {
	opts := DefaultListOptions()
	opts.Limit = OwnedLimit

	var page model.Page[T]
	if err := r.c.getJSON(ctx, r.MineRoute(), opts.Values(), &page); err != nil {
		return nil, fmt.Errorf("listing own %s: %w", r.route, err)
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return page.Data, nil
}

func (r *Resource[T, In]) Create(ctx context.Context, in In) (T, error) {
	var env model.Envelope[T]
	if _, err := r.c.sendJSON(ctx, http.MethodPost, r.route, in, &env); err != nil {
		return env.Data, fmt.Errorf("creating %s: %w", r.route, err)
	}
	return env.Data, nil
}

// Update resubmits the full form for the item with the given id.
func (r *Resource[T, In]) Update(ctx context.Context, id string, in In) (T, error) {
	var env model.Envelope[T]
	path, err := r.itemPath(id)
	if err != nil {
		return env.Data, err
	}
	if _, err := r.c.sendJSON(ctx, http.MethodPatch, path, in, &env); err != nil {
		return env.Data, fmt.Errorf("updating %s %q: %w", r.route, id, err)
	}
	return env.Data, nil
}

// Delete removes the item and returns the server's confirmation message.
func (r *Resource[T, In]) Delete(ctx context.Context, id string) (string, error) {
	var body struct {
		Message string `json:"message"`
	}
	path, err := r.itemPath(id)
	if err != nil {
		return "", err
	}
	req, err := r.c.newRequest(ctx, http.MethodDelete, path, nil, nil, "")
	if err != nil {
		return "", err
	}
	if _, err := r.c.send(req, &body); err != nil {
		return "", fmt.Errorf("deleting %s %q: %w", r.route, id, err)
	}
	return body.Message, nil
}

// UploadImage attaches an image to an existing item and returns the item as
// stored after the upload.
func (r *Resource[T, In]) UploadImage(ctx context.Context, id string, file Upload) (T, error) {
	var env model.Envelope[T]
	path, err := r.itemPath(id)
	if err != nil {
		return env.Data, err
	}
	path += "/image"
	if err := r.c.upload(ctx, path, "image", file, &env); err != nil {
		return env.Data, fmt.Errorf("uploading %s image: %w", r.route, err)
	}
	return env.Data, nil
}

func writeMultipart(w io.Writer, field string, file Upload) (string, error) {
	mw := multipart.NewWriter(w)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Filename))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("creating form part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", fmt.Errorf("writing form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return mw.FormDataContentType(), nil
}
