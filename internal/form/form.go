package form

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/matt-dz/savorystories/internal/backend"
)

const (
	magicNumberSeek = 512
	// MaxImageSize is the largest image forwarded to the backend.
	MaxImageSize = 20 << 20
	// MaxMultipartMemory bounds a whole multipart form held in memory.
	MaxMultipartMemory = MaxImageSize + 1<<20
)

// allowedImageTypes lists the simple MIME types we accept.
var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/svg+xml": true,
	"image/webp":    true,
	"image/gif":     true,
}

var mimeTypeSuffix = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
}

var (
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	ErrImageTooLarge       = errors.New("image is larger than 20 MB")
	ErrEmptyImage          = errors.New("image is empty")
)

// ReadFile reads an uploaded image, checks its size and sniffs its type
// from the first bytes.
func ReadFile(file io.ReadCloser, filename string) (*backend.Upload, error) {
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	contentType := detectImageType(data, filename)
	if !allowedImageTypes[contentType] {
		return nil, fmt.Errorf("mime type %q: %w", contentType, ErrUnsupportedMimeType)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "image"
	}
	return &backend.Upload{
		Filename:    base + mimeTypeSuffix[contentType],
		ContentType: contentType,
		Data:        data,
	}, nil
}

// detectImageType sniffs data. SVG is text to the sniffer, so an XML body
// with an .svg name counts as SVG.
func detectImageType(data []byte, filename string) string {
	contentType := http.DetectContentType(data[:min(len(data), magicNumberSeek)])
	if strings.EqualFold(filepath.Ext(filename), ".svg") &&
		(strings.HasPrefix(contentType, "text/xml") || strings.HasPrefix(contentType, "text/plain")) {
		return "image/svg+xml"
	}
	return contentType
}

// Image returns the image posted in field, or nil when no file was chosen.
// The request must already be parsed with ParseMultipartForm.
func Image(r *http.Request, field string) (*backend.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading form file %q: %w", field, err)
	}
	if header.Size == 0 && header.Filename == "" {
		_ = file.Close()
		return nil, nil
	}
	return ReadFile(file, headerFilename(header))
}

func headerFilename(h *multipart.FileHeader) string {
	if h == nil {
		return ""
	}
	return h.Filename
}

// ImageMessage turns an image error into a message for the form.
func ImageMessage(err error) string {
	switch {
	case errors.Is(err, ErrImageTooLarge):
		return "Image must be 20 MB or smaller"
	case errors.Is(err, ErrUnsupportedMimeType):
		return "Image must be a JPEG, PNG, WebP, GIF or SVG file"
	case errors.Is(err, ErrEmptyImage):
		return "Image is empty"
	default:
		return "Image could not be read"
	}
}

// ParseMultipart parses a form that may carry an image. Bodies larger than
// one image plus its fields are refused with ErrImageTooLarge. A plain
// urlencoded form is parsed as such.
func ParseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxMultipartMemory)
	err := r.ParseMultipartForm(MaxMultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return ErrImageTooLarge
	}
	if err != nil {
		return fmt.Errorf("parsing form: %w", err)
	}
	return nil
}
