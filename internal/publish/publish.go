// Package publish saves a resource and then attaches its image in a second
// call, because the upload endpoint needs the identifier of the saved
// resource.
package publish

import (
	"context"
	"errors"
	"fmt"
)

// ErrImageNotAttached is returned, wrapped, when the resource was saved but
// the image upload failed. The saved resource is returned with it.
var ErrImageNotAttached = errors.New("resource saved without its image")

// WithImage runs save and, when attach is non-nil, attach with the saved
// value. A failed save returns its error untouched. A failed attach returns
// the saved value together with an error wrapping ErrImageNotAttached.
// Nothing is rolled back or retried.
func WithImage[T any](
	ctx context.Context,
	save func(context.Context) (T, error),
	attach func(context.Context, T) (T, error),
) (T, error) {
	saved, err := save(ctx)
	if err != nil {
		return saved, err
	}
	if attach == nil {
		return saved, nil
	}

	withImage, err := attach(ctx, saved)
	if err != nil {
		return saved, fmt.Errorf("%w: %w", ErrImageNotAttached, err)
	}
	return withImage, nil
}
