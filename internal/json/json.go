// Package json contains utilities for handling JSON.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyBody is returned when there is nothing to decode.
var ErrEmptyBody = errors.New("empty body")

// DecodeJSON decodes a JSON object.
func DecodeJSON(dst any, decoder *json.Decoder) error {
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("decoding json: %w", err)
	}

	// Ensure no extra tokens after decoding
	if _, err := decoder.Token(); err != io.EOF {
		return fmt.Errorf("unexpected token after JSON object: %w", err)
	}
	return nil
}

// Decode decodes a single JSON value from r.
func Decode(dst any, r io.Reader) error {
	return DecodeJSON(dst, json.NewDecoder(r))
}
