package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	gform "github.com/go-playground/form/v4"
)

var ErrNotStructPointer = errors.New("destination must be a pointer to a struct")

var decoder = newDecoder()

// newDecoder binds `form` tags. Strings are trimmed, a []string takes one
// item per non-empty line of every value, and an empty int stays zero.
func newDecoder() *gform.Decoder {
	d := gform.NewDecoder()
	d.SetTagName("form")
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if len(vals) == 0 {
			return "", nil
		}
		return strings.TrimSpace(vals[0]), nil
	}, "")
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		return Lines(vals...), nil
	}, []string{})
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			return 0, nil
		}
		return strconv.Atoi(strings.TrimSpace(vals[0]))
	}, 0)
	return d
}

// Decode fills dst, a pointer to a struct, from values. A field whose value
// does not convert is reported in the returned Errors and left zero.
func Decode(values url.Values, dst any) (Errors, error) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, ErrNotStructPointer
	}

	err := decoder.Decode(dst, values)
	if err == nil {
		return nil, nil
	}
	var decodeErrs gform.DecodeErrors
	if !errors.As(err, &decodeErrs) {
		return nil, fmt.Errorf("decoding form: %w", err)
	}

	typ := v.Elem().Type()
	errs := make(Errors, len(decodeErrs))
	for name := range decodeErrs {
		errs[name] = conversionMessage(typ, name)
	}
	return errs, nil
}

func conversionMessage(typ reflect.Type, name string) string {
	label := humanize(name)
	for i := range typ.NumField() {
		sf := typ.Field(i)
		if tag, _, _ := strings.Cut(sf.Tag.Get("form"), ","); tag != name {
			continue
		}
		if l := sf.Tag.Get("label"); l != "" {
			label = l
		}
		if k := sf.Type.Kind(); k == reflect.Int || k == reflect.Int64 {
			return label + " must be a number"
		}
	}
	return label + " is invalid"
}

// Lines splits every value on newlines and keeps the non-empty, trimmed
// lines in order.
func Lines(values ...string) []string {
	out := []string{}
	for _, v := range values {
		for line := range strings.SplitSeq(strings.ReplaceAll(v, "\r\n", "\n"), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// Parse decodes and validates values into dst. The returned Errors merge
// decoding and validation messages; decoding messages win.
func Parse(values url.Values, dst any) (Errors, error) {
	decodeErrs, err := Decode(values, dst)
	if err != nil {
		return nil, err
	}
	errs := Validate(dst)
	if decodeErrs == nil {
		return errs, nil
	}
	if errs == nil {
		errs = Errors{}
	}
	for k, msg := range decodeErrs {
		errs[k] = msg
	}
	return errs, nil
}
