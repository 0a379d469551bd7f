// Package form decodes, validates and converts the HTML forms of the site.
// Validation runs before any backend call and reports one message per
// field.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/matt-dz/savorystories/internal/password"
)

// Errors maps a form field name to its message.
type Errors map[string]string

func (e Errors) Get(field string) string {
	return e[field]
}

func (e Errors) Any() bool {
	return len(e) > 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return password.Validate(fl.Field().String(), personal(fl.Parent())...) == nil
	})
	return v
}

// personal returns the Name and Email fields next to a password, when the
// form has them.
func personal(parent reflect.Value) []string {
	for parent.Kind() == reflect.Pointer {
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return nil
	}
	var out []string
	for _, name := range []string{"Name", "Email"} {
		if f := parent.FieldByName(name); f.IsValid() && f.Kind() == reflect.String {
			out = append(out, f.String())
		}
	}
	return out
}

// Validate checks dst, a pointer to a form struct, and returns the field
// messages. It returns nil when the form is valid.
func Validate(dst any) Errors {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return Errors{"": "Invalid form"}
	}

	typ := reflect.TypeOf(dst)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	out := make(Errors, len(validationErrs))
	for _, fe := range validationErrs {
		// "ingredients[2]" reports on "ingredients"
		field, _, _ := strings.Cut(fe.Field(), "[")
		if _, seen := out[field]; seen {
			continue
		}
		structField, _, _ := strings.Cut(fe.StructField(), "[")
		sf, _ := typ.FieldByName(structField)
		out[field] = message(fe, sf)
	}
	return out
}

func message(fe validator.FieldError, sf reflect.StructField) string {
	if msg := sf.Tag.Get("msg"); msg != "" {
		return msg
	}
	label := sf.Tag.Get("label")
	if label == "" {
		name, _, _ := strings.Cut(fe.Field(), "[")
		label = humanize(name)
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Add at least %s %s", fe.Param(), strings.ToLower(label))
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "strongpassword":
		// Only the personal check needs the rest of the form.
		if err := password.Validate(fmt.Sprint(fe.Value())); err != nil {
			first, _, _ := strings.Cut(err.Error(), "\n")
			return capitalize(first)
		}
		return capitalize(password.ErrPersonal.Error())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// humanize turns "cookingTime" into "Cooking time".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return capitalize(b.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
