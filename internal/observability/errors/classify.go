// Package errors names error kinds for structured log fields.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/carehaven/carehome-admin/internal/errors"
)

// Classify returns a short, stable name for err suitable for an error_kind log attribute.
// Application errors report their code; anything else reports the innermost concrete type
// in snake_case form.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
	if name == "" {
		return "unknown"
	}
	return name
}
