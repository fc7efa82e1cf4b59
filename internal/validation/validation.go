// Package validation carries form-level validation errors to the HTTP layer.
package validation

import (
	"sort"
	"strings"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Err keeps the "no errors" case a plain nil error.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Blank reports whether s is empty once surrounding whitespace is removed.
func Blank(s string) bool { return strings.TrimSpace(s) == "" }
