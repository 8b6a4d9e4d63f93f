package models

import "errors"

// ErrInvalidArgument is returned when a record cannot be constructed from the
// values supplied.
var ErrInvalidArgument = errors.New("models: invalid argument")

// Truncate returns the first n characters of s. Strings that already fit are
// returned unchanged, so truncating twice gives the same result as once.
// A negative n leaves s untouched.
func Truncate(s string, n int) string {
	if n < 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// anyEmpty reports whether at least one of values is the empty string.
func anyEmpty(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}
