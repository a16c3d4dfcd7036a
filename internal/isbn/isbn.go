// Package isbn validates International Standard Book Numbers.
//
// The same normalization and shape check guards both request validation and
// the uniqueness column in the store, so the two layers cannot drift.
package isbn

import "regexp"

var (
	separators = regexp.MustCompile(`[-\s]`)
	isbn10     = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13     = regexp.MustCompile(`^\d{13}$`)
)

// Normalize strips hyphens and whitespace. It does not validate the result.
func Normalize(raw string) string {
	return separators.ReplaceAllString(raw, "")
}

// Valid reports whether raw normalizes to a 10-character sequence of digits
// with a final digit or "X", or a 13-character all-digit sequence.
func Valid(raw string) bool {
	s := Normalize(raw)
	switch len(s) {
	case 10:
		return isbn10.MatchString(s)
	case 13:
		return isbn13.MatchString(s)
	}
	return false
}
