// Package matcher pairs a tracker row with its source document by finding
// the row identifier inside file names.
package matcher

import (
	"path/filepath"
	"strings"
)

// Normalize prepares a raw identifier cell value for matching.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Usable reports whether a normalized identifier can be matched.
// Empty values and the "nan" placeholder written by some exporters are not.
func Usable(id string) bool {
	return id != "" && id != "nan"
}

// Match returns the first file whose base name contains identifier,
// case-insensitively. Files are visited in the given order; no ranking is
// applied when several names contain the identifier.
func Match(identifier string, files []string) (string, bool) {
	id := Normalize(identifier)
	if id == "" {
		return "", false
	}
	for _, f := range files {
		if strings.Contains(strings.ToLower(filepath.Base(f)), id) {
			return f, true
		}
	}
	return "", false
}
