package util

import (
	"errors"
	"strings"
)

var errNameInvalid = errors.New("invalid file name")

// SanitizeFileName normalizes a client-supplied name before it is kept
// as display metadata. Path separators become underscores; names with
// traversal sequences or nothing but whitespace are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errNameInvalid
	}
	clean := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if clean == "" {
		return "", errNameInvalid
	}
	return clean, nil
}
