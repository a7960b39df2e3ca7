// Package utils holds small parsing helpers shared by the HTTP layer.
package utils

import "strconv"

// Page bounds for list endpoints.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AtoiDefault parses s as a base-10 int, returning def when s is empty or
// malformed. Surrounding whitespace is not trimmed.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Page parses raw page and page_size values and clamps them to
// [1, ∞) and [1, MaxPageSize].
func Page(rawPage, rawSize string) (page, size int) {
	page = max(AtoiDefault(rawPage, DefaultPage), 1)
	size = min(max(AtoiDefault(rawSize, DefaultPageSize), 1), MaxPageSize)
	return page, size
}
