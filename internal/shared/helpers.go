// Package shared provides common utility functions used across multiple
// packages in the crebforge codebase.
package shared

import (
	"fmt"
	"strings"
)

// ShortDigest truncates a hex digest to the 12-character prefix used in
// store path names and snapshot identifiers.
func ShortDigest(digest string) string {
	trimmed := strings.TrimSpace(digest)
	if len(trimmed) <= 12 {
		return trimmed
	}
	return trimmed[:12]
}

// NormalizeSourceName lowercases a source name and replaces underscores
// with hyphens so store path names stay uniform.
func NormalizeSourceName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	return strings.ReplaceAll(lower, "_", "-")
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}
