package util

import (
	"strings"
)

// NormalizeBaseURL ensures the base URL ends with a slash.
func NormalizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimRight(trimmed, "/")
	return trimmed + "/"
}

// JoinURL appends a root-relative key to a normalized base URL.
func JoinURL(base string, key string) string {
	return NormalizeBaseURL(base) + strings.TrimLeft(key, "/")
}
