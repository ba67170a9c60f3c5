// Package strx holds small string helpers shared by config and flag parsing.
package strx

import "strings"

// Coalesce returns the first argument that is non-empty after trimming
// space, trimmed. It returns "" when all are blank.
func Coalesce(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Fold trims s and lowercases it, for matching keywords typed by people.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
