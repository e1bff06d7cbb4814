// Package util provides shared utility functions used across the application.
package util

import "strings"

// EnsureHash trims whitespace and adds a # prefix to a hex colour string if
// it is missing.
func EnsureHash(hex string) string {
	hex = strings.TrimSpace(hex)
	if hex == "" || strings.HasPrefix(hex, "#") {
		return hex
	}
	return "#" + hex
}

// SplitList splits a comma or whitespace separated list, dropping empty items.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
