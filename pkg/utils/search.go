package utils

import (
	"strings"
)

// EscapeLike escapes LIKE metacharacters in user-supplied search text
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// BuildSearchPattern builds a contains-style LIKE pattern from raw input
func BuildSearchPattern(keyword string) string {
	return "%" + EscapeLike(strings.TrimSpace(keyword)) + "%"
}
