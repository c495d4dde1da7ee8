package models

import "strings"

// FullName joins the name parts, dropping stray whitespace.
func FullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
