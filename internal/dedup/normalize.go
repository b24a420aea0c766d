package dedup

import (
	"strings"
	"unicode"
)

// NormalizeText canonicalizes free text for comparison: lowercase, strip
// everything outside letters, digits, underscore, hyphen, and whitespace,
// collapse whitespace runs to a single space, trim both ends. Blank input
// normalizes to the empty string.
func NormalizeText(input string) string {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	lastSpace := false
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}
