// Package normalize holds the string normalization rules shared by stores and
// handlers: emails, names, status values, tag lists, and URL slugs.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email trims and lowercases an email address before storage or comparison.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Use text.Fold for case-insensitive keys.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status trims and lowercases an enum value such as a booking status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Slug derives a URL-safe identifier: lowercase, every run of characters
// outside [a-z0-9] becomes a single hyphen, leading/trailing hyphens removed.
// Accented letters are folded to their base letter first ("Café" -> "cafe").
func Slug(s string) string {
	folded := strings.ToLower(text.Fold(s))

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Tags trims each tag, drops empties and duplicates, and keeps input order.
// The result is never nil.
func Tags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
