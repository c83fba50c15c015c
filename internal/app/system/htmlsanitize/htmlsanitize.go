// Package htmlsanitize cleans rich text submitted through the CMS (article
// bodies, homepage and about sections) before it is stored.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy   *bluemonday.Policy
	strictPolicy *bluemonday.Policy
	policyOnce   sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		richPolicy = bluemonday.UGCPolicy()

		// editor tables
		richPolicy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		richPolicy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		richPolicy.AllowAttrs("class").OnElements("table", "th", "td", "tr", "p", "span", "img", "figure")

		richPolicy.AllowElements("u", "s", "sub", "sup", "mark", "figure", "figcaption")
		richPolicy.AllowAttrs("loading").Matching(bluemonday.SpaceSeparatedTokens).OnElements("img")
		richPolicy.AllowDataAttributes()

		strictPolicy = bluemonday.StrictPolicy()
	})
	return richPolicy, strictPolicy
}

// Sanitize removes scripts, event handlers, and unsafe URLs while keeping
// formatting, links, images, lists, and tables.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	rich, _ := policies()
	return rich.Sanitize(s)
}

// StripTags removes all markup and returns unescaped plain text.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	_, strict := policies()
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether content has no markup.
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML escapes text and turns newlines into <br> inside one <p>.
func PlainTextToHTML(text string) string {
	if text == "" {
		return ""
	}
	escaped := html.EscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareRichText normalizes CMS input for storage: plain text is wrapped
// into HTML, markup is sanitized.
func PrepareRichText(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	if IsPlainText(content) {
		return PlainTextToHTML(content)
	}
	return Sanitize(content)
}

// WordCount counts whitespace-separated words in the visible text.
func WordCount(content string) int {
	// pad tags so adjacent blocks don't merge words
	return len(strings.Fields(StripTags(strings.ReplaceAll(content, "<", " <"))))
}
