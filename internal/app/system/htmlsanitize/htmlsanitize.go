// Package htmlsanitize cleans admin-authored rich text (devotional bodies,
// content descriptions, pastor replies) and member-authored plain text
// (prayers, chat, questions) before it is stored or rendered.
package htmlsanitize

import (
	"html"
	"html/template"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce sync.Once
	rich     *bluemonday.Policy

	strictOnce sync.Once
	strict     *bluemonday.Policy
)

func richPolicy() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("u", "s", "mark", "hr")
		p.AllowAttrs("class").OnElements("p", "span", "div", "table", "tr", "td", "th", "blockquote")
		p.AllowAttrs("style").OnElements("table", "tr", "td", "th")
		p.AllowStyles("text-align", "width").OnElements("table", "tr", "td", "th")
		p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td", "th")
		rich = p
	})
	return rich
}

func strictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// Sanitize strips anything unsafe from rich HTML.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return richPolicy().Sanitize(s)
}

// SanitizeToHTML is Sanitize typed for templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// Text removes every tag from s, keeping the text, and trims it.
// Entities produced by the policy are decoded so stored text stays plain.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy().Sanitize(s)))
}

var tagPattern = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)

// IsPlainText reports whether s contains no HTML tags.
func IsPlainText(s string) bool {
	return !tagPattern.MatchString(s)
}

// PlainTextToHTML escapes s and wraps it in a paragraph with line breaks.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// PrepareForDisplay renders stored text that may be either plain or HTML.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
