package security

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

const maxQuizTextLen = 1000

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString removes potentially dangerous characters
func SanitizeString(input string) string {
	// Trim whitespace
	input = strings.TrimSpace(input)

	// Drop control characters so one client cannot send terminal
	// escape sequences to every other client that lists the catalog.
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	// Limit length
	if runes := []rune(input); len(runes) > maxQuizTextLen {
		input = string(runes[:maxQuizTextLen])
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeQuizText prepares user-entered question or answer text for storage.
// Markup is stripped and entities are decoded back to plain text.
func SanitizeQuizText(input string) string {
	return strings.TrimSpace(html.UnescapeString(SanitizeHTML(SanitizeString(input))))
}
