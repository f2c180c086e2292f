// Package extract derives usernames, keywords and numeric ids from free-form
// Russian and English text.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	boldMarkers = strings.NewReplacer("**", "")
	spaceRun    = regexp.MustCompile(`\s+`)
	trailPunct  = regexp.MustCompile(`[?!.,:;]+$`)
	digitsOnly  = regexp.MustCompile(`^\d+$`)
)

// Normalize lower-cases text, drops markdown bold markers and collapses
// whitespace. All matching happens on the normalized form.
func Normalize(text string) string {
	text = boldMarkers.Replace(text)
	text = strings.ToLower(strings.TrimSpace(text))
	return spaceRun.ReplaceAllString(text, " ")
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether normalized text contains any of the phrases.
func ContainsAny(text string, phrases []string) bool {
	return containsAny(text, phrases)
}

func stripTrailing(s string) string {
	return strings.TrimSpace(trailPunct.ReplaceAllString(strings.TrimSpace(s), ""))
}

func isNumeric(s string) bool {
	return digitsOnly.MatchString(s)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
