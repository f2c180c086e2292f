package extract

import (
	"regexp"
	"strings"
)

var quotedSpan = regexp.MustCompile(`\(([^)]*)\)|\[([^\]]*)\]|"([^"]*)"|«([^»]*)»`)

var keywordTemplates = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|\s)про\s+(.+)`),
	regexp.MustCompile(`(?:^|\s)о\s+(.+)`),
	regexp.MustCompile(`(?:^|\s)об\s+(.+)`),
	regexp.MustCompile(`(?:^|\s)по\s+теме\s+(.+)`),
	regexp.MustCompile(`(?:^|\s)на\s+тему\s+(.+)`),
	regexp.MustCompile(`(?:найди|найти|ищи|искать)\s+(?:посты|пост|статьи|стать\S*)\s+(.+)`),
	regexp.MustCompile(`(?:^|\s)пост\s+(.+)`),
	regexp.MustCompile(`(?:^|\s)посты\s+(.+)`),
	regexp.MustCompile(`(?:^|\s)статьи\s+(.+)`),
}

var keywordStopWords = map[string]struct{}{
	"текст": {},
	"слово": {},
	"и":     {},
}

// Keyword returns the lower-cased search keyword in text. It never fires for
// a query about a specific user's posts.
func Keyword(text string) (string, bool) {
	norm := Normalize(text)
	if norm == "" || IsUserPostsQuery(norm) {
		return "", false
	}

	if m := quotedSpan.FindStringSubmatch(norm); m != nil {
		for _, g := range m[1:] {
			if g = strings.TrimSpace(g); g != "" {
				return acceptKeyword(g)
			}
		}
	}

	for _, re := range keywordTemplates {
		if m := re.FindStringSubmatch(norm); m != nil {
			return acceptKeyword(stripTrailing(m[1]))
		}
	}
	return "", false
}

func acceptKeyword(cand string) (string, bool) {
	cand = strings.TrimSpace(cand)
	if cand == "" || isNumeric(cand) || strings.HasPrefix(cand, "у ") {
		return "", false
	}
	if _, stop := keywordStopWords[cand]; stop {
		return "", false
	}
	return cand, true
}
