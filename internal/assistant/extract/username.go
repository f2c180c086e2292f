package extract

import (
	"regexp"
	"strings"
)

const name = `([\p{L}\p{N}_.\-]+)`

// usernameTemplates are tried in order; a rejected candidate moves on to the
// next template.
var usernameTemplates = []*regexp.Regexp{
	regexp.MustCompile(`(?:найди|найти|ищи|искать|покажи)\s+(?:пользователя|юзера)\s+@?` + name),
	regexp.MustCompile(`(?:^|\s)пользователь\s+@?` + name),
	regexp.MustCompile(`(?:^|\s)профиль\s+@?` + name),
	regexp.MustCompile(`@` + name),
	regexp.MustCompile(`(?:^|\s)в\s+профиле\s+@?` + name),
	regexp.MustCompile(`кто\s+такой\s+@?` + name),
	regexp.MustCompile(`^(?:найди|найти|ищи)\s+@?([a-z0-9_.\-]+)$`),
}

var usernameTriggers = map[string]struct{}{
	"пользователя": {},
	"юзера":        {},
	"пользователь": {},
	"профиль":      {},
}

var usernameStopWords = map[string]struct{}{
	"имя":   {},
	"логин": {},
	"ник":   {},
}

// Username returns the lower-cased username mentioned in text.
func Username(text string) (string, bool) {
	norm := Normalize(text)
	if norm == "" {
		return "", false
	}
	if cand, ok := firstUsername(norm, usernameTemplates); ok {
		return cand, true
	}

	tokens := strings.Fields(norm)
	for i := 0; i < len(tokens)-1; i++ {
		if _, ok := usernameTriggers[tokens[i]]; !ok {
			continue
		}
		if cand, ok := acceptUsername(strings.TrimPrefix(tokens[i+1], "@")); ok {
			return cand, true
		}
	}
	return "", false
}

func firstUsername(norm string, templates []*regexp.Regexp) (string, bool) {
	for _, re := range templates {
		m := re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		if cand, ok := acceptUsername(m[1]); ok {
			return cand, true
		}
	}
	return "", false
}

func acceptUsername(cand string) (string, bool) {
	cand = strings.Trim(stripTrailing(cand), ".")
	if runeLen(cand) <= 1 || isNumeric(cand) {
		return "", false
	}
	if _, stop := usernameStopWords[cand]; stop {
		return "", false
	}
	return cand, true
}
