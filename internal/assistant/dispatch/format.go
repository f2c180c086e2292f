package dispatch

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Extraction failures are answered with usage examples, never with an error.
const (
	helpUserPosts = "🤔 Не удалось определить, чьи посты показать. Попробуйте так:\n" +
		"• «какие статьи у Orange»\n• «посты пользователя admin»\n• «что писал Orange»"
	helpKeyword = "🔍 Уточните, что искать. Например:\n" +
		"• «найди пост Django»\n• «найди посты про путешествия»\n• «найди пост (веб-разработка)»"
	helpUsername = "❌ Не удалось распознать имя пользователя. Напишите, например, " +
		"«найди пользователя admin» или «@username»."
	helpPostID   = "🔢 Укажите номер поста, например: «расскажи о посте 15»."
	helpActivity = "👤 Укажите пользователя, например: «что нового у Orange» или «активность пользователя 5»."
)

const (
	userNotFoundFmt     = "К сожалению, пользователь с именем '%s' не найден. Проверьте правильность написания имени."
	postsNotFoundFmt    = "К сожалению, посты с ключевым словом '%s' не найдены. Попробуйте другой запрос."
	postNotFound        = "К сожалению, пост не найден. Возможно, он был удален."
	activityNotFound    = "К сожалению, пользователь не найден."
	noCommentsYet       = "Комментариев пока нет."
	noPostsYet          = "Постов пока нет."
	recommendationsNone = "🍊 Пока что мало активных авторов, но скоро их станет больше! А пока создай свой первый пост!"
)

// clip shortens s to n characters and marks the cut with "...".
func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n])) + "..."
}

type builder struct {
	strings.Builder
}

func (b *builder) line(format string, args ...any) {
	fmt.Fprintf(&b.Builder, format, args...)
	b.WriteByte('\n')
}

func (b *builder) blank() {
	b.WriteByte('\n')
}

func (b *builder) text() string {
	return strings.TrimRight(b.String(), "\n")
}
