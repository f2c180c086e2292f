package classify

import (
	"github.com/chatty-orange/server/internal/assistant/extract"
	"github.com/chatty-orange/server/internal/assistant/model"
)

var (
	postSearchTriggers = []string{
		"найди пост", "найти пост", "ищи пост", "искать пост",
		"найди стать", "найти стать", "покажи пост",
		"найди посты про", "найти посты про", "ищи посты про",
		"посты про", "пост про", "статьи про",
	}
	userSearchTriggers = []string{
		"найди пользователя", "найти пользователя", "ищи пользователя",
		"найди юзера", "профиль", "кто такой",
	}
	postDetailsTriggers = []string{
		"расскажи о посте", "пост номер", "пост id", "детали поста",
		"покажи пост", "что в посте", "открой пост",
	}
	activityTriggers = []string{
		"что нового у", "активность пользователя", "что делает",
		"последние посты", "недавняя активность",
	}
	recommendationTriggers = []string{
		"кого почитать", "рекомендации", "посоветуй авторов",
		"интересные авторы", "на кого подписаться", "посоветуй подписки",
	}
)

// rule is one step of the precedence table. extract reports false when the
// intent matched but its argument is missing. yield lets a later rule take
// over in that case.
type rule struct {
	intent  model.Intent
	match   func(norm string) bool
	extract func(norm string) (model.Entity, bool)
	yield   func(norm string) bool
}

func phrases(list []string) func(string) bool {
	return func(norm string) bool { return extract.ContainsAny(norm, list) }
}

func username(f func(string) (string, bool)) func(string) (model.Entity, bool) {
	return func(norm string) (model.Entity, bool) {
		if u, ok := f(norm); ok {
			return model.UsernameEntity(u), true
		}
		return model.NoEntity(), false
	}
}

func keyword(norm string) (model.Entity, bool) {
	if kw, ok := extract.Keyword(norm); ok {
		return model.KeywordEntity(kw), true
	}
	return model.NoEntity(), false
}

func numericID(norm string) (model.Entity, bool) {
	if id, ok := extract.NumericID(norm); ok {
		return model.NumericIDEntity(id), true
	}
	return model.NoEntity(), false
}

func activityTarget(norm string) (model.Entity, bool) {
	if e, ok := numericID(norm); ok {
		return e, true
	}
	return username(extract.ActivityUsername)(norm)
}

func noArgument(string) (model.Entity, bool) {
	return model.NoEntity(), true
}

// hasPostID sends "покажи пост 10" on to post details when no keyword is left.
func hasPostID(norm string) bool {
	_, ok := extract.NumericID(norm)
	return ok && extract.ContainsAny(norm, postDetailsTriggers)
}

// defaultRules is the precedence order. UserPostsQuery must stay ahead of
// FindPostByKeyword.
var defaultRules = []rule{
	{intent: model.IntentUserPostsQuery, match: extract.IsUserPostsQuery, extract: username(extract.UserPostsUsername)},
	{intent: model.IntentFindPostByKeyword, match: phrases(postSearchTriggers), extract: keyword, yield: hasPostID},
	{intent: model.IntentFindUserByUsername, match: phrases(userSearchTriggers), extract: username(extract.Username)},
	{intent: model.IntentGetPostDetails, match: phrases(postDetailsTriggers), extract: numericID},
	{intent: model.IntentGetUserActivity, match: phrases(activityTriggers), extract: activityTarget},
	{intent: model.IntentSubscriptionRecommendations, match: phrases(recommendationTriggers), extract: noArgument},
}
