// Package validate checks intent names, input lengths and numeric bounds
// before any lookup or generation happens.
package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/chatty-orange/server/internal/assistant/model"
	errx "github.com/chatty-orange/server/internal/core/error"
)

const (
	MinID      = 1
	MaxID      = 999999
	MinStep    = 1
	MaxStep    = 10
	MaxTags    = 10
	defaultMax = 1000
)

var maxInputLength = map[model.Intent]int{
	model.IntentCheckPostContent:   5000,
	model.IntentAnalyzeSentiment:   3000,
	model.IntentGeneralChat:        2000,
	model.IntentFAQ:                1000,
	model.IntentFeatureExplanation: 1000,
}

// MaxCurrentTextLength bounds the draft passed to post_creation_suggestion.
const MaxCurrentTextLength = 5000

var requiredInput = map[model.Intent]string{
	model.IntentFAQ:                "Введите ваш вопрос",
	model.IntentFeatureExplanation: "Укажите функцию, о которой хотите узнать",
	model.IntentCheckPostContent:   "Введите текст для проверки",
	model.IntentAnalyzeSentiment:   "Введите текст для анализа",
}

// MaxInputLength returns the user_input limit in characters for intent.
func MaxInputLength(intent model.Intent) int {
	if n, ok := maxInputLength[intent]; ok {
		return n
	}
	return defaultMax
}

// Validate returns the whitelisted intent for req or a 400 AppError.
func Validate(req model.AssistantRequest) (model.Intent, error) {
	intent, ok := model.ParseIntent(req.ExplicitIntent)
	if !ok {
		return "", errx.Validation("Неизвестный тип действия: %s", req.ExplicitIntent)
	}

	if n := utf8.RuneCountInString(req.RawText); n > MaxInputLength(intent) {
		return "", errx.Validation("Слишком длинный запрос. Максимум %d символов.", MaxInputLength(intent))
	}
	if utf8.RuneCountInString(req.CurrentText) > MaxCurrentTextLength {
		return "", errx.Validation("Слишком длинный текст. Максимум %d символов.", MaxCurrentTextLength)
	}

	if msg, ok := requiredInput[intent]; ok && missing(intent, req.RawText) {
		return "", errx.Validation("%s", msg)
	}

	if req.StepNumber != nil && (*req.StepNumber < MinStep || *req.StepNumber > MaxStep) {
		return "", errx.Validation("Номер шага должен быть от %d до %d", MinStep, MaxStep)
	}
	if req.PostID != nil && !inIDRange(*req.PostID) {
		return "", errx.Validation("Некорректный ID поста: допустимо от %d до %d", MinID, MaxID)
	}
	if req.UserIDTarget != nil && !inIDRange(*req.UserIDTarget) {
		return "", errx.Validation("Некорректный ID пользователя: допустимо от %d до %d", MinID, MaxID)
	}
	if len(req.Tags) > MaxTags {
		return "", errx.Validation("Слишком много тегов. Максимум %d.", MaxTags)
	}

	return intent, nil
}

// missing treats a whitespace-only draft as present so the dispatcher can
// answer it with a hint.
func missing(intent model.Intent, text string) bool {
	if intent == model.IntentCheckPostContent {
		return text == ""
	}
	return strings.TrimSpace(text) == ""
}

func inIDRange(id int64) bool {
	return id >= MinID && id <= MaxID
}
