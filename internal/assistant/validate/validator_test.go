package validate

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatty-orange/server/internal/assistant/model"
	errx "github.com/chatty-orange/server/internal/core/error"
)

func ptr[T any](v T) *T { return &v }

func TestValidateGeneralChatBoundary(t *testing.T) {
	intent, err := Validate(model.AssistantRequest{ExplicitIntent: "general_chat", RawText: strings.Repeat("я", 2000)})
	require.NoError(t, err)
	assert.Equal(t, model.IntentGeneralChat, intent)

	_, err = Validate(model.AssistantRequest{ExplicitIntent: "general_chat", RawText: strings.Repeat("я", 2001)})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
	assert.Contains(t, errx.MessageOf(err), "Слишком длинный запрос")
}

func TestValidateEmptyActionIsGeneralChat(t *testing.T) {
	intent, err := Validate(model.AssistantRequest{RawText: "привет"})
	require.NoError(t, err)
	assert.Equal(t, model.IntentGeneralChat, intent)
}

func TestValidateUnknownIntent(t *testing.T) {
	_, err := Validate(model.AssistantRequest{ExplicitIntent: "rm_rf", RawText: "x"})
	require.Error(t, err)
	assert.Contains(t, errx.MessageOf(err), "Неизвестный тип действия")
}

func TestMaxInputLength(t *testing.T) {
	assert.Equal(t, 5000, MaxInputLength(model.IntentCheckPostContent))
	assert.Equal(t, 3000, MaxInputLength(model.IntentAnalyzeSentiment))
	assert.Equal(t, 2000, MaxInputLength(model.IntentGeneralChat))
	assert.Equal(t, 1000, MaxInputLength(model.IntentFAQ))
	assert.Equal(t, 1000, MaxInputLength(model.IntentFeatureExplanation))
	assert.Equal(t, 1000, MaxInputLength(model.IntentGetPostDetails))
}

func TestValidatePerIntentLimits(t *testing.T) {
	_, err := Validate(model.AssistantRequest{ExplicitIntent: "check_post_content", RawText: strings.Repeat("a", 5000)})
	assert.NoError(t, err)
	_, err = Validate(model.AssistantRequest{ExplicitIntent: "analyze_sentiment", RawText: strings.Repeat("a", 3001)})
	assert.Error(t, err)
	_, err = Validate(model.AssistantRequest{ExplicitIntent: "faq", RawText: strings.Repeat("a", 1001)})
	assert.Error(t, err)
	_, err = Validate(model.AssistantRequest{ExplicitIntent: "post_creation_suggestion", CurrentText: strings.Repeat("a", 5001)})
	assert.Error(t, err)
	_, err = Validate(model.AssistantRequest{ExplicitIntent: "post_creation_suggestion", CurrentText: strings.Repeat("a", 5000)})
	assert.NoError(t, err)
}

func TestValidateNumericBounds(t *testing.T) {
	cases := []struct {
		name string
		req  model.AssistantRequest
		msg  string
	}{
		{"step too low", model.AssistantRequest{ExplicitIntent: "interactive_tour_step", StepNumber: ptr(0)}, "от 1 до 10"},
		{"step too high", model.AssistantRequest{ExplicitIntent: "interactive_tour_step", StepNumber: ptr(11)}, "от 1 до 10"},
		{"post id zero", model.AssistantRequest{ExplicitIntent: "get_post_details", PostID: ptr(int64(0))}, "ID поста"},
		{"post id huge", model.AssistantRequest{ExplicitIntent: "get_post_details", PostID: ptr(int64(1000000))}, "ID поста"},
		{"user id negative", model.AssistantRequest{ExplicitIntent: "get_user_activity", UserIDTarget: ptr(int64(-1))}, "ID пользователя"},
		{"too many tags", model.AssistantRequest{ExplicitIntent: "generate_post_ideas", Tags: make([]string, 11)}, "Слишком много тегов"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.req)
			require.Error(t, err)
			assert.Contains(t, errx.MessageOf(err), tc.msg)
		})
	}

	_, err := Validate(model.AssistantRequest{ExplicitIntent: "interactive_tour_step", StepNumber: ptr(10)})
	assert.NoError(t, err)
	_, err = Validate(model.AssistantRequest{ExplicitIntent: "get_post_details", PostID: ptr(int64(999999))})
	assert.NoError(t, err)
	_, err = Validate(model.AssistantRequest{ExplicitIntent: "generate_post_ideas", Tags: make([]string, 10)})
	assert.NoError(t, err)
}

func TestValidateRequiredInput(t *testing.T) {
	cases := map[string]string{
		"faq":                 "Введите ваш вопрос",
		"feature_explanation": "Укажите функцию",
		"check_post_content":  "Введите текст для проверки",
		"analyze_sentiment":   "Введите текст для анализа",
	}
	for action, msg := range cases {
		_, err := Validate(model.AssistantRequest{ExplicitIntent: action})
		require.Error(t, err, action)
		assert.Contains(t, errx.MessageOf(err), msg, action)
	}

	// Whitespace-only drafts reach the dispatcher, which answers with its own hint.
	_, err := Validate(model.AssistantRequest{ExplicitIntent: "check_post_content", RawText: "   "})
	assert.NoError(t, err)
}
