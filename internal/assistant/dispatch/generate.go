package dispatch

import (
	"context"
	"strings"

	"github.com/chatty-orange/server/internal/assistant/model"
	"github.com/chatty-orange/server/internal/assistant/prompts"
	logx "github.com/chatty-orange/server/pkg/logger"
)

const (
	emptyPostContent = "📝 Текст поста не может быть пустым!"
	profileLocked    = "🔒 Анализ профиля доступен только авторизованным пользователям. Войдите в аккаунт, чтобы получить персональные советы."
)

type hint struct {
	triggers []string
	text     string
}

var chatHints = []hint{
	{[]string{"пользовател", "юзер"}, "💡 Чтобы найти пользователя, напишите: «найди пользователя имя» или «что нового у имя»."},
	{[]string{"пост", "стать"}, "💡 Для поиска постов: «найди пост ключевое слово», для деталей: «расскажи о посте 15»."},
	{[]string{"рекоменд", "совет"}, "💡 За рекомендациями авторов спросите: «кого почитать?»."},
}

// Generate answers the passthrough intents with the text generator.
func (d *Dispatcher) Generate(ctx context.Context, intent model.Intent, req model.AssistantRequest) (string, error) {
	switch intent {
	case model.IntentTourStep:
		return TourStep(req.StepNumber), nil
	case model.IntentCheckPostContent:
		if strings.TrimSpace(req.RawText) == "" {
			return emptyPostContent, nil
		}
	case model.IntentAnalyzeProfile:
		if !req.Caller.IsAuthenticated || req.Caller.UserID == nil {
			return profileLocked, nil
		}
	}

	vars := prompts.Vars{
		Username:    req.Caller.DisplayName(),
		Input:       req.RawText,
		CurrentText: req.CurrentText,
		Tags:        req.Tags,
	}
	if intent == model.IntentAnalyzeProfile || intent == model.IntentGeneratePostIdeas {
		vars.Stats = d.profileStats(ctx, req.Caller)
	}

	prompt, err := prompts.Render(ctx, intent, vars)
	if err != nil {
		return "", err
	}

	genCtx, cancel := d.generateContext(ctx)
	defer cancel()
	text, err := d.gen.Generate(genCtx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", model.ErrEmptyGeneration
	}

	if intent == model.IntentGeneralChat {
		text = withHints(text, req.RawText)
	}
	return text, nil
}

// profileStats is best effort; prompts render without stats on failure.
func (d *Dispatcher) profileStats(ctx context.Context, caller model.CallerInfo) model.ProfileStats {
	if !caller.IsAuthenticated || caller.UserID == nil {
		return model.ProfileStats{}
	}
	ctx, cancel := d.lookupContext(ctx)
	defer cancel()

	stats, err := d.repo.GetProfileStats(ctx, *caller.UserID)
	if err != nil {
		logx.Warn().Err(err).Int64("user_id", *caller.UserID).Msg("profile stats unavailable")
		return model.ProfileStats{}
	}
	return stats
}

func withHints(text, raw string) string {
	lower := strings.ToLower(raw)
	var extra []string
	for _, h := range chatHints {
		for _, t := range h.triggers {
			if strings.Contains(lower, t) {
				extra = append(extra, h.text)
				break
			}
		}
	}
	if len(extra) == 0 {
		return text
	}
	return text + "\n\n" + strings.Join(extra, "\n")
}
