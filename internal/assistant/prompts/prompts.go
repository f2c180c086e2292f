// Package prompts renders the text-generation prompts for passthrough intents.
package prompts

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/chatty-orange/server/internal/assistant/model"
)

//go:embed template/*.txt
var templates embed.FS

// Vars are the values a prompt template may reference. Every template sees
// every key so missing values render empty.
type Vars struct {
	Username    string
	Input       string
	CurrentText string
	Tags        []string
	Stats       model.ProfileStats
}

func (v Vars) toMap() map[string]any {
	return map[string]any{
		"Username":    v.Username,
		"Input":       strings.TrimSpace(v.Input),
		"CurrentText": strings.TrimSpace(v.CurrentText),
		"TagList":     strings.Join(cleanTags(v.Tags), ", "),
		"Stats":       v.Stats,
	}
}

// Has reports whether intent has a template.
func Has(intent model.Intent) bool {
	_, err := templates.Open(path(intent))
	return err == nil
}

// Render formats the template for intent through the eino prompt component so
// prompt callbacks fire.
func Render(ctx context.Context, intent model.Intent, vars Vars) (string, error) {
	raw, err := templates.ReadFile(path(intent))
	if err != nil {
		return "", fmt.Errorf("no prompt for %s: %w", intent, err)
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.UserMessage(string(raw)),
	)
	msgs, err := tpl.Format(ctx, vars.toMap())
	if err != nil {
		return "", fmt.Errorf("%s prompt render: %w", intent, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("%s prompt render: empty result", intent)
	}
	return strings.TrimSpace(msgs[0].Content), nil
}

func path(intent model.Intent) string {
	return "template/" + string(intent) + ".txt"
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
