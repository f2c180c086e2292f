// Package classify routes free-form text to an intent with its argument.
package classify

import (
	"strings"

	"github.com/chatty-orange/server/internal/assistant/extract"
	"github.com/chatty-orange/server/internal/assistant/model"
)

// Classifier evaluates an ordered rule table. It holds no mutable state.
type Classifier struct {
	rules []rule
}

func New() *Classifier {
	return &Classifier{rules: defaultRules}
}

// Classify resolves text to an intent. An explicit intent other than general
// chat is used as-is and only its argument is extracted.
func (c *Classifier) Classify(text string, explicit model.Intent) model.Classification {
	norm := extract.Normalize(text)

	if explicit != "" && explicit != model.IntentGeneralChat {
		return explicitClassification(explicit, text, norm)
	}

	for _, r := range c.rules {
		if !r.match(norm) {
			continue
		}
		entity, ok := r.extract(norm)
		if ok {
			return model.Classification{Intent: r.intent, Entity: entity}
		}
		if r.yield != nil && r.yield(norm) {
			continue
		}
		return model.Classification{Intent: r.intent, Outcome: model.OutcomeExtractionFailed}
	}

	return model.Classification{Intent: model.IntentGeneralChat}
}

// Intents returns the rule order, used to pin precedence in tests and docs.
func (c *Classifier) Intents() []model.Intent {
	out := make([]model.Intent, 0, len(c.rules)+1)
	for _, r := range c.rules {
		out = append(out, r.intent)
	}
	return append(out, model.IntentGeneralChat)
}

func explicitClassification(intent model.Intent, raw, norm string) model.Classification {
	out := model.Classification{Intent: intent}
	fallback := strings.TrimSpace(raw)

	switch intent {
	case model.IntentFindPostByKeyword:
		if e, ok := keyword(norm); ok {
			out.Entity = e
		} else if fallback != "" {
			out.Entity = model.KeywordEntity(strings.ToLower(fallback))
		}
	case model.IntentFindUserByUsername:
		if e, ok := username(extract.Username)(norm); ok {
			out.Entity = e
		} else if fallback != "" {
			out.Entity = model.UsernameEntity(strings.TrimPrefix(norm, "@"))
		}
	case model.IntentUserPostsQuery:
		if e, ok := username(extract.UserPostsUsername)(norm); ok {
			out.Entity = e
		} else if e, ok := username(extract.Username)(norm); ok {
			out.Entity = e
		} else if fallback != "" && !strings.Contains(norm, " ") {
			out.Entity = model.UsernameEntity(strings.TrimPrefix(norm, "@"))
		}
	case model.IntentGetPostDetails:
		out.Entity, _ = numericID(norm)
	case model.IntentGetUserActivity:
		out.Entity, _ = activityTarget(norm)
	default:
		return out
	}

	if out.Entity.Kind == model.EntityNone {
		out.Outcome = model.OutcomeExtractionFailed
	}
	return out
}

// WithRequestFields lets typed request fields override text extraction for
// explicit lookups.
func WithRequestFields(c model.Classification, req model.AssistantRequest) model.Classification {
	switch c.Intent {
	case model.IntentGetPostDetails:
		if req.PostID != nil {
			c.Entity = model.NumericIDEntity(*req.PostID)
			c.Outcome = model.OutcomeResolved
		}
	case model.IntentGetUserActivity:
		if req.UserIDTarget != nil {
			c.Entity = model.NumericIDEntity(*req.UserIDTarget)
			c.Outcome = model.OutcomeResolved
		}
	}
	return c
}
