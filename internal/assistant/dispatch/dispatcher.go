// Package dispatch answers a classified request by calling one collaborator
// and formatting the result. It never returns an error to its caller.
package dispatch

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/chatty-orange/server/internal/assistant/model"
	errx "github.com/chatty-orange/server/internal/core/error"
	logx "github.com/chatty-orange/server/pkg/logger"
)

const (
	truncationNotice = "\n\n... (ответ сокращен)"
	emptyGeneration  = "ИИ не смог сгенерировать ответ в ожидаемом формате."
)

type Dispatcher struct {
	repo model.ContentRepository
	gen  model.TextGenerator
	cfg  model.DispatchConfig
}

func New(repo model.ContentRepository, gen model.TextGenerator, cfg model.DispatchConfig) *Dispatcher {
	def := model.DefaultDispatchConfig()
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = def.LookupTimeout
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = def.GenerateTimeout
	}
	if cfg.MaxResponseLength <= 0 {
		cfg.MaxResponseLength = def.MaxResponseLength
	}
	return &Dispatcher{repo: repo, gen: gen, cfg: cfg}
}

// Dispatch routes c to a lookup or to the text generator.
func (d *Dispatcher) Dispatch(ctx context.Context, c model.Classification, req model.AssistantRequest) string {
	if c.Intent.IsLookup() {
		text, err := d.Lookup(ctx, c, req)
		return d.Finish(ctx, c.Intent, text, err)
	}
	text, err := d.Generate(ctx, c.Intent, req)
	return d.Finish(ctx, c.Intent, text, err)
}

// Finish converts a collaborator failure into the apology and caps the length.
func (d *Dispatcher) Finish(ctx context.Context, intent model.Intent, text string, err error) string {
	switch {
	case errors.Is(err, model.ErrEmptyGeneration):
		text = emptyGeneration
	case err != nil:
		appErr := errx.Unavailable(err)
		logx.Error().Err(appErr).Str("intent", intent.String()).
			Bool("timeout", errors.Is(err, context.DeadlineExceeded)).
			Msg("collaborator failed")
		text = appErr.Message
	case text == "":
		text = emptyGeneration
	}
	return Truncate(text, d.cfg.MaxResponseLength)
}

// Truncate caps text at max characters including the notice.
func Truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	notice := []rune(truncationNotice)
	keep := max - len(notice)
	if keep < 0 {
		return string(notice[:max])
	}
	return string([]rune(text)[:keep]) + truncationNotice
}

func (d *Dispatcher) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.cfg.LookupTimeout)
}

func (d *Dispatcher) generateContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.cfg.GenerateTimeout)
}
