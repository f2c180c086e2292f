package graph

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/chatty-orange/server/pkg/logger"
)

type startKey struct{}

// NewLoggingCallbacks logs node timings, rendered prompts and chat model
// calls at debug level.
func NewLoggingCallbacks() []einocb.Handler {
	timing := einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			return context.WithValue(ctx, startKey{}, time.Now())
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			ev := logx.Debug().Str("node", info.Name).Str("component", string(info.Component))
			if start, ok := ctx.Value(startKey{}).(time.Time); ok {
				ev = ev.Dur("took", time.Since(start))
			}
			ev.Msg("graph node finished")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("node", info.Name).Str("component", string(info.Component)).Msg("graph node failed")
			return ctx
		}).
		Build()

	prompts := callbackHelper.NewHandlerHelper().
		Prompt(&callbackHelper.PromptCallbackHandler{
			OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
				if output != nil && len(output.Result) > 0 && output.Result[0] != nil {
					logx.Debug().Int("chars", len([]rune(output.Result[0].Content))).Msg("prompt rendered")
				}
				return ctx
			},
			OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
				logx.Error().Err(err).Msg("prompt render failed")
				return ctx
			},
		}).
		ChatModel(newModelHandler()).
		Handler()

	return []einocb.Handler{timing, prompts}
}

func newModelHandler() *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *einomodel.CallbackInput) context.Context {
			if input != nil {
				logx.Debug().Str("model", info.Type).Int("messages", len(input.Messages)).Msg("chat model start")
			}
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *einomodel.CallbackOutput) context.Context {
			if output != nil && output.Message != nil {
				logx.Debug().Str("model", info.Type).Int("chars", len([]rune(output.Message.Content))).Msg("chat model end")
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("model", info.Type).Msg("chat model failed")
			return ctx
		},
	}
}
