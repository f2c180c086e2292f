// Package assistant answers natural-language requests about site content.
// Service ties the limiter, the validator and the eino graph together.
package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chatty-orange/server/internal/assistant/graph"
	"github.com/chatty-orange/server/internal/assistant/metrics"
	"github.com/chatty-orange/server/internal/assistant/model"
	"github.com/chatty-orange/server/internal/assistant/ratelimit"
	"github.com/chatty-orange/server/internal/assistant/validate"
	errx "github.com/chatty-orange/server/internal/core/error"
	logx "github.com/chatty-orange/server/pkg/logger"
)

type Service struct {
	limiter *ratelimit.Limiter
	runner  graph.Runner
	limits  model.LimiterConfig
	metrics *metrics.Metrics
}

func NewService(limiter *ratelimit.Limiter, runner graph.Runner, limits model.LimiterConfig, m *metrics.Metrics) *Service {
	def := model.DefaultLimiterConfig()
	if limits.MaxRequests <= 0 {
		limits.MaxRequests = def.MaxRequests
	}
	if limits.Window <= 0 {
		limits.Window = def.Window
	}
	return &Service{limiter: limiter, runner: runner, limits: limits, metrics: m}
}

// Handle runs one request. The returned error is always an *errx.AppError.
func (s *Service) Handle(ctx context.Context, req model.AssistantRequest) (model.AssistantResponse, error) {
	identity := ratelimit.Identity(req.Caller)

	decision, err := s.limiter.CheckAndRecord(ctx, identity, s.limits.MaxRequests, s.limits.Window)
	if err != nil {
		s.metrics.Request(intentLabel(req.ExplicitIntent), metrics.OutcomeFailed)
		return model.AssistantResponse{}, errx.Internal(err)
	}
	if !decision.Allowed {
		logx.Warn().Str("identity", identity).Dur("retry_after", decision.RetryAfter).Msg("rate limit exceeded")
		s.metrics.RateLimited(identityKind(identity))
		s.metrics.Request(intentLabel(req.ExplicitIntent), metrics.OutcomeRateLimited)
		return model.AssistantResponse{}, errx.RateLimited(s.limits.MaxRequests, decision.RetryAfter)
	}

	intent, err := validate.Validate(req)
	if err != nil {
		logx.Debug().Err(err).Str("identity", identity).Msg("request rejected")
		s.metrics.Request(intentLabel(req.ExplicitIntent), metrics.OutcomeInvalid)
		return model.AssistantResponse{}, err
	}
	req.ExplicitIntent = intent.String()

	start := time.Now()
	resp, err := s.runner.Invoke(ctx, req)
	s.metrics.ObserveDispatch(intent.String(), time.Since(start))
	if err != nil {
		s.metrics.Request(intent.String(), metrics.OutcomeFailed)
		var appErr *errx.AppError
		if errors.As(err, &appErr) {
			return model.AssistantResponse{}, appErr
		}
		logx.Error().Err(err).Str("intent", intent.String()).Msg("assistant graph failed")
		return model.AssistantResponse{}, errx.Internal(err)
	}

	logx.Info().Msgf("AI usage: action=%s user=%s", intent, req.Caller)
	s.metrics.Request(intent.String(), metrics.OutcomeAnswered)
	return resp, nil
}

func identityKind(identity string) string {
	switch {
	case strings.HasPrefix(identity, "user_"):
		return "user"
	case strings.HasPrefix(identity, "ip_"):
		return "ip"
	}
	return ratelimit.AnonymousIdentity
}

// intentLabel keeps metric labels to the whitelist.
func intentLabel(raw string) string {
	if intent, ok := model.ParseIntent(raw); ok {
		return intent.String()
	}
	return "unknown"
}
