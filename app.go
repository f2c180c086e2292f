package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/chatty-orange/server/internal/assistant"
	"github.com/chatty-orange/server/internal/assistant/classify"
	"github.com/chatty-orange/server/internal/assistant/dispatch"
	"github.com/chatty-orange/server/internal/assistant/graph"
	"github.com/chatty-orange/server/internal/assistant/llm"
	"github.com/chatty-orange/server/internal/assistant/metrics"
	"github.com/chatty-orange/server/internal/assistant/model"
	"github.com/chatty-orange/server/internal/assistant/ratelimit"
	"github.com/chatty-orange/server/internal/assistant/repo"
	logx "github.com/chatty-orange/server/pkg/logger"
)

// app holds the wired service and everything that must be closed with it.
type app struct {
	service  *assistant.Service
	store    *repo.ContentStore
	memory   *ratelimit.MemoryStore
	registry *prometheus.Registry
	rdb      *redis.Client
}

func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			logx.Warn().Err(err).Msg("closing redis")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logx.Warn().Err(err).Msg("closing content store")
		}
	}
}

func newApp(ctx context.Context, cfg AppConfig) (*app, error) {
	a := &app{registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := repo.OpenContentStore(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("opening content store: %w", err)
	}
	a.store = store

	limiter, err := a.newLimiter(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	gen, err := newGenerator(ctx, cfg.Gemini)
	if err != nil {
		a.Close()
		return nil, err
	}

	runner, err := graph.Build(ctx, graph.Config{
		Classifier: classify.New(),
		Dispatcher: dispatch.New(store, gen, cfg.Dispatch),
		Callbacks:  graph.NewLoggingCallbacks(),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building assistant graph: %w", err)
	}

	a.service = assistant.NewService(limiter, runner, cfg.Limiter, metrics.New(a.registry))
	return a, nil
}

func (a *app) newLimiter(ctx context.Context, cfg AppConfig) (*ratelimit.Limiter, error) {
	a.memory = ratelimit.NewMemoryStore()

	switch cfg.Limiter.Backend {
	case "", "memory":
		return ratelimit.New(a.memory), nil
	case "redis":
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rdb, err := cfg.Redis.New(pingCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		a.rdb = rdb
		logx.Info().Msg("Connected to Redis successfully")
		return ratelimit.New(repo.NewRedisRateStore(rdb), ratelimit.WithFallback(a.memory)), nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", cfg.Limiter.Backend)
	}
}

func newGenerator(ctx context.Context, cfg model.GeminiConfig) (model.TextGenerator, error) {
	if cfg.APIKey == "" {
		logx.Warn().Msg("GEMINI_API_KEY is not set; answering generation intents in demo mode")
		return llm.Static{}, nil
	}
	gen, err := llm.NewGemini(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return gen, nil
}
