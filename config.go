package main

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/chatty-orange/server/internal/assistant/model"
	"github.com/chatty-orange/server/internal/assistant/repo"
	"github.com/chatty-orange/server/internal/core"
	logx "github.com/chatty-orange/server/pkg/logger"
	pkgredis "github.com/chatty-orange/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the assistant server,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Env      core.Environment `envconfig:"APP_ENV" default:"development"`
	LogLevel string           `envconfig:"LOG_LEVEL"`

	Server ServerConfig

	// Infrastructure
	Redis  pkgredis.Config
	SQLite repo.SQLiteConfig

	// LLM provider
	Gemini model.GeminiConfig

	// Assistant
	Limiter  model.LimiterConfig
	Dispatch model.DispatchConfig
}

type ServerConfig struct {
	Addr            string        `envconfig:"SERVER_ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
}

// loadConfig reads envFile when present, then the process environment, and
// initialises the logger from the result.
func loadConfig(envFile string) (AppConfig, error) {
	envErr := godotenv.Load(envFile)

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("processing environment config: %w", err)
	}

	logx.Init(logx.LoggerOpts{Environment: cfg.Env, Level: cfg.LogLevel})
	if envErr != nil {
		logx.Warn().Err(envErr).Str("file", envFile).Msg("Could not load .env file")
	}
	return cfg, nil
}
