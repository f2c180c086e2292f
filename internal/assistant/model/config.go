package model

import "time"

// ================ Config ================
type LimiterConfig struct {
	MaxRequests int           `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"15"`
	Window      time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"60s"`
	// Backend is "memory" or "redis".
	Backend string `envconfig:"RATE_LIMIT_BACKEND" default:"memory"`
}

type DispatchConfig struct {
	LookupTimeout     time.Duration `envconfig:"DISPATCH_LOOKUP_TIMEOUT" default:"3s"`
	GenerateTimeout   time.Duration `envconfig:"DISPATCH_GENERATE_TIMEOUT" default:"20s"`
	MaxResponseLength int           `envconfig:"DISPATCH_MAX_RESPONSE_LENGTH" default:"5000"`
}

type GeminiConfig struct {
	APIKey      string  `envconfig:"GEMINI_API_KEY"`
	BaseURL     string  `envconfig:"GEMINI_BASE_URL"`
	Model       string  `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"GEMINI_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"GEMINI_TEMPERATURE" default:"0.7"`
}

// DefaultDispatchConfig mirrors the envconfig defaults for tests and tools.
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		LookupTimeout:     3 * time.Second,
		GenerateTimeout:   20 * time.Second,
		MaxResponseLength: 5000,
	}
}

// DefaultLimiterConfig mirrors the envconfig defaults.
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{MaxRequests: 15, Window: 60 * time.Second, Backend: "memory"}
}
