package llm

import (
	"github.com/cloudwego/eino/schema"

	logx "github.com/chatty-orange/server/pkg/logger"
)

// Pricing is USD per 1M text tokens.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

var defaultPricing = map[string]Pricing{
	"gemini-2.0-flash":      {InputPerM: 0.10, OutputPerM: 0.40},
	"gemini-2.0-flash-lite": {InputPerM: 0.075, OutputPerM: 0.30},
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
}

// ResolvePricing returns zero pricing for unknown models.
func ResolvePricing(modelName string) Pricing {
	return defaultPricing[modelName]
}

// ComputeCost converts token usage into USD.
func ComputeCost(usage *schema.TokenUsage, p Pricing) (input, output, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	input = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	output = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	return input, output, input + output
}

func logUsage(modelName string, msg *schema.Message) {
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return
	}
	usage := msg.ResponseMeta.Usage
	_, _, total := ComputeCost(usage, ResolvePricing(modelName))
	logx.Debug().
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Float64("cost_usd", total).
		Msg("chat model usage")
}
