package llm

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatty-orange/server/internal/assistant/model"
)

type stubChat struct {
	reply *schema.Message
	err   error
	got   []*schema.Message
}

func (s *stubChat) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	s.got = input
	return s.reply, s.err
}

func (s *stubChat) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestChatGeneratorSendsUserMessage(t *testing.T) {
	chat := &stubChat{reply: schema.AssistantMessage("  Привет!  ", nil)}
	g := NewChatGenerator(chat, "stub")

	out, err := g.Generate(context.Background(), "скажи привет")
	require.NoError(t, err)
	assert.Equal(t, "Привет!", out)
	require.Len(t, chat.got, 1)
	assert.Equal(t, schema.User, chat.got[0].Role)
	assert.Equal(t, "скажи привет", chat.got[0].Content)
}

func TestChatGeneratorErrors(t *testing.T) {
	_, err := NewChatGenerator(&stubChat{err: errors.New("quota")}, "stub").Generate(context.Background(), "x")
	assert.ErrorContains(t, err, "quota")

	_, err = NewChatGenerator(&stubChat{reply: schema.AssistantMessage(" ", nil)}, "stub").Generate(context.Background(), "x")
	assert.ErrorIs(t, err, model.ErrEmptyGeneration)
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), model.GeminiConfig{})
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	out, err := Static{}.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Contains(t, out, "демо-режиме")

	out, _ = Static{Reply: "ok"}.Generate(context.Background(), "x")
	assert.Equal(t, "ok", out)
}

func TestComputeCost(t *testing.T) {
	usage := &schema.TokenUsage{PromptTokens: 2_000_000, CompletionTokens: 500_000}

	in, out, total := ComputeCost(usage, ResolvePricing("gemini-2.0-flash"))
	assert.InDelta(t, 0.20, in, 1e-9)
	assert.InDelta(t, 0.20, out, 1e-9)
	assert.InDelta(t, 0.40, total, 1e-9)

	_, _, total = ComputeCost(usage, ResolvePricing("unknown"))
	assert.Zero(t, total)

	_, _, total = ComputeCost(nil, ResolvePricing("gemini-2.0-flash"))
	assert.Zero(t, total)
}

func TestGenerateLogsUsageWithoutFailing(t *testing.T) {
	reply := schema.AssistantMessage("ok", nil)
	reply.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12}}

	out, err := NewChatGenerator(&stubChat{reply: reply}, "gemini-2.0-flash").Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}
