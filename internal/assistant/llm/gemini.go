// Package llm adapts chat models to the assistant's TextGenerator port.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/chatty-orange/server/internal/assistant/model"
	logx "github.com/chatty-orange/server/pkg/logger"
)

// ChatGenerator sends one user message to a chat model and returns its text.
type ChatGenerator struct {
	chat      einomodel.BaseChatModel
	modelName string
}

// NewChatGenerator wraps any eino chat model.
func NewChatGenerator(chat einomodel.BaseChatModel, modelName string) *ChatGenerator {
	return &ChatGenerator{chat: chat, modelName: modelName}
}

// NewGemini builds a Gemini-backed generator from config.
func NewGemini(ctx context.Context, cfg model.GeminiConfig) (*ChatGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chat, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini chat model")
		return nil, fmt.Errorf("error creating Gemini chat model: %w", err)
	}

	return NewChatGenerator(chat, cfg.Model), nil
}

func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := g.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		logx.Error().Err(err).Str("model", g.modelName).Msg("chat model call failed")
		return "", fmt.Errorf("generate: %w", err)
	}
	logUsage(g.modelName, out)
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", model.ErrEmptyGeneration
	}
	return strings.TrimSpace(out.Content), nil
}

// Static answers every prompt with a canned reply. It stands in for the model
// when no API key is configured.
type Static struct {
	Reply string
}

func (s Static) Generate(context.Context, string) (string, error) {
	if s.Reply == "" {
		return "🍊 ИИ-помощник сейчас работает в демо-режиме. Попробуйте запросы вроде «найди пост Django» или «кого почитать?».", nil
	}
	return s.Reply, nil
}
