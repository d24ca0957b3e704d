// Package anthropic implements the generation capability over the
// Anthropic Messages API. It turns a turn plan into a system prompt plus
// conversation window, asks the model for a response that ends in a
// structured extraction block, and parses that block leniently.
package anthropic

import (
	"context"
	"errors"
	"log"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/havenlabs/aria-go-sdk/core"
)

// Config holds the provider settings.
type Config struct {
	// Model is the model identifier sent with every request.
	Model string

	// MaxTokens bounds the response length.
	MaxTokens int64
}

// DefaultConfig returns the default provider settings.
var DefaultConfig = &Config{
	Model:     "claude-sonnet-4-20250514",
	MaxTokens: 1024,
}

// Generator calls the Anthropic Messages API for each turn plan.
type Generator struct {
	client *sdk.Client
	cfg    *Config
}

// New creates a generator with the given client. A nil config uses
// DefaultConfig.
func New(client *sdk.Client, cfg *Config) *Generator {
	if cfg == nil {
		cfg = DefaultConfig
	}
	return &Generator{client: client, cfg: cfg}
}

// Generate produces the assistant response for a plan. Transport and
// timeout failures come back as core.TransientError; an empty or
// unusable model response comes back as core.ContentError. The
// structured extraction block is optional: a response without one is a
// valid response with no extraction.
func (g *Generator) Generate(ctx context.Context, plan *core.TurnPlan) (*core.GenerationResult, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(g.cfg.Model),
		MaxTokens: g.cfg.MaxTokens,
		Messages:  buildMessages(plan),
		System: []sdk.TextBlockParam{
			{Text: buildSystemPrompt(plan)},
		},
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, core.Transient("anthropic generate", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, core.Content("model returned no text")
	}

	response, extraction := splitExtraction(text)
	if strings.TrimSpace(response) == "" {
		return nil, core.Content("model returned only an extraction block")
	}

	result := &core.GenerationResult{ResponseText: strings.TrimSpace(response)}
	if extraction != nil {
		applyExtraction(result, extraction)
		log.Printf("[PROVIDER] turn %s extracted %d memories, delta=%v, emotion=%s",
			plan.TurnID, len(result.Memories), result.TraitDelta != nil, result.Emotion)
	}
	return result, nil
}

// buildMessages renders the transcript window plus the new user message.
func buildMessages(plan *core.TurnPlan) []sdk.MessageParam {
	msgs := make([]sdk.MessageParam, 0, len(plan.Window)+1)
	for _, entry := range plan.Window {
		switch entry.Role {
		case core.RoleAssistant:
			msgs = append(msgs, sdk.NewAssistantMessage(sdk.NewTextBlock(entry.Content)))
		default:
			msgs = append(msgs, sdk.NewUserMessage(sdk.NewTextBlock(entry.Content)))
		}
	}
	msgs = append(msgs, sdk.NewUserMessage(sdk.NewTextBlock(plan.Message)))
	return msgs
}
