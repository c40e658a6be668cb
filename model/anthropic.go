package model

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

const defaultAnthropicMaxTokens = 1024

// Anthropic is a Completer backed by the Anthropic messages API.
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropic creates an Anthropic completer. An empty model defaults to the
// latest Sonnet.
func NewAnthropic(client anthropic.Client, model string) *Anthropic {
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaude3_7SonnetLatest
	}
	return &Anthropic{client: client, model: m, maxTokens: defaultAnthropicMaxTokens}
}

// Complete implements Completer. System messages are folded into the request's
// system prompt; the messages API carries them separately from the turn list.
func (a *Anthropic) Complete(ctx context.Context, messages []Message) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
	}

	var system string
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		case RoleAssistant:
			params.Messages = append(params.Messages,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params.Messages = append(params.Messages,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("anthropic completion: empty response")
	}

	return message.Content[0].Text, nil
}
