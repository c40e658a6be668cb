package model

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

const defaultOpenAIModel = openai.ChatModelGPT4oMini

// OpenAI is a Completer backed by the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAI creates an OpenAI completer. An empty model defaults to gpt-4o-mini.
func NewOpenAI(client openai.Client, model string) *OpenAI {
	m := openai.ChatModel(model)
	if model == "" {
		m = defaultOpenAIModel
	}
	return &OpenAI{client: client, model: m}
}

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    o.model,
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}

	return resp.Choices[0].Message.Content, nil
}
