package model

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// LangChain is a Completer backed by any langchaingo llms.Model.
type LangChain struct {
	llm llms.Model
}

// NewLangChain wraps a langchaingo model as a Completer.
func NewLangChain(llm llms.Model) *LangChain {
	return &LangChain{llm: llm}
}

// Complete implements Completer.
func (l *LangChain) Complete(ctx context.Context, messages []Message) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}

	resp, err := l.llm.GenerateContent(ctx, content)
	if err != nil {
		return "", fmt.Errorf("langchaingo completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("langchaingo completion: empty response")
	}

	return resp.Choices[0].Content, nil
}
