package model

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Genai is a Completer backed by the Google Gemini API.
type Genai struct {
	client *genai.Client
	model  string
}

// NewGenai creates a Gemini completer. An empty model defaults to gemini-2.0-flash.
func NewGenai(client *genai.Client, model string) *Genai {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Genai{client: client, model: model}
}

// Complete implements Completer. The generateContent API takes a single
// prompt, so the message list is flattened into role-prefixed sections.
func (g *Genai) Complete(ctx context.Context, messages []Message) (string, error) {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.Role != RoleUser {
			b.WriteString(string(msg.Role))
			b.WriteString(": ")
		}
		b.WriteString(msg.Content)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(b.String()), nil)
	if err != nil {
		return "", fmt.Errorf("genai completion: %w", err)
	}

	return resp.Text(), nil
}
