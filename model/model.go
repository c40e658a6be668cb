// Package model defines the chat-completion boundary the SDK depends on and
// ships adapters for common providers. Targets and judges talk to a Completer;
// production wiring picks an adapter, tests use the Mock.
package model

import "context"

// Role tags a chat message with its author.
type Role string

// Chat message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// Completer is the chat-completion port. It receives an ordered list of
// role-tagged messages and returns the single text payload of the response.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// System returns a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User returns a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant returns an assistant message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
