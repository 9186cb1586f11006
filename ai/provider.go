// Package ai defines the interface for chat-completion providers.
//
// Design decisions:
//   - Provider is an interface so the chat session can be tested with a
//     fake and so OpenAI-compatible servers (vLLM, Ollama, OpenAI) share
//     one implementation.
//   - All methods accept context for cancellation.
//   - Provider failures are wrapped in *ServiceError so callers can tell
//     them apart from SQL errors.
package ai

import (
	"context"
	"fmt"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Provider is the interface all LLM backends must implement.
type Provider interface {
	// Chat sends the conversation and returns the assistant's reply.
	Chat(ctx context.Context, messages []Message) (string, error)

	// Name returns the provider name for display.
	Name() string
}

// ServiceError reports a transport, quota or model failure.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
