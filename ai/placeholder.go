package ai

import (
	"context"
	"fmt"
)

// Placeholder is an offline provider for development. It echoes the last
// message and never touches the network.
type Placeholder struct{}

var _ Provider = (*Placeholder)(nil)

func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

func (p *Placeholder) Name() string {
	return "placeholder"
}

func (p *Placeholder) Chat(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "No messages provided.", nil
	}

	last := messages[len(messages)-1].Content
	return fmt.Sprintf("[placeholder] You said: %q\n"+
		"Set LLM_BASE_URL and LLM_MODEL to talk to a real model.", truncate(last, 200)), nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
