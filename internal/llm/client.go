// Package llm wraps the Anthropic chat API behind a narrow interface so the
// analysis pipeline can run against deterministic stand-ins in tests.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 4096

// Chat is the single operation the analysis code needs: send a system prompt
// plus a user block, get free text back. The text is expected to contain
// JSON, possibly fenced, but that is the caller's problem.
type Chat interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// AnthropicMessager is the slice of the Anthropic SDK the client uses.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicChat implements Chat against the Anthropic messages API.
type AnthropicChat struct {
	messages AnthropicMessager
	model    anthropic.Model
}

// NewAnthropicChat creates a chat client with the given API key.
func NewAnthropicChat(apiKey string) *AnthropicChat {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicChat{
		messages: &c.Messages,
		model:    anthropic.ModelClaudeSonnet4_20250514,
	}
}

// NewAnthropicChatFromEnv creates a chat client from ANTHROPIC_API_KEY.
func NewAnthropicChatFromEnv() (*AnthropicChat, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	return NewAnthropicChat(apiKey), nil
}

// Complete sends one message and concatenates the text blocks of the reply.
func (a *AnthropicChat) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   defaultMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(user))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// StripCodeFences removes an optional triple-backtick "json" wrapper from a
// model reply before parsing.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		} else {
			s = strings.TrimPrefix(s, "```")
			s = strings.TrimPrefix(s, "json")
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}
