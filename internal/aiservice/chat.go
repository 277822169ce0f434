package aiservice

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"MediBot/internal/apperr"
)

// ChatConfig configures an OpenAI-compatible chat completion endpoint.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ChatClient sends one user message with the fixed system prompt and returns
// the first completion. It never retries.
type ChatClient struct {
	client *openai.Client
	model  string
}

// NewChatClient returns a config error when no API key is set; callers treat
// that as "chat provider disabled".
func NewChatClient(cfg ChatConfig) (*ChatClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperr.New(apperr.KindConfig, "chat.new", "chat api key is not set")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, apperr.New(apperr.KindConfig, "chat.new", "chat model is not set")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)}

	return &ChatClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

// Complete returns the model's reply text for message.
func (c *ChatClient) Complete(ctx context.Context, message string) (string, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("model", c.model).Int("message_length", len(message)).Msg("Calling chat completion API")

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: ChatSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "chat.complete", "chat completion request failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.KindProvider, "chat.complete", "no choices in chat completion response")
	}

	logger.Debug().Dur("elapsed", time.Since(start)).Msg("Chat completion API responded")
	return resp.Choices[0].Message.Content, nil
}

const defaultProviderTimeout = 8 * time.Second

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultProviderTimeout
	}
	return d
}
