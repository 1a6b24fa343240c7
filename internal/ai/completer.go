package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned by every completion when no API key was provided
var ErrNotConfigured = errors.New("ai completion is not configured")

// ErrEmptyCompletion is returned when the model answered with no content
var ErrEmptyCompletion = errors.New("empty completion")

// Completer produces a text completion for a system instruction and a user prompt
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// CompleterConfig holds the settings of the OpenAI completer
type CompleterConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

// OpenAICompleter calls the chat completions API
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewCompleter returns an OpenAI backed completer, or a completer that always fails
// with ErrNotConfigured when cfg has no API key
func NewCompleter(cfg CompleterConfig) Completer {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return unconfigured{}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	return &OpenAICompleter{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

type unconfigured struct{}

func (unconfigured) Complete(ctx context.Context, system, prompt string) (string, error) {
	return "", ErrNotConfigured
}

// Configured reports whether c can reach a completion service
func Configured(c Completer) bool {
	_, off := c.(unconfigured)
	return c != nil && !off
}
