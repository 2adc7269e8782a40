package reply

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Groq defaults for the OpenAI-compatible endpoint.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
)

// Config holds the chat completion provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIGenerator asks an OpenAI-compatible chat completion API for replies.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator for cfg, falling back to the Groq
// endpoint and model.
func NewOpenAIGenerator(cfg Config) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if clientCfg.BaseURL == "" {
		clientCfg.BaseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Reply sends message as a single user turn and returns the first choice.
func (g *OpenAIGenerator) Reply(ctx context.Context, message string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrGeneration)
	}
	return resp.Choices[0].Message.Content, nil
}
