package openai

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/rfp-evaluator/internal/llm"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
)

const defaultModel = "gpt-4o-mini"

// Config carries connection settings for OpenAI or any OpenAI-compatible
// endpoint reachable through a custom base URL.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client wraps the OpenAI chat-completions API behind the llm.Invoker interface.
type Client struct {
	client openai.Client
	model  string
}

// New creates an OpenAI-backed invoker.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	clientOpts := []openaiopt.RequestOption{
		openaiopt.WithAPIKey(apiKey),
	}

	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(baseURL))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	return &Client{
		client: openai.NewClient(clientOpts...),
		model:  model,
	}, nil
}

// Invoke sends the prompt as a single user message and returns the first
// choice's content.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", errors.New("openai client is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", &llm.InvocationError{Provider: "openai", Model: c.model, Err: err}
	}

	if len(completion.Choices) == 0 {
		return "", &llm.InvocationError{
			Provider: "openai",
			Model:    c.model,
			Err:      errors.New("api returned no choices"),
		}
	}

	output := strings.TrimSpace(completion.Choices[0].Message.Content)
	if output == "" {
		return "", &llm.InvocationError{
			Provider: "openai",
			Model:    c.model,
			Err:      errors.New("api returned empty response"),
		}
	}

	return output, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
