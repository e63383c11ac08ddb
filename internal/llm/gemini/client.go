package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/rfp-evaluator/internal/llm"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-pro"

// Config carries everything needed to reach the Gemini API. When Project and
// Location are set the client talks to the Vertex AI backend instead of the
// public Gemini API.
type Config struct {
	APIKey   string
	Model    string
	Project  string
	Location string
}

// Client wraps the Google GenAI client behind the llm.Invoker interface.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini-backed invoker.
func New(ctx context.Context, cfg Config) (*Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}

	if cfg.Project != "" && cfg.Location != "" {
		clientCfg.Backend = genai.BackendVertexAI
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
	} else if clientCfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	return &Client{client: client, model: model}, nil
}

// Invoke sends the prompt to Gemini once and returns the textual response.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &llm.InvocationError{Provider: "gemini", Model: c.model, Err: err}
	}

	output := ResponseText(resp)
	if output == "" {
		return "", &llm.InvocationError{
			Provider: "gemini",
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

// ResponseText assembles the textual parts of every candidate, skipping
// empty parts, joined with newlines.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
