package gemini

import (
	"context"
	"testing"

	"google.golang.org/genai"
)

func TestResponseTextJoinsCandidateParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "  first part  "},
					{Text: ""},
					{Text: "second part"},
				}},
			},
			nil,
			{Content: nil},
		},
	}

	if got := ResponseText(resp); got != "first part\nsecond part" {
		t.Fatalf("unexpected response text: %q", got)
	}
}

func TestResponseTextEmpty(t *testing.T) {
	if got := ResponseText(nil); got != "" {
		t.Fatalf("expected empty text for nil response, got %q", got)
	}

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "   "}}}}},
	}
	if got := ResponseText(resp); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestInvokeRejectsEmptyPrompt(t *testing.T) {
	c := &Client{client: nil, model: "gemini-2.5-pro"}

	if _, err := c.Invoke(context.Background(), "  "); err == nil {
		t.Fatal("expected error for uninitialized client and empty prompt")
	}
}
