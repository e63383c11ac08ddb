package evaluation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/rfp-evaluator/internal/matrix"

	"go.uber.org/zap"
)

type stubInvoker struct {
	responses []string
	err       error
	prompts   []string
}

func (s *stubInvoker) Invoke(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("no stub response queued")
	}
	response := s.responses[0]
	s.responses = s.responses[1:]
	return response, nil
}

func (s *stubInvoker) Model() string {
	return "stub-model"
}

func TestExtractRequirementsAppendsNovelRows(t *testing.T) {
	stub := &stubInvoker{responses: []string{"- Must support SSO\n- Must provide 24/7 support"}}
	pipeline := NewPipeline(stub, zap.NewNop())

	m := matrix.New()
	added, err := pipeline.ExtractRequirements(context.Background(), "rfp text", m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", m.Len())
	}
	if len(m.Vendors) != 0 {
		t.Fatalf("expected no vendor columns, got %v", m.Vendors)
	}

	if len(stub.prompts) != 1 || !strings.Contains(stub.prompts[0], "rfp text") {
		t.Fatalf("expected rfp text embedded in prompt, got %#v", stub.prompts)
	}
}

func TestExtractRequirementsDeduplicatesAcrossCalls(t *testing.T) {
	stub := &stubInvoker{responses: []string{
		"- Must support SSO\n- Must provide 24/7 support",
		"- Must support SSO\n- Must offer an SLA",
	}}
	pipeline := NewPipeline(stub, zap.NewNop())

	m := matrix.New()
	if _, err := pipeline.ExtractRequirements(context.Background(), "rfp text", m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	added, err := pipeline.ExtractRequirements(context.Background(), "rfp text again", m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if added != 1 {
		t.Fatalf("expected 1 novel requirement, got %d", added)
	}
	if m.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", m.Len())
	}
}

func TestExtractRequirementsEmptyResponseLeavesMatrixUnchanged(t *testing.T) {
	stub := &stubInvoker{responses: []string{"\n\n"}}
	pipeline := NewPipeline(stub, zap.NewNop())

	m := matrix.New()
	m.AddRequirement("Existing requirement")

	_, err := pipeline.ExtractRequirements(context.Background(), "rfp text", m)
	if !errors.Is(err, ErrEmptyExtraction) {
		t.Fatalf("expected ErrEmptyExtraction, got %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("matrix should be unchanged, got %d rows", m.Len())
	}
}

func TestExtractRequirementsSurfacesInvocationError(t *testing.T) {
	stub := &stubInvoker{err: errors.New("quota exceeded")}
	pipeline := NewPipeline(stub, zap.NewNop())

	m := matrix.New()
	if _, err := pipeline.ExtractRequirements(context.Background(), "rfp text", m); err == nil {
		t.Fatal("expected error from failed invocation")
	}
	if len(stub.prompts) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", len(stub.prompts))
	}
}

func TestScoreVendorFillsEveryRow(t *testing.T) {
	stub := &stubInvoker{responses: []string{"1. Yes"}}
	pipeline := NewPipeline(stub, zap.NewNop())

	m := matrix.New()
	m.AddRequirement("Must support SSO")
	m.AddRequirement("Must provide 24/7 support")

	result, err := pipeline.ScoreVendor(context.Background(), "Acme", "proposal text", m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Scored != 1 {
		t.Fatalf("expected 1 scored, got %d", result.Scored)
	}
	if len(result.NotAddressed) != 1 || result.NotAddressed[0] != "Must provide 24/7 support" {
		t.Fatalf("unexpected not addressed list: %v", result.NotAddressed)
	}

	if got := m.Verdict("Must support SSO", "Acme"); got != "Yes" {
		t.Fatalf("unexpected verdict: %q", got)
	}
	if got := m.Verdict("Must provide 24/7 support", "Acme"); got != DefaultSentinel {
		t.Fatalf("expected sentinel, got %q", got)
	}

	prompt := stub.prompts[0]
	if !strings.Contains(prompt, "1. Must support SSO") || !strings.Contains(prompt, "2. Must provide 24/7 support") {
		t.Fatalf("expected numbered requirements in prompt: %s", prompt)
	}
	if !strings.Contains(prompt, "proposal text") {
		t.Fatalf("expected proposal text in prompt: %s", prompt)
	}
}

func TestScoreVendorOverwritesExistingColumn(t *testing.T) {
	stub := &stubInvoker{responses: []string{"1. Yes", "1. No"}}
	pipeline := NewPipeline(stub, zap.NewNop())

	m := matrix.New()
	m.AddRequirement("Must support SSO")

	if _, err := pipeline.ScoreVendor(context.Background(), "Acme", "first proposal", m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := pipeline.ScoreVendor(context.Background(), "Acme", "second proposal", m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Overwrote {
		t.Fatal("expected overwrite to be reported")
	}
	if len(m.Vendors) != 1 {
		t.Fatalf("expected single vendor column, got %v", m.Vendors)
	}
	if got := m.Verdict("Must support SSO", "Acme"); got != "No" {
		t.Fatalf("expected overwritten verdict, got %q", got)
	}
}

func TestScoreVendorRequiresNonEmptyMatrix(t *testing.T) {
	stub := &stubInvoker{responses: []string{"1. Yes"}}
	pipeline := NewPipeline(stub, zap.NewNop())

	_, err := pipeline.ScoreVendor(context.Background(), "Acme", "proposal text", matrix.New())
	if !errors.Is(err, ErrNoMatrix) {
		t.Fatalf("expected ErrNoMatrix, got %v", err)
	}
	if len(stub.prompts) != 0 {
		t.Fatal("no model call should happen without requirements")
	}
}

func TestScoreVendorRequiresVendorName(t *testing.T) {
	stub := &stubInvoker{responses: []string{"1. Yes"}}
	pipeline := NewPipeline(stub, zap.NewNop())

	m := matrix.New()
	m.AddRequirement("Must support SSO")

	if _, err := pipeline.ScoreVendor(context.Background(), "   ", "proposal text", m); err == nil {
		t.Fatal("expected error for empty vendor name")
	}
}

func TestScoreVendorCustomSentinel(t *testing.T) {
	stub := &stubInvoker{responses: []string{"nothing parseable"}}
	pipeline := NewPipeline(stub, zap.NewNop(), WithSentinel("Unknown"))

	m := matrix.New()
	m.AddRequirement("Must support SSO")

	result, err := pipeline.ScoreVendor(context.Background(), "Acme", "proposal text", m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Scored != 0 {
		t.Fatalf("expected 0 scored, got %d", result.Scored)
	}
	if got := m.Verdict("Must support SSO", "Acme"); got != "Unknown" {
		t.Fatalf("expected custom sentinel, got %q", got)
	}
}
