package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/rfp-evaluator/internal/llm"
	"github.com/spigell/rfp-evaluator/internal/logger"
	"github.com/spigell/rfp-evaluator/internal/matrix"

	"go.uber.org/zap"
)

// DefaultSentinel marks requirements the model did not address in a scoring
// response.
const DefaultSentinel = "Not addressed"

const defaultMaxLogLength = 200

var (
	// ErrEmptyExtraction is returned when the model response yields zero
	// parseable requirement lines. The matrix is left unchanged.
	ErrEmptyExtraction = errors.New("model response contained no parseable requirements")

	// ErrNoMatrix is returned when a vendor is scored before any
	// requirements exist.
	ErrNoMatrix = errors.New("evaluation matrix has no requirements yet; analyze an RFP first")
)

// Pipeline runs the two evaluation workflows over a shared model invoker.
// It is stateless between calls: the matrix to mutate is always passed in.
type Pipeline struct {
	invoker   llm.Invoker
	logger    *zap.Logger
	sentinel  string
	maxLogLen int
}

// ScoreResult summarizes one vendor scoring pass. NotAddressed lists the
// requirements that fell back to the sentinel because the model omitted them
// or their verdict line could not be parsed; it is informational, not fatal.
type ScoreResult struct {
	Vendor       string   `json:"vendor"`
	Scored       int      `json:"scored"`
	NotAddressed []string `json:"not_addressed,omitempty"`
	Overwrote    bool     `json:"overwrote,omitempty"`
}

type Option func(*Pipeline)

// WithSentinel overrides the verdict recorded for unaddressed requirements.
func WithSentinel(sentinel string) Option {
	return func(p *Pipeline) {
		if strings.TrimSpace(sentinel) != "" {
			p.sentinel = sentinel
		}
	}
}

// WithMaxLogLength bounds prompt/response previews in debug logs.
func WithMaxLogLength(limit int) Option {
	return func(p *Pipeline) {
		if limit > 0 {
			p.maxLogLen = limit
		}
	}
}

func NewPipeline(invoker llm.Invoker, log *zap.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}

	p := &Pipeline{
		invoker:   invoker,
		logger:    log,
		sentinel:  DefaultSentinel,
		maxLogLen: defaultMaxLogLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ExtractRequirements asks the model to enumerate the RFP's discrete
// requirements and appends the novel ones to the matrix. It returns the
// number of rows added. Duplicate requirement texts never produce a second
// row.
func (p *Pipeline) ExtractRequirements(ctx context.Context, rfpText string, m *matrix.Matrix) (int, error) {
	if strings.TrimSpace(rfpText) == "" {
		return 0, errors.New("rfp text must not be empty")
	}
	if m == nil {
		return 0, errors.New("matrix is required")
	}

	raw, err := p.invoke(ctx, "requirement extraction", buildRequirementsPrompt(rfpText))
	if err != nil {
		return 0, err
	}

	requirements := ParseRequirements(raw)
	if len(requirements) == 0 {
		return 0, ErrEmptyExtraction
	}

	added := 0
	for _, req := range requirements {
		if m.AddRequirement(req) {
			added++
		}
	}

	p.logger.Info("requirements extracted",
		zap.Int("parsed", len(requirements)),
		zap.Int("added", added),
		zap.Int("matrix_rows", m.Len()),
	)

	return added, nil
}

// ScoreVendor asks the model for a verdict on every current requirement and
// merges the answers into the matrix as the vendor's column. A vendor name
// that already exists overwrites its column in place. Requirements the model
// omitted get the sentinel verdict.
func (p *Pipeline) ScoreVendor(ctx context.Context, vendor, proposalText string, m *matrix.Matrix) (*ScoreResult, error) {
	vendor = strings.TrimSpace(vendor)
	if vendor == "" {
		return nil, errors.New("vendor name must not be empty")
	}
	if strings.TrimSpace(proposalText) == "" {
		return nil, errors.New("proposal text must not be empty")
	}
	if m == nil || m.Len() == 0 {
		return nil, ErrNoMatrix
	}

	requirements := m.Requirements()

	raw, err := p.invoke(ctx, "vendor scoring", buildScoringPrompt(requirements, proposalText))
	if err != nil {
		return nil, err
	}

	parsed, missing := ParseVerdicts(raw, len(requirements))

	verdicts := make(map[string]string, len(parsed))
	for index, verdict := range parsed {
		verdicts[requirements[index-1]] = verdict
	}

	result := &ScoreResult{
		Vendor:    vendor,
		Scored:    len(parsed),
		Overwrote: m.HasVendor(vendor),
	}
	for _, index := range missing {
		result.NotAddressed = append(result.NotAddressed, requirements[index-1])
	}

	m.SetVendor(vendor, verdicts, p.sentinel)

	if len(result.NotAddressed) > 0 {
		p.logger.Warn("some requirements were not addressed in the model response",
			zap.String("vendor", vendor),
			zap.Int("unparsed", len(result.NotAddressed)),
			zap.String("sentinel", p.sentinel),
		)
	}

	p.logger.Info("vendor scored",
		zap.String("vendor", vendor),
		zap.Int("scored", result.Scored),
		zap.Bool("overwrote_existing_column", result.Overwrote),
	)

	return result, nil
}

// invoke performs the single model call for a workflow step. No retries: a
// failed call is surfaced and requires explicit re-initiation.
func (p *Pipeline) invoke(ctx context.Context, step, prompt string) (string, error) {
	p.logger.Debug("model request",
		zap.String("step", step),
		zap.String("model", p.invoker.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.invoker.Invoke(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", step, err)
	}

	p.logger.Debug("model response",
		zap.String("step", step),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, p.maxLogLen)),
	)

	return raw, nil
}
