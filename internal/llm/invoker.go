package llm

import (
	"context"
	"fmt"
)

// Invoker is the single operation the evaluation pipeline needs from a hosted
// model: one fully-formed prompt in, unstructured text out. One call per
// workflow step, no retries.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
	Model() string
}

// InvocationError wraps any failure returned by a model provider (auth,
// network, quota, model not available). It is surfaced to the caller as-is;
// a failed call requires explicit user re-initiation.
type InvocationError struct {
	Provider string
	Model    string
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoking %s model %q: %v", e.Provider, e.Model, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
