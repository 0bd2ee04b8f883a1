// Package generation defines the request and response types exchanged with a
// hosted generative-content model, and the Generator interface providers
// implement.
package generation

import (
	"context"
	"errors"
)

// Defaults for the single request a run sends.
const (
	DefaultModel  = "gemini-1.5-flash"
	DefaultPrompt = "اختبر الاتصال فقط من Replit."
)

// ErrEmptyResponse is returned when the service answered but produced no text.
var ErrEmptyResponse = errors.New("generation: empty response text")

// Request is a single prompt submitted to a named model.
type Request struct {
	Model  string
	Prompt string
}

// Response is the part of a generation reply the runner consumes.
type Response struct {
	Text         string
	FinishReason string
	Usage        TokenCount
}

// TokenCount holds input and output token counts for a single call.
type TokenCount struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the sum of input and output tokens.
func (tc TokenCount) Total() int {
	return tc.InputTokens + tc.OutputTokens
}

// Generator sends one request to a model and returns its reply.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}
