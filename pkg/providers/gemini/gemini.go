// Package gemini provides a generation.Generator for the Google Gemini REST API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/promptrunner/pkg/generation"
	"github.com/germanamz/promptrunner/pkg/modeladapter"
)

// DefaultBaseURL is the public Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// ErrNoCandidates is returned when the API answers without any candidate.
var ErrNoCandidates = errors.New("gemini: empty candidates in response")

var _ generation.Generator = (*Adapter)(nil)

// Adapter implements generation.Generator for the Gemini API.
type Adapter struct {
	modeladapter.ModelAdapter

	Temperature     *float64
	MaxOutputTokens int
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHeaders adds extra headers to every request.
func WithHeaders(h map[string]string) Option {
	return func(a *Adapter) { a.Headers = h }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(a *Adapter) { a.Temperature = &t }
}

// WithMaxOutputTokens caps the length of the reply. Zero leaves it to the service.
func WithMaxOutputTokens(n int) Option {
	return func(a *Adapter) { a.MaxOutputTokens = n }
}

// New creates an Adapter for the Gemini API.
// The baseURL should be "https://generativelanguage.googleapis.com" (no trailing slash).
func New(baseURL, apiKey string, opts ...Option) *Adapter {
	a := &Adapter{}
	a.BaseURL = strings.TrimRight(baseURL, "/")
	a.Auth = modeladapter.Auth{
		Key:    apiKey,
		Header: "x-goog-api-key",
	}

	for _, o := range opts {
		o(a)
	}

	return a
}

// Generate sends the prompt to the model and returns the first candidate's text.
func (a *Adapter) Generate(ctx context.Context, req generation.Request) (generation.Response, error) {
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", req.Model)

	var resp apiResponse
	if err := a.PostJSON(ctx, path, a.buildRequest(req), &resp); err != nil {
		return generation.Response{}, fmt.Errorf("gemini: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return generation.Response{}, fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return generation.Response{}, ErrNoCandidates
	}

	cand := resp.Candidates[0]

	return generation.Response{
		Text:         candidateText(cand),
		FinishReason: cand.FinishReason,
		Usage: generation.TokenCount{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		},
	}, nil
}

// --- request types ---

type apiRequest struct {
	Contents         []apiContent      `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type apiContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text    string `json:"text,omitempty"`
	Thought bool   `json:"thought,omitempty"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

// --- response types ---

type apiResponse struct {
	Candidates     []apiCandidate     `json:"candidates"`
	PromptFeedback *apiPromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  apiUsageMeta       `json:"usageMetadata"`
}

type apiCandidate struct {
	Content      apiContent `json:"content"`
	FinishReason string     `json:"finishReason"`
}

type apiPromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type apiUsageMeta struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

func (a *Adapter) buildRequest(req generation.Request) apiRequest {
	out := apiRequest{
		Contents: []apiContent{{
			Role:  "user",
			Parts: []apiPart{{Text: req.Prompt}},
		}},
	}

	if a.Temperature != nil || a.MaxOutputTokens > 0 {
		out.GenerationConfig = &generationConfig{
			Temperature:     a.Temperature,
			MaxOutputTokens: a.MaxOutputTokens,
		}
	}

	return out
}

// candidateText joins the visible text parts of a candidate. Thought parts
// are skipped.
func candidateText(c apiCandidate) string {
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		if p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}

	return sb.String()
}
