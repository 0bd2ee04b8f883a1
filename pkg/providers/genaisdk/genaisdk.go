// Package genaisdk provides a generation.Generator backed by the official
// google.golang.org/genai client.
package genaisdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/germanamz/promptrunner/pkg/generation"
)

var _ generation.Generator = (*Generator)(nil)

// ErrNoAPIKey is returned by New when no credential is configured.
var ErrNoAPIKey = errors.New("genaisdk: api key is required")

// Config holds the settings used to build the SDK client.
type Config struct {
	APIKey          string
	BaseURL         string // Optional endpoint override.
	Headers         map[string]string
	Temperature     *float64
	MaxOutputTokens int
}

// Generator implements generation.Generator on top of genai.Client.
type Generator struct {
	client *genai.Client
	gen    *genai.GenerateContentConfig
}

// New creates the SDK client. An empty key is rejected before the SDK is
// involved, since the SDK would otherwise fall back to GOOGLE_API_KEY or
// GEMINI_API_KEY on its own.
func New(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}

	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	if len(cfg.Headers) > 0 {
		h := make(http.Header, len(cfg.Headers))
		for k, v := range cfg.Headers {
			h.Set(k, v)
		}
		cc.HTTPOptions.Headers = h
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genaisdk: new client: %w", err)
	}

	g := &Generator{client: client}

	if cfg.Temperature != nil || cfg.MaxOutputTokens > 0 {
		g.gen = &genai.GenerateContentConfig{}
		if cfg.Temperature != nil {
			g.gen.Temperature = genai.Ptr(float32(*cfg.Temperature))
		}
		if cfg.MaxOutputTokens > 0 {
			g.gen.MaxOutputTokens = int32(cfg.MaxOutputTokens) //nolint:gosec // bounded by config validation
		}
	}

	return g, nil
}

// Generate sends the prompt through the SDK and maps the reply.
func (g *Generator) Generate(ctx context.Context, req generation.Request) (generation.Response, error) {
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), g.gen)
	if err != nil {
		return generation.Response{}, fmt.Errorf("genaisdk: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return generation.Response{}, fmt.Errorf("genaisdk: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return generation.Response{}, fmt.Errorf("genaisdk: empty candidates in response")
	}

	out := generation.Response{
		Text:         resp.Text(),
		FinishReason: string(resp.Candidates[0].FinishReason),
	}

	if u := resp.UsageMetadata; u != nil {
		out.Usage = generation.TokenCount{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
		}
	}

	return out, nil
}
