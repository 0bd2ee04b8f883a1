// Package runner submits a single prompt to a generation.Generator and writes
// the reply to an output stream.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/germanamz/promptrunner/pkg/generation"
)

// RenderFunc transforms the generated text before it is written.
type RenderFunc func(text string) (string, error)

// Runner sends one prompt to one model and prints the result.
type Runner struct {
	gen    generation.Generator
	out    io.Writer
	model  string
	prompt string
	log    *slog.Logger
	render RenderFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithModel overrides the model identifier.
func WithModel(model string) Option {
	return func(r *Runner) { r.model = model }
}

// WithPrompt overrides the prompt text.
func WithPrompt(prompt string) Option {
	return func(r *Runner) { r.prompt = prompt }
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithRender post-processes the text before it is written.
func WithRender(fn RenderFunc) Option {
	return func(r *Runner) { r.render = fn }
}

// New creates a Runner that writes to out. Model and prompt default to
// generation.DefaultModel and generation.DefaultPrompt.
func New(gen generation.Generator, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		gen:    gen,
		out:    out,
		model:  generation.DefaultModel,
		prompt: generation.DefaultPrompt,
		log:    slog.New(slog.DiscardHandler),
	}

	for _, o := range opts {
		o(r)
	}

	return r
}

// Run performs the single generation call and writes its text followed by a
// newline. Nothing is written when an error is returned.
func (r *Runner) Run(ctx context.Context) error {
	log := r.log.With("run_id", uuid.NewString(), "model", r.model)
	start := time.Now()

	log.DebugContext(ctx, "generation started", "prompt_bytes", len(r.prompt))

	resp, err := r.gen.Generate(ctx, generation.Request{Model: r.model, Prompt: r.prompt})
	if err != nil {
		log.ErrorContext(ctx, "generation failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("runner: generate: %w", err)
	}

	if resp.Text == "" {
		log.ErrorContext(ctx, "generation returned no text", "finish_reason", resp.FinishReason)
		return generation.ErrEmptyResponse
	}

	log.InfoContext(ctx, "generation finished",
		"duration", time.Since(start),
		"finish_reason", resp.FinishReason,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	text := resp.Text
	if r.render != nil {
		rendered, err := r.render(text)
		if err != nil {
			log.WarnContext(ctx, "render failed, printing raw text", "error", err)
		} else {
			text = rendered
		}
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	if _, err := io.WriteString(r.out, text); err != nil {
		return fmt.Errorf("runner: write output: %w", err)
	}

	return nil
}
