package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/germanamz/promptrunner/pkg/generation"
	"github.com/germanamz/promptrunner/pkg/providers/gemini"
	"github.com/germanamz/promptrunner/pkg/providers/genaisdk"
)

// ProviderFactory creates a Generator from a Config.
type ProviderFactory func(ctx context.Context, cfg Config) (generation.Generator, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[string]ProviderFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories["gemini"] = newGemini
		factories["genai"] = newGenAI
	})
}

// Register adds a provider factory under the given name, replacing any
// existing one.
func Register(kind string, factory ProviderFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[kind] = factory
}

func getFactory(kind string) (ProviderFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[kind]
	return f, ok
}

// NewGenerator builds the Generator for c.Provider.
func (c Config) NewGenerator(ctx context.Context) (generation.Generator, error) {
	factory, ok := getFactory(c.Provider)
	if !ok {
		return nil, fmt.Errorf("config: unknown provider %q", c.Provider)
	}

	return factory(ctx, c)
}

func newGemini(_ context.Context, cfg Config) (generation.Generator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = gemini.DefaultBaseURL
	}

	opts := []gemini.Option{gemini.WithMaxOutputTokens(cfg.MaxOutputTokens)}
	if cfg.Temperature != nil {
		opts = append(opts, gemini.WithTemperature(*cfg.Temperature))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, gemini.WithHeaders(cfg.Headers))
	}

	return gemini.New(baseURL, cfg.APIKey(), opts...), nil
}

func newGenAI(ctx context.Context, cfg Config) (generation.Generator, error) {
	return genaisdk.New(ctx, genaisdk.Config{
		APIKey:          cfg.APIKey(),
		BaseURL:         cfg.BaseURL,
		Headers:         cfg.Headers,
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
	})
}
