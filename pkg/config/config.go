// Package config loads promptrunner settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/promptrunner/pkg/generation"
)

// Defaults used when no config file overrides them.
const (
	DefaultProvider  = "gemini"
	DefaultModel     = generation.DefaultModel
	DefaultPrompt    = generation.DefaultPrompt
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
)

// Config is the top-level promptrunner configuration.
type Config struct {
	Provider        string            `yaml:"provider"`
	BaseURL         string            `yaml:"base_url"`
	APIKeyEnv       string            `yaml:"api_key_env"`
	Model           string            `yaml:"model"`
	Prompt          string            `yaml:"prompt"`
	Temperature     *float64          `yaml:"temperature"`
	MaxOutputTokens int               `yaml:"max_output_tokens"`
	Headers         map[string]string `yaml:"headers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:  DefaultProvider,
		APIKeyEnv: DefaultAPIKeyEnv,
		Model:     DefaultModel,
		Prompt:    DefaultPrompt,
	}
}

// Load reads a YAML file on top of Default. An empty path returns the
// defaults unchanged. Environment variables referenced as ${VAR} or $VAR in
// the YAML are expanded before parsing.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration can build a request. The credential
// is not checked here; an empty or wrong key is rejected by the service.
func (c Config) Validate() error {
	if c.Provider == "" {
		return errors.New("config: provider is required")
	}
	if _, ok := getFactory(c.Provider); !ok {
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	if c.Model == "" {
		return errors.New("config: model is required")
	}
	if c.Prompt == "" {
		return errors.New("config: prompt is required")
	}
	if c.APIKeyEnv == "" {
		return errors.New("config: api_key_env is required")
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("config: max_output_tokens must not be negative, got %d", c.MaxOutputTokens)
	}

	return nil
}

// APIKey returns the credential from the configured environment variable.
// It may be empty.
func (c Config) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}
