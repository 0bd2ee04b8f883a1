// Promptrunner sends one prompt to a hosted Gemini model and prints the reply.
// The API key is read from the environment (GEMINI_API_KEY by default),
// optionally seeded from a .env file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/germanamz/promptrunner/pkg/config"
	"github.com/germanamz/promptrunner/pkg/modeladapter"
	"github.com/germanamz/promptrunner/pkg/providers/genaisdk"
	"github.com/germanamz/promptrunner/pkg/runner"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errorPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

type options struct {
	configPath string
	envFile    string
	provider   string
	model      string
	prompt     string
	render     bool
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("promptrunner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: promptrunner [flags]\n\nSend one prompt to a Gemini model and print the reply.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&o.configPath, "config", "", "path to YAML configuration file (optional)")
	fs.StringVar(&o.envFile, "env", ".env", "path to .env file (ignored if missing)")
	fs.StringVar(&o.provider, "provider", "", "provider backend: gemini or genai (overrides config)")
	fs.StringVar(&o.model, "model", "", "model identifier (overrides config)")
	fs.StringVar(&o.prompt, "prompt", "", "prompt text (overrides config)")
	fs.BoolVar(&o.render, "render", false, "render the reply as markdown when stdout is a terminal")
	fs.BoolVar(&o.verbose, "verbose", false, "log request details to stderr")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if fs.NArg() > 0 {
		fs.Usage()
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return o, nil
}

// run executes one prompt and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	if err := execute(ctx, o, stdout, stderr); err != nil {
		printError(stderr, err)
		return exitError
	}

	return exitOK
}

func execute(ctx context.Context, o options, stdout, stderr io.Writer) error {
	if err := loadDotEnv(o.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if o.provider != "" {
		cfg.Provider = o.provider
	}
	if o.model != "" {
		cfg.Model = o.model
	}
	if o.prompt != "" {
		cfg.Prompt = o.prompt
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(stderr, o.verbose)

	gen, err := cfg.NewGenerator(ctx)
	if err != nil {
		return withKeyHint(err, cfg.APIKeyEnv)
	}

	opts := []runner.Option{
		runner.WithModel(cfg.Model),
		runner.WithPrompt(cfg.Prompt),
		runner.WithLogger(log.With("provider", cfg.Provider)),
	}
	if o.render && isTerminal(stdout) {
		opts = append(opts, runner.WithRender(renderMarkdown))
	}

	return withKeyHint(runner.New(gen, stdout, opts...).Run(ctx), cfg.APIKeyEnv)
}

// withKeyHint names the credential variable when err is an authentication
// failure or a missing key.
func withKeyHint(err error, keyEnv string) error {
	if modeladapter.IsAuthError(err) || errors.Is(err, genaisdk.ErrNoAPIKey) {
		return fmt.Errorf("%w (check %s)", err, keyEnv)
	}
	return err
}

// loadDotEnv loads a .env file if it exists. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// newLogger returns a debug-level text logger on w when verbose is set.
// Otherwise logs are dropped and stderr carries only the final diagnostic.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}

	return r.Render(text)
}

func printError(w io.Writer, err error) {
	prefix := "error:"
	if isTerminal(w) {
		prefix = errorPrefixStyle.Render(prefix)
	}

	_, _ = fmt.Fprintf(w, "%s %v\n", prefix, err)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
