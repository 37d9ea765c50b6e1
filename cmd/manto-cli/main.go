package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/manto/manto-cli/internal/anthropic"
	"github.com/manto/manto-cli/internal/config"
	"github.com/manto/manto-cli/internal/logging"
)

type options struct {
	prompt    string
	message   string
	model     string
	maxTokens int
}

func main() {
	var opts options
	flag.StringVar(&opts.prompt, "prompt", "", "system prompt instructing model behavior (optional)")
	flag.StringVar(&opts.prompt, "p", "", "shorthand for -prompt")
	flag.StringVar(&opts.message, "message", "", "user message to send (required)")
	flag.StringVar(&opts.message, "m", "", "shorthand for -message")
	flag.StringVar(&opts.model, "model", "", "model identifier (defaults to ANTHROPIC_DEFAULT_MODEL)")
	flag.IntVar(&opts.maxTokens, "max-tokens", 0, "output token budget (defaults to ANTHROPIC_MAX_TOKENS)")
	flag.Parse()

	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintln(os.Stderr, "manto-cli:", err)
		os.Exit(1)
	}
}

func run(out io.Writer, opts options) error {
	if opts.message == "" {
		return fmt.Errorf("-message is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(cfg.Logging)

	creds, err := anthropic.NewEnvCredentials()
	if err != nil {
		return err
	}

	if len(opts.message) > cfg.Validation.MaxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d characters", cfg.Validation.MaxMessageLength)
	}

	client := anthropic.NewClient(cfg, creds, anthropic.WithLogger(logger))
	if !client.ValidateAPIKeyFormat(creds.APIKey()) {
		logger.Warn().Msg("API key does not match the expected format")
	}

	model := anthropic.Model(cfg.Anthropic.DefaultModel)
	if opts.model != "" {
		model = anthropic.Model(opts.model)
	}
	requested := cfg.Anthropic.MaxTokens
	if opts.maxTokens > 0 {
		requested = opts.maxTokens
	}
	maxTokens, err := anthropic.NewMaxTokens(requested, model)
	if err != nil {
		return err
	}

	request := anthropic.NewMessageRequest(model, maxTokens, anthropic.NewUserMessage(opts.message))
	switch {
	case opts.prompt != "":
		request.System = opts.prompt
	case cfg.Anthropic.SystemMessage != "":
		request.System = cfg.Anthropic.SystemMessage
	}
	temperature := cfg.Anthropic.Temperature
	request.Temperature = &temperature

	response, err := client.CreateMessage(context.Background(), request)
	if err != nil {
		return err
	}

	printResponse(out, response)
	return nil
}

// printResponse prints the whole parsed result, then walks the content for
// text: a single line for a bare-string response, one line per text block
// otherwise. Blocks of other kinds are skipped.
func printResponse(out io.Writer, response *anthropic.MessageResponse) {
	if raw, err := json.MarshalIndent(response, "", "  "); err == nil {
		fmt.Fprintf(out, "Entire result:\n%s\n", raw)
	}

	if text, ok := response.Content.Text(); ok {
		fmt.Fprintln(out, "Single text response:", text)
		return
	}
	for text := range response.Content.Texts() {
		fmt.Fprintln(out, "Multi-block response text:", text)
	}
}
