// Package genai provides the OpenAI-backed blog post generator for BlogPipe.
//
// It wraps the chat completion API behind a minimal interface so handlers can
// be tested with substitutable fakes, and maps SDK failures onto the pipeline
// error taxonomy (BackendUnavailable, ModelRejected, EmptyGeneration).
package genai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/models"
)

// DefaultModel is used when no model identifier is configured.
const DefaultModel = "gpt-4o-mini"

// systemPrompt frames every generation request. The per-request instruction
// comes from the prompt package.
const systemPrompt = "You are a professional blog writer. Write engaging, well-structured blog posts in Markdown."

// Error variables for better error handling and testability
var (
	ErrAPIKeyNotSet = errors.New("OpenAI API key not set")
)

// completionService defines the minimal surface of the chat completion API
// used by the generator. Satisfied by *openai.ChatCompletionService.
type completionService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Opts holds configuration options for the generation client.
type Opts struct {
	APIKey  string // OpenAI API key
	Model   string // model identifier sent with every request
	BaseURL string // optional OpenAI-compatible endpoint override
}

// Option defines a configuration option for the generation client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) {
		o.APIKey = key
	}
}

// WithModel sets the model identifier used for generation.
func WithModel(model string) Option {
	return func(o *Opts) {
		o.Model = model
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(o *Opts) {
		o.BaseURL = url
	}
}

// Client generates blog posts through the OpenAI chat completion API.
type Client struct {
	chat  completionService
	model string
}

// NewClient creates a generation client, applying any provided options.
// The API key falls back to the OPENAI_API_KEY environment variable.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
		slog.Debug("genai.NewClient: no model configured, using default", "model", model)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
		slog.Debug("genai.NewClient: using custom base URL", "base_url", cfg.BaseURL)
	}
	cli := openai.NewClient(reqOpts...)
	return &Client{chat: &cli.Chat.Completions, model: model}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// GeneratePost performs a single generation attempt for the given prompt and
// returns the generated text. No retries are made here; a retry is a fresh
// request from the caller.
func (c *Client) GeneratePost(ctx context.Context, promptText string) (string, error) {
	if strings.TrimSpace(promptText) == "" {
		return "", models.NewPipelineError(models.ErrorKindValidation, "empty prompt", nil)
	}
	slog.Debug("Client.GeneratePost: invoking chat completion", "model", c.model, "prompt_length", len(promptText))

	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(promptText),
		},
	})
	if err != nil {
		slog.Error("Client.GeneratePost: chat completion failed", "error", err, "model", c.model)
		return "", classify(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		slog.Warn("Client.GeneratePost: backend returned no choices", "model", c.model)
		return "", models.NewPipelineError(models.ErrorKindEmptyGeneration, "generation backend returned no content", nil)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		slog.Warn("Client.GeneratePost: backend returned empty text", "model", c.model)
		return "", models.NewPipelineError(models.ErrorKindEmptyGeneration, "generation backend returned no content", nil)
	}
	slog.Debug("Client.GeneratePost: generation succeeded", "model", c.model, "content_length", len(text))
	return text, nil
}

// classify maps SDK errors onto the pipeline error taxonomy. API-level
// refusals (auth, unknown model, quota) become ModelRejected; everything
// else, including transport failures and context deadlines, becomes
// BackendUnavailable.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound,
			http.StatusTooManyRequests, http.StatusBadRequest, http.StatusUnprocessableEntity:
			return models.NewPipelineError(models.ErrorKindModelRejected, "generation backend rejected the request", err)
		}
		return models.NewPipelineError(models.ErrorKindBackendUnavailable, "generation backend failed", err)
	}
	return models.NewPipelineError(models.ErrorKindBackendUnavailable, "generation backend unreachable", err)
}
