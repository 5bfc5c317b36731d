// Package anthropic implements the backend contract over the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/aivoc/vocbuilder/internal/backend"
	"github.com/aivoc/vocbuilder/internal/prompt"
)

const providerName = "anthropic"

const maxTokens = 2048

// Config holds the Anthropic API settings.
type Config struct {
	APIKey string
	Model  string
}

// Client talks to the Anthropic Messages API.
type Client struct {
	cfg    Config
	client sdk.Client
	log    *slog.Logger
}

// New creates a Client.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		log:    logger.With("backend", providerName),
	}
}

func (c *Client) Provider() string { return providerName }

func (c *Client) ExtractWords(ctx context.Context, req backend.ExtractRequest) (string, error) {
	p := prompt.Extraction(req.Text, req.TargetLanguage, req.KnownWords, req.Strict)
	return c.complete(ctx, p, 0.2)
}

func (c *Client) ExplainWord(ctx context.Context, req backend.ExplainRequest) (string, error) {
	p := prompt.Explain(req.Word, req.ContextSentence, req.TargetLanguage)
	return c.complete(ctx, p, 0.2)
}

func (c *Client) GenerateStory(ctx context.Context, req backend.StoryRequest) (string, error) {
	p := prompt.Story(req.Words, req.TargetLanguage, req.MustInclude)
	return c.complete(ctx, p, 0.8)
}

func (c *Client) GenerateQuiz(ctx context.Context, req backend.QuizRequest) (string, error) {
	p := prompt.Quiz(req.Word, req.ContextSentence, req.TargetLanguage, req.DistractorCount)
	return c.complete(ctx, p, 0.4)
}

func (c *Client) complete(ctx context.Context, p prompt.Prompt, temperature float64) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.cfg.Model),
		MaxTokens:   maxTokens,
		Temperature: sdk.Float(temperature),
		System: []sdk.TextBlockParam{
			{Text: p.System},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(p.User)),
		},
	})
	if err != nil {
		return "", mapErr(err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			text := strings.TrimSpace(block.Text)
			c.log.DebugContext(ctx, "completion", slog.Int("prompt_len", len(p.User)), slog.Int("reply_len", len(text)))
			return text, nil
		}
	}
	return "", backend.WrapErr(providerName, errors.New("no text content in response"))
}

// mapErr converts SDK errors into the backend taxonomy. Rate limits come
// back as *sdk.Error with a 429 status and may carry a retry-after header.
func mapErr(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return &backend.ThrottledError{
			Provider:   providerName,
			RetryAfter: retryAfterFrom(apiErr),
		}
	}
	return backend.WrapErr(providerName, err)
}

func retryAfterFrom(apiErr *sdk.Error) time.Duration {
	if apiErr.Response == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(apiErr.Response.Header.Get("Retry-After")))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
