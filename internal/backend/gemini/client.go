// Package gemini implements the backend contract over the Google Gemini
// API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/aivoc/vocbuilder/internal/backend"
	"github.com/aivoc/vocbuilder/internal/prompt"
)

const providerName = "gemini"

// Config holds the Gemini API settings.
type Config struct {
	APIKey string
	Model  string
}

// Client talks to the Gemini API through the official SDK.
type Client struct {
	cfg    Config
	client *genai.Client
	log    *slog.Logger
}

// New creates a Client. The SDK dials lazily, so ctx only bounds client
// construction, not later calls.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		cfg:    cfg,
		client: client,
		log:    logger.With("backend", providerName),
	}, nil
}

// Close releases the underlying SDK connection.
func (c *Client) Close() error { return c.client.Close() }

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

func (c *Client) complete(ctx context.Context, p prompt.Prompt, temperature float32) (string, error) {
	// A fresh model per call: SetTemperature mutates the model, and
	// calls for different tasks run concurrently.
	model := c.client.GenerativeModel(c.cfg.Model)
	model.SetTemperature(temperature)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(p.System)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		return "", mapErr(err)
	}

	text := responseText(resp)
	if text == "" {
		return "", backend.WrapErr(providerName, errors.New("no text content in response"))
	}
	c.log.DebugContext(ctx, "completion", slog.Int("prompt_len", len(p.User)), slog.Int("reply_len", len(text)))
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}

// mapErr converts SDK errors into the backend taxonomy. Quota errors
// arrive as *googleapi.Error with a 429 status.
func mapErr(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return &backend.ThrottledError{
			Provider:   providerName,
			RetryAfter: retryAfterFrom(apiErr),
		}
	}
	return backend.WrapErr(providerName, err)
}

func retryAfterFrom(apiErr *googleapi.Error) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(apiErr.Header.Get("Retry-After")))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
