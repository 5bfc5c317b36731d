// Package openai implements the backend contract over any
// OpenAI-compatible chat-completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aivoc/vocbuilder/internal/backend"
	"github.com/aivoc/vocbuilder/internal/prompt"
)

const providerName = "openai"

// Config holds the settings of one OpenAI-compatible endpoint.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Client talks to an OpenAI-compatible chat-completions API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client. Timeouts come from the caller's context, so the
// underlying http.Client carries none of its own.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		log:        logger.With("backend", providerName),
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

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// complete runs one chat-completions round trip and returns the raw
// model text.
func (c *Client) complete(ctx context.Context, p prompt.Prompt, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", backend.WrapErr(providerName, fmt.Errorf("marshal request: %w", err))
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", backend.WrapErr(providerName, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", backend.WrapErr(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &backend.ThrottledError{
			Provider:   providerName,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", backend.WrapErr(providerName, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", backend.WrapErr(providerName, apiError(resp.StatusCode, raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", backend.WrapErr(providerName, fmt.Errorf("decode response: %w", err))
	}
	if parsed.Error != nil {
		return "", backend.WrapErr(providerName, errors.New(parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return "", backend.WrapErr(providerName, errors.New("no choices in response"))
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	c.log.DebugContext(ctx, "completion", slog.Int("prompt_len", len(p.User)), slog.Int("reply_len", len(text)))
	return text, nil
}

// apiError surfaces the provider's error message when the body carries
// one, falling back to the status code.
func apiError(status int, body []byte) error {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		return fmt.Errorf("status %d: %s", status, parsed.Error.Message)
	}
	return fmt.Errorf("unexpected status %d", status)
}

// parseRetryAfter reads the Retry-After header, which providers send as
// delay seconds. An absent or malformed value yields zero.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
