package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"techupnext/internal/config"
)

const (
	summarizePrompt = `Summarize this article in 2 short sentences.
Also suggest a single category it belongs to from: technology, AI, startups, cybersecurity.
Output format:
Summary: ...
Category: ...
Article: %s`

	explainPrompt = "Explain this topic simply for a beginner:\n%s"
)

// Client talks to an OpenAI-compatible chat-completions API (Groq).
// It paces consecutive calls to honor the provider's rate policy, so the
// agent never needs its own timer between enrichment calls.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	mu           sync.Mutex
	minInterval  time.Duration
	lastCallTime time.Time
}

// New builds a client from configuration.
func New(cfg config.AIConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger.With("component", "enrich"),
		minInterval: cfg.MinCallInterval,
	}
}

// SummarizeAndClassify asks the model for a two-sentence summary and a
// category. Malformed responses degrade through ParseSummaryResponse rather
// than returning an error; only transport failures surface.
func (c *Client) SummarizeAndClassify(ctx context.Context, text string) (Result, error) {
	response, err := c.complete(ctx, fmt.Sprintf(summarizePrompt, text))
	if err != nil {
		return Result{}, fmt.Errorf("summarize and classify: %w", err)
	}
	return ParseSummaryResponse(response, text), nil
}

// Explain asks the model for a beginner-level explainer of the text.
func (c *Client) Explain(ctx context.Context, text string) (string, error) {
	response, err := c.complete(ctx, fmt.Sprintf(explainPrompt, text))
	if err != nil {
		return "", fmt.Errorf("explain: %w", err)
	}
	return strings.TrimSpace(response), nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if err := c.pace(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// pace blocks until minInterval has elapsed since the previous call.
func (c *Client) pace(ctx context.Context) error {
	c.mu.Lock()
	wait := c.minInterval - time.Since(c.lastCallTime)
	if wait < 0 {
		wait = 0
	}
	c.lastCallTime = time.Now().Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}

	c.logger.Debug("pacing enrichment call", "wait", wait)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
