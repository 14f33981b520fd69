// Package llm generates reply text through an OpenAI-compatible chat
// endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/corvidlabs/voicegate/config"
	"github.com/corvidlabs/voicegate/log"
)

const (
	defaultMaxAttempts    = 3
	defaultRetryDelay     = 1 * time.Second
	defaultAttemptTimeout = 10 * time.Second
)

// Client calls the language model service with a fixed system persona.
type Client struct {
	httpClient *http.Client
	BaseURL    string
	APIKey     string
	Model      string

	// MaxAttempts calls are made at most, RetryDelay apart. No backoff,
	// no jitter: worst-case latency stays deterministic.
	MaxAttempts int
	RetryDelay  time.Duration
}

// NewClient creates a client from configuration.
func NewClient(cfg config.LLMConfig) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: defaultAttemptTimeout},
		BaseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxAttempts: defaultMaxAttempts,
		RetryDelay:  defaultRetryDelay,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Generate returns a reply for the given user turn. Any call failure
// (transport error, non-success status, empty completion) counts as a
// failed attempt; when every attempt fails the fixed fallback reply is
// returned. The pipeline always gets some reply.
func (c *Client) Generate(ctx context.Context, text string) string {
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		reply, err := c.complete(ctx, text)
		if err == nil {
			return reply
		}
		log.Error(fmt.Sprintf("language model call failed (attempt %d/%d)", attempt, c.MaxAttempts), err)
		if attempt < c.MaxAttempts {
			select {
			case <-time.After(c.RetryDelay):
			case <-ctx.Done():
				return FallbackReply
			}
		}
	}
	return FallbackReply
}

// complete performs one chat completion call.
func (c *Client) complete(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []message{
			{Role: "system", Content: systemPersona},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send chat request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat endpoint returned non-200 status: %s, body: %s", resp.Status, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("chat response contained no choices")
	}
	reply := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("chat response contained an empty completion")
	}
	return reply, nil
}
