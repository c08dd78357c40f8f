package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mihirvv/jobassist/internal/config"
)

// Completer sends a prompt to a model and returns the raw text response.
// This is the only capability the agents depend on.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// Client is a handle bound to one named Ollama model. Immutable once
// constructed; safe for concurrent use.
type Client struct {
	cfg        config.ModelConfig
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a handle for the model described by cfg.
func NewClient(baseURL string, cfg config.ModelConfig, httpClient *http.Client) *Client {
	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// ModelName returns the model this handle is bound to.
func (c *Client) ModelName() string {
	return c.cfg.Name
}

// chatRequest mirrors the Ollama /api/chat request body.
type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse covers both response shapes Ollama is known to return: the
// chat shape with message.content, and the older generate shape with a bare
// response string. Complete normalizes either to plain text.
type chatResponse struct {
	Message  chatMessage `json:"message"`
	Response string      `json:"response"`
	Done     bool        `json:"done"`
	Error    string      `json:"error,omitempty"`
}

// Complete sends prompt to the model and returns the response text. The
// configured per-model timeout bounds the whole exchange.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	options := map[string]any{
		"temperature": c.cfg.Temperature,
	}
	if c.cfg.MaxTokens > 0 {
		options["num_predict"] = c.cfg.MaxTokens
	}

	reqBody := chatRequest{
		Model: c.cfg.Name,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Stream:  false,
		Options: options,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request to %s: %w", c.cfg.Name, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model %s returned HTTP %d: %s", c.cfg.Name, resp.StatusCode, string(respBytes))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", fmt.Errorf("parse chat response: %w", err)
	}

	if chatResp.Error != "" {
		return "", fmt.Errorf("model %s error: %s", c.cfg.Name, chatResp.Error)
	}

	// Normalize the two response shapes to plain text at the boundary.
	if chatResp.Message.Content != "" {
		return chatResp.Message.Content, nil
	}
	return chatResp.Response, nil
}
