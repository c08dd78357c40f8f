package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// reachabilityTimeout bounds the quick "is the service up at all" check,
// independent of the configured request timeout.
const reachabilityTimeout = 5 * time.Second

// Prober reports whether the model-serving endpoint is up and which models
// it has installed. Implemented by OllamaProber; stubbed in tests.
type Prober interface {
	Reachable(ctx context.Context) bool
	InstalledModels(ctx context.Context) []string
}

// OllamaProber queries the Ollama /api/tags endpoint.
type OllamaProber struct {
	baseURL    string
	timeout    time.Duration // for the model listing; reachability uses its own short timeout
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOllamaProber creates a prober for the Ollama server at baseURL.
func NewOllamaProber(baseURL string, timeout time.Duration, httpClient *http.Client, logger *slog.Logger) *OllamaProber {
	return &OllamaProber{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

// tagsResponse mirrors the Ollama /api/tags response shape.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Reachable returns true if the endpoint answers the tags request with a 2xx
// within a short timeout. Any network error, timeout, or non-2xx is false.
func (p *OllamaProber) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, reachabilityTimeout)
	defer cancel()

	resp, err := p.getTags(ctx)
	if err != nil {
		p.logger.Debug("reachability check failed", "url", p.baseURL, "error", err)
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// InstalledModels returns the ordered model names reported by the endpoint.
// An unreachable service, a bad status, or a malformed response all yield an
// empty list — absence of models is a normal state, never an error.
func (p *OllamaProber) InstalledModels(ctx context.Context) []string {
	if !p.Reachable(ctx) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.getTags(ctx)
	if err != nil {
		p.logger.Warn("listing models failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("listing models returned unexpected status", "status", resp.StatusCode)
		return nil
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		p.logger.Warn("parsing model list failed", "error", err)
		return nil
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names
}

func (p *OllamaProber) getTags(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("create tags request: %w", err)
	}
	return p.httpClient.Do(req)
}
