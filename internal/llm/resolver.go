package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/mihirvv/jobassist/internal/config"
)

// probePrompt elicits a minimal deterministic acknowledgement. A model is
// considered live if its response contains "ok" in any case — being listed
// as installed does not imply the model currently loads and responds.
const probePrompt = "Respond with exactly 'OK' if you understand this message."

type resolverState int

const (
	stateUninitialized resolverState = iota
	stateInitializing
	stateReady
	stateFailed
)

// Resolver picks one working model handle out of the configured primary and
// ordered fallbacks. All methods are serialized behind a mutex so the CLI and
// the web layer can share a single instance.
type Resolver struct {
	mu         sync.Mutex
	cfg        *config.Config
	prober     Prober
	httpClient *http.Client
	logger     *slog.Logger

	state     resolverState
	primary   *Client
	fallbacks []*Client
	health    map[string]bool

	// Snapshot of the endpoint at the most recent probe pass, so Status()
	// can answer without a network call.
	lastReachable bool
	lastInstalled []string
}

// NewResolver creates a resolver over the configured model set. Call
// Initialize before requesting a handle.
func NewResolver(cfg *config.Config, prober Prober, httpClient *http.Client, logger *slog.Logger) *Resolver {
	return &Resolver{
		cfg:        cfg,
		prober:     prober,
		httpClient: httpClient,
		logger:     logger,
		health:     make(map[string]bool),
	}
}

// HealthSummary is the result of one HealthCheck pass.
type HealthSummary struct {
	Models    map[string]bool `json:"models"`
	Healthy   int             `json:"healthy_count"`
	Total     int             `json:"total_count"`
	Reachable bool            `json:"reachable"`
}

// Status is a read-only snapshot of the resolver. No network calls; health
// data reflects the most recent probe pass.
type Status struct {
	Initialized     bool            `json:"initialized"`
	Reachable       bool            `json:"reachable"`
	InstalledModels []string        `json:"installed_models"`
	ModelHealth     map[string]bool `json:"model_health"`
	PrimaryModel    string          `json:"primary_model"`
	FallbackModels  []string        `json:"fallback_models"`
	HasWorkingModel bool            `json:"has_working_model"`
}

// Initialize probes the endpoint, constructs handles for every installed
// configured model, and liveness-probes each one in order (primary first,
// then fallbacks). A single model failing its probe is recorded and skipped;
// only the three boundary error kinds abort initialization.
func (r *Resolver) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == stateReady {
		return nil
	}
	r.state = stateInitializing

	r.logger.Info("initializing model resolver", "primary", r.cfg.Models.Primary, "fallbacks", r.cfg.Models.Fallbacks)

	if !r.prober.Reachable(ctx) {
		r.state = stateFailed
		r.lastReachable = false
		return resolveErr(ErrServiceUnavailable,
			"cannot reach Ollama at %s — make sure it is installed and running (https://ollama.com/download)",
			r.cfg.Ollama.BaseURL)
	}
	r.lastReachable = true

	installed := r.prober.InstalledModels(ctx)
	r.lastInstalled = installed
	r.logger.Info("installed models", "models", installed)

	if len(installed) == 0 {
		r.state = stateFailed
		return resolveErr(ErrNoModelsInstalled,
			"no models found — download one with 'ollama pull %s'", r.cfg.Models.Primary)
	}

	installedSet := make(map[string]bool, len(installed))
	for _, name := range installed {
		installedSet[name] = true
	}

	// Primary first. A failed probe is logged and recorded, never fatal here.
	if installedSet[r.cfg.Models.Primary] {
		r.primary = r.probeModel(ctx, r.cfg.ModelConfigFor(r.cfg.Models.Primary))
	} else {
		r.logger.Warn("primary model not installed", "model", r.cfg.Models.Primary)
	}

	// Then every fallback in configured order. All working fallbacks are
	// collected, not just the first, so later health degradation can still
	// be answered from this set.
	for _, name := range r.cfg.Models.Fallbacks {
		if !installedSet[name] {
			r.logger.Warn("fallback model not installed", "model", name)
			continue
		}
		if client := r.probeModel(ctx, r.cfg.ModelConfigFor(name)); client != nil {
			r.fallbacks = append(r.fallbacks, client)
		}
	}

	if r.primary == nil && len(r.fallbacks) == 0 {
		r.state = stateFailed
		return resolveErr(ErrNoWorkingModel,
			"models are installed but none passed the liveness probe — check 'ollama ps' and server memory")
	}

	r.state = stateReady
	r.logger.Info("model resolver ready",
		"primary_ok", r.primary != nil,
		"working_fallbacks", len(r.fallbacks),
	)
	return nil
}

// probeModel constructs a handle and runs the liveness probe, recording the
// outcome in the health map. Returns nil if the probe failed.
func (r *Resolver) probeModel(ctx context.Context, mc config.ModelConfig) *Client {
	client := NewClient(r.cfg.Ollama.BaseURL, mc, r.httpClient)
	if r.probe(ctx, client) {
		r.health[mc.Name] = true
		r.logger.Info("model passed liveness probe", "model", mc.Name)
		return client
	}
	r.health[mc.Name] = false
	return nil
}

// probe sends the acknowledgement prompt and checks for the expected token.
// Any error or non-matching response is a failure, never propagated.
func (r *Resolver) probe(ctx context.Context, client *Client) bool {
	resp, err := client.Complete(ctx, probePrompt)
	if err != nil {
		r.logger.Warn("model failed liveness probe", "model", client.ModelName(), "error", err)
		return false
	}
	if !strings.Contains(strings.ToLower(resp), "ok") {
		r.logger.Warn("model gave unexpected probe response", "model", client.ModelName(), "response", resp)
		return false
	}
	return true
}

// Handle returns the primary handle if its last recorded health is good,
// otherwise the first healthy fallback in configured order. Health is not
// re-probed here; HealthCheck is the recovery path for stale entries.
func (r *Resolver) Handle() (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateReady {
		return nil, fmt.Errorf("resolver not initialized")
	}

	if r.primary != nil && r.health[r.primary.ModelName()] {
		return r.primary, nil
	}

	for _, fb := range r.fallbacks {
		if r.health[fb.ModelName()] {
			r.logger.Info("using fallback model", "model", fb.ModelName())
			return fb, nil
		}
	}

	return nil, resolveErr(ErrNoWorkingModel,
		"all models failed their last health check — run a health check or restart Ollama")
}

// HealthCheck re-probes the primary and every fallback handle, updating the
// recorded health in place, and returns a summary of the pass.
func (r *Resolver) HealthCheck(ctx context.Context) HealthSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := HealthSummary{Models: make(map[string]bool)}

	for _, client := range r.handles() {
		ok := r.probe(ctx, client)
		r.health[client.ModelName()] = ok
		summary.Models[client.ModelName()] = ok
		if ok {
			summary.Healthy++
		}
		summary.Total++
	}

	summary.Reachable = r.prober.Reachable(ctx)
	r.lastReachable = summary.Reachable
	return summary
}

// Status returns a snapshot of the resolver using last-recorded data only.
func (r *Resolver) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	health := make(map[string]bool, len(r.health))
	hasWorking := false
	for name, ok := range r.health {
		health[name] = ok
		if ok {
			hasWorking = true
		}
	}

	return Status{
		Initialized:     r.state == stateReady,
		Reachable:       r.lastReachable,
		InstalledModels: append([]string(nil), r.lastInstalled...),
		ModelHealth:     health,
		PrimaryModel:    r.cfg.Models.Primary,
		FallbackModels:  append([]string(nil), r.cfg.Models.Fallbacks...),
		HasWorkingModel: hasWorking,
	}
}

// handles returns primary + fallbacks in probe order. Caller holds the lock.
func (r *Resolver) handles() []*Client {
	var out []*Client
	if r.primary != nil {
		out = append(out, r.primary)
	}
	return append(out, r.fallbacks...)
}
