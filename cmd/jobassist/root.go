package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mihirvv/jobassist/internal/config"
	"github.com/mihirvv/jobassist/internal/document"
	"github.com/mihirvv/jobassist/internal/llm"
	"github.com/mihirvv/jobassist/internal/model"
	"github.com/mihirvv/jobassist/internal/ratelimit"
	"github.com/mihirvv/jobassist/internal/retry"
	"github.com/mihirvv/jobassist/internal/scrape"
	"github.com/mihirvv/jobassist/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobassist",
	Short: "Job application assistant backed by local language models",
	Long: "Jobassist turns a job posting and your CV into tailored application\n" +
		"documents and interview prep, using models served by a local Ollama\n" +
		"instance. Nothing leaves your machine.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBASSIST_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBASSIST_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBASSIST_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// buildResolver wires the prober and resolver over a shared HTTP client.
func buildResolver(cfg *config.Config, logger *slog.Logger) *llm.Resolver {
	httpClient := &http.Client{Timeout: cfg.Ollama.Timeout}
	prober := llm.NewOllamaProber(cfg.Ollama.BaseURL, cfg.Ollama.Timeout, httpClient, logger)
	return llm.NewResolver(cfg, prober, httpClient, logger)
}

// initResolver initializes the resolver, printing the remediation hint on
// failure so the user knows what to fix.
func initResolver(ctx context.Context, resolver *llm.Resolver, logger *slog.Logger) error {
	if err := resolver.Initialize(ctx); err != nil {
		logger.Error("model resolution failed", "error", err)
		if hint := llm.Hint(err); hint != "" {
			logger.Error(hint)
		}
		return err
	}
	return nil
}

// buildFetcher wraps the scraper with retry handling.
func buildFetcher(logger *slog.Logger) model.PostingFetcher {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	scraper := scrape.NewScraper(httpClient, logger)
	return retry.NewFetcher(scraper, 2, 5*time.Second, logger)
}

// buildStore opens the session store, or a no-op store in dry-run mode.
func buildStore(cfg *config.Config, dryRun bool, logger *slog.Logger) (model.SessionStore, error) {
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be persisted")
		return store.NewNopStore(), nil
	}
	return store.NewSQLiteStore(cfg.StorePath)
}

func buildCVReader(cfg *config.Config, logger *slog.Logger) *document.Reader {
	return document.NewReader(cfg.Limits.MaxFileSizeMB, cfg.Limits.AllowedFileTypes, logger)
}

// rateLimitedCompleter wraps a model handle so back-to-back generations keep
// the configured gap.
func rateLimitedCompleter(cfg *config.Config, handle *llm.Client) ratelimit.Completer {
	if cfg.Limits.MinRequestGap <= 0 {
		return handle
	}
	limiter := ratelimit.NewModelRateLimiter(cfg.Limits.MinRequestGap)
	return ratelimit.NewLimitedCompleter(handle, limiter)
}
