package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mihirvv/jobassist/internal/model"
	"github.com/mihirvv/jobassist/internal/scheduler"
	"github.com/mihirvv/jobassist/internal/web"
)

// healthInterval is how often the background monitor re-probes model health
// while the web server runs.
const healthInterval = 5 * time.Minute

var webDryRun bool

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the browser UI and JSON API",
	Long: "Starts the HTTP server with the application form, the interview\n" +
		"endpoint, and the status API. The model resolver is initialized at\n" +
		"startup; if that fails the server still starts so the status page can\n" +
		"explain what is wrong.",
	RunE: runWeb,
}

func init() {
	webCmd.Flags().BoolVar(&webDryRun, "dry-run", false, "do not persist sessions")
	rootCmd.AddCommand(webCmd)
}

func runWeb(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver := buildResolver(cfg, logger)
	// A failed initialization is not fatal here: the UI surfaces the status,
	// and the engine re-attempts initialization on each generation request,
	// so fixing Ollama does not require a server restart.
	if err := initResolver(ctx, resolver, logger); err != nil {
		logger.Warn("starting web server without a working model")
	}

	var sessionStore model.SessionStore
	sessionStore, err = buildStore(cfg, webDryRun, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sessionStore.Close()

	monitor := scheduler.NewHealthMonitor(resolver, healthInterval, logger)
	go monitor.Run(ctx)

	server := web.NewServer(
		web.NewResolverEngine(resolver),
		buildFetcher(logger),
		sessionStore,
		logger,
	)
	if err := server.Run(ctx, cfg.Web.Host, cfg.Web.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("web server failed", "error", err)
		os.Exit(1)
	}
	return nil
}
