package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mihirvv/jobassist/internal/llm"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the Ollama server and configured models",
	Long: "Probes the Ollama endpoint and every configured model, then prints\n" +
		"what is installed and what is actually answering. Exits non-zero when\n" +
		"no working model is available.",
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver := buildResolver(cfg, logger)
	initErr := resolver.Initialize(ctx)
	status := resolver.Status()

	fmt.Printf("Ollama endpoint:  %s\n", cfg.Ollama.BaseURL)
	fmt.Printf("Reachable:        %v\n", status.Reachable)

	if errors.Is(initErr, llm.ErrServiceUnavailable) {
		fmt.Println("\nThe Ollama server is not reachable.")
		printHint(initErr)
		os.Exit(1)
	}

	fmt.Printf("Installed models: %s\n", joinOrNone(status.InstalledModels))
	fmt.Printf("Primary model:    %s %s\n", status.PrimaryModel, healthMark(status.ModelHealth, status.PrimaryModel))
	for _, name := range status.FallbackModels {
		fmt.Printf("Fallback model:   %s %s\n", name, healthMark(status.ModelHealth, name))
	}

	if initErr != nil {
		fmt.Println()
		printHint(initErr)
		os.Exit(1)
	}

	if !status.HasWorkingModel {
		fmt.Println("\nNo working model available.")
		os.Exit(1)
	}

	fmt.Println("\nReady.")
	return nil
}

func printHint(err error) {
	fmt.Printf("Error: %v\n", err)
	if hint := llm.Hint(err); hint != "" {
		fmt.Printf("Hint:  %s\n", hint)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// healthMark annotates a model name with its probe outcome.
func healthMark(health map[string]bool, name string) string {
	healthy, probed := health[name]
	switch {
	case !probed:
		return "(not probed)"
	case healthy:
		return "(working)"
	default:
		return "(failed probe)"
	}
}
