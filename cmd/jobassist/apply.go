package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mihirvv/jobassist/internal/agent"
	"github.com/mihirvv/jobassist/internal/config"
	"github.com/mihirvv/jobassist/internal/model"
	"github.com/mihirvv/jobassist/internal/scrape"
	"github.com/mihirvv/jobassist/internal/tui"
)

var (
	applyJobURL  string
	applyJobFile string
	applyCVPath  string
	applyDryRun  bool
	applyPlain   bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Generate application documents for a job posting",
	Long: "Fetches or reads a job posting, asks a few questions about your\n" +
		"motivation, and generates a job analysis, cover letter, and motivation\n" +
		"letter with the resolved local model.",
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyJobURL, "job-url", "", "URL of the job posting")
	applyCmd.Flags().StringVar(&applyJobFile, "job-file", "", "path to a file with the pasted posting text")
	applyCmd.Flags().StringVar(&applyCVPath, "cv", "", "path to your CV (.txt or .md)")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "do not persist the session or write output files")
	applyCmd.Flags().BoolVar(&applyPlain, "plain", false, "skip the interactive questions and document viewer")
	applyCmd.MarkFlagRequired("cv")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver := buildResolver(cfg, logger)
	if err := initResolver(ctx, resolver, logger); err != nil {
		os.Exit(1)
	}

	profile, err := buildCVReader(cfg, logger).LoadProfile(applyCVPath)
	if err != nil {
		logger.Error("loading CV failed", "error", err)
		os.Exit(1)
	}

	posting, err := resolvePosting(ctx, logger, applyJobURL, applyJobFile)
	if err != nil {
		logger.Error("resolving posting failed", "error", err)
		os.Exit(1)
	}
	logger.Info("posting loaded", "title", posting.Title, "company", posting.Company, "platform", posting.Platform)

	prefs := model.Preferences{InterestLevel: 7}
	if !applyPlain {
		var ok bool
		prefs, ok, err = tui.RunPreferencesForm(posting)
		if err != nil {
			logger.Error("preferences form failed", "error", err)
			os.Exit(1)
		}
		if !ok {
			logger.Info("cancelled")
			return nil
		}
	}

	handle, err := resolver.Handle()
	if err != nil {
		logger.Error("no model handle", "error", err)
		os.Exit(1)
	}
	app := agent.NewApplicationAgent(rateLimitedCompleter(cfg, handle), logger)

	generate := func(ctx context.Context) ([]model.Document, error) {
		analysis, docs, err := app.ProcessApplication(ctx, posting, profile, prefs)
		if err != nil {
			return nil, err
		}
		analysisDoc := model.Document{
			Type:      "job_analysis",
			Title:     fmt.Sprintf("Analysis - %s at %s", posting.Title, posting.Company),
			Content:   strings.TrimSpace(analysis),
			Model:     handle.ModelName(),
			CreatedAt: time.Now(),
		}
		return append([]model.Document{analysisDoc}, docs...), nil
	}

	var docs []model.Document
	if applyPlain {
		docs, err = generate(ctx)
	} else {
		docs, err = tui.RunGenerate(fmt.Sprintf("Generating application documents for %s at %s...", posting.Title, posting.Company), generate)
	}
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if !applyDryRun {
		if err := persistApplySession(cfg, posting, docs, logger); err != nil {
			logger.Warn("persisting session failed", "error", err)
		}
		if err := writeDocuments(cfg.OutputDir, posting, docs, logger); err != nil {
			logger.Warn("writing output files failed", "error", err)
		}
	}

	if applyPlain {
		for _, doc := range docs {
			fmt.Printf("\n=== %s ===\n\n%s\n", doc.Title, doc.Content)
		}
		return nil
	}
	return tui.RunDocumentReview(docs, posting.URL)
}

// resolvePosting loads a posting from a URL or a pasted-text file.
func resolvePosting(ctx context.Context, logger *slog.Logger, jobURL, jobFile string) (model.JobPosting, error) {
	switch {
	case jobURL != "":
		return buildFetcher(logger).FetchPosting(ctx, jobURL)
	case jobFile != "":
		data, err := os.ReadFile(jobFile)
		if err != nil {
			return model.JobPosting{}, fmt.Errorf("reading posting text: %w", err)
		}
		return scrape.ExtractFromText(string(data)), nil
	default:
		return model.JobPosting{}, fmt.Errorf("either --job-url or --job-file is required")
	}
}

func persistApplySession(cfg *config.Config, posting model.JobPosting, docs []model.Document, logger *slog.Logger) error {
	sessionStore, err := buildStore(cfg, false, logger)
	if err != nil {
		return err
	}
	defer sessionStore.Close()

	return sessionStore.SaveSession(model.Session{
		ID:        uuid.NewString(),
		Posting:   posting,
		Documents: docs,
		CreatedAt: time.Now(),
	})
}

// writeDocuments drops each generated document into the output directory as
// a markdown file.
func writeDocuments(outputDir string, posting model.JobPosting, docs []model.Document, logger *slog.Logger) error {
	dir := filepath.Join(outputDir, slugify(posting.Company+"-"+posting.Title))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for _, doc := range docs {
		path := filepath.Join(dir, doc.Type+".md")
		body := fmt.Sprintf("# %s\n\n%s\n", doc.Title, doc.Content)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Info("wrote document", "path", path)
	}
	return nil
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
