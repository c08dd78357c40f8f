package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mihirvv/jobassist/internal/agent"
	"github.com/mihirvv/jobassist/internal/model"
	"github.com/mihirvv/jobassist/internal/tui"
)

var (
	interviewJobURL  string
	interviewJobFile string
	interviewCVPath  string
	interviewPlain   bool
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Generate interview preparation material",
	Long: "Generates a confidence checklist, likely technical and behavioral\n" +
		"questions, questions to ask the interviewer, and a study timeline for\n" +
		"one job posting.",
	RunE: runInterview,
}

func init() {
	interviewCmd.Flags().StringVar(&interviewJobURL, "job-url", "", "URL of the job posting")
	interviewCmd.Flags().StringVar(&interviewJobFile, "job-file", "", "path to a file with the pasted posting text")
	interviewCmd.Flags().StringVar(&interviewCVPath, "cv", "", "path to your CV (.txt or .md)")
	interviewCmd.Flags().BoolVar(&interviewPlain, "plain", false, "print to stdout instead of the document viewer")
	interviewCmd.MarkFlagRequired("cv")
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, args []string) error {
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

	profile, err := buildCVReader(cfg, logger).LoadProfile(interviewCVPath)
	if err != nil {
		logger.Error("loading CV failed", "error", err)
		os.Exit(1)
	}

	posting, err := resolvePosting(ctx, logger, interviewJobURL, interviewJobFile)
	if err != nil {
		logger.Error("resolving posting failed", "error", err)
		os.Exit(1)
	}
	logger.Info("posting loaded", "title", posting.Title, "company", posting.Company)

	handle, err := resolver.Handle()
	if err != nil {
		logger.Error("no model handle", "error", err)
		os.Exit(1)
	}
	prep := agent.NewInterviewAgent(rateLimitedCompleter(cfg, handle), logger)

	generate := func(ctx context.Context) ([]model.Document, error) {
		result, err := prep.PrepareForInterview(ctx, posting, profile)
		if err != nil {
			return nil, err
		}
		return prepDocuments(posting, result, handle.ModelName()), nil
	}

	var docs []model.Document
	if interviewPlain {
		docs, err = generate(ctx)
	} else {
		docs, err = tui.RunGenerate(fmt.Sprintf("Preparing interview material for %s at %s...", posting.Title, posting.Company), generate)
	}
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if interviewPlain {
		for _, doc := range docs {
			fmt.Printf("\n=== %s ===\n\n%s\n", doc.Title, doc.Content)
		}
		return nil
	}
	return tui.RunDocumentReview(docs, posting.URL)
}

// prepDocuments renders the structured prep into reviewable documents.
func prepDocuments(posting model.JobPosting, prep model.InterviewPrep, modelName string) []model.Document {
	now := time.Now()
	doc := func(docType, label string, lines []string) model.Document {
		var b strings.Builder
		for _, line := range lines {
			b.WriteString("- " + line + "\n")
		}
		return model.Document{
			Type:      docType,
			Title:     fmt.Sprintf("%s - %s at %s", label, posting.Title, posting.Company),
			Content:   b.String(),
			Model:     modelName,
			CreatedAt: now,
		}
	}

	docs := []model.Document{
		doc("confidence_checklist", "Confidence Checklist", prep.ConfidenceChecklist),
		doc("technical_questions", "Technical Questions", prep.TechnicalQuestions),
		doc("behavioral_questions", "Behavioral Questions", prep.BehavioralQuestions),
		doc("questions_to_ask", "Questions to Ask", prep.QuestionsToAsk),
	}

	// Timeline phases in a stable order.
	phases := make([]string, 0, len(prep.Timeline))
	for phase := range prep.Timeline {
		phases = append(phases, phase)
	}
	sort.Strings(phases)

	var b strings.Builder
	for _, phase := range phases {
		b.WriteString(phase + "\n")
		for _, task := range prep.Timeline[phase] {
			b.WriteString("  - " + task + "\n")
		}
		b.WriteByte('\n')
	}
	docs = append(docs, model.Document{
		Type:      "study_timeline",
		Title:     fmt.Sprintf("Study Timeline - %s at %s", posting.Title, posting.Company),
		Content:   b.String(),
		Model:     modelName,
		CreatedAt: now,
	})
	return docs
}
