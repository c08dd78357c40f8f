package agent

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/mihirvv/jobassist/internal/model"
)

// ApplicationAgent generates application documents for one job posting.
type ApplicationAgent struct {
	completer Completer
	logger    *slog.Logger
}

// NewApplicationAgent creates an agent over the given model handle.
func NewApplicationAgent(completer Completer, logger *slog.Logger) *ApplicationAgent {
	return &ApplicationAgent{
		completer: completer,
		logger:    logger,
	}
}

// AnalyzeJob produces a structured analysis of the posting.
func (a *ApplicationAgent) AnalyzeJob(ctx context.Context, posting model.JobPosting) (string, error) {
	prompt, err := render(jobAnalysisTmpl, map[string]string{
		"Title":       posting.Title,
		"Company":     posting.Company,
		"Description": posting.Description,
	})
	if err != nil {
		return "", err
	}
	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("analyze job: %w", err)
	}
	return text, nil
}

// CoverLetter generates a personalized cover letter document.
func (a *ApplicationAgent) CoverLetter(ctx context.Context, posting model.JobPosting, profile model.Profile, prefs model.Preferences) (model.Document, error) {
	prompt, err := render(coverLetterTmpl, map[string]string{
		"Title":              posting.Title,
		"Company":            posting.Company,
		"Description":        posting.Description,
		"Name":               profile.Name,
		"Skills":             strings.Join(profile.Skills, ", "),
		"CVSummary":          profile.CVText,
		"Motivation":         prefs.Motivation,
		"RelevantExperience": prefs.RelevantExperience,
		"CareerGoals":        prefs.CareerGoals,
		"CompanyKnowledge":   prefs.CompanyKnowledge,
	})
	if err != nil {
		return model.Document{}, err
	}

	content, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return model.Document{}, fmt.Errorf("generate cover letter: %w", err)
	}

	return a.document("cover_letter", "Cover Letter", posting, content), nil
}

// MotivationLetter generates a motivation letter that goes beyond the cover letter.
func (a *ApplicationAgent) MotivationLetter(ctx context.Context, posting model.JobPosting, prefs model.Preferences) (model.Document, error) {
	prompt, err := render(motivationLetterTmpl, map[string]string{
		"Title":              posting.Title,
		"Company":            posting.Company,
		"Motivation":         prefs.Motivation,
		"CareerGoals":        prefs.CareerGoals,
		"RelevantExperience": prefs.RelevantExperience,
	})
	if err != nil {
		return model.Document{}, err
	}

	content, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return model.Document{}, fmt.Errorf("generate motivation letter: %w", err)
	}

	return a.document("motivation_letter", "Motivation Letter", posting, content), nil
}

// ProcessApplication runs the full workflow: analysis, cover letter,
// motivation letter. Documents are generated sequentially with the same handle.
func (a *ApplicationAgent) ProcessApplication(ctx context.Context, posting model.JobPosting, profile model.Profile, prefs model.Preferences) (string, []model.Document, error) {
	analysis, err := a.AnalyzeJob(ctx, posting)
	if err != nil {
		return "", nil, err
	}

	cover, err := a.CoverLetter(ctx, posting, profile, prefs)
	if err != nil {
		return analysis, nil, err
	}

	motivation, err := a.MotivationLetter(ctx, posting, prefs)
	if err != nil {
		return analysis, []model.Document{cover}, err
	}

	a.logger.Info("application documents generated",
		"company", posting.Company,
		"title", posting.Title,
		"model", a.completer.ModelName(),
	)
	return analysis, []model.Document{cover, motivation}, nil
}

func (a *ApplicationAgent) document(docType, label string, posting model.JobPosting, content string) model.Document {
	return model.Document{
		Type:      docType,
		Title:     fmt.Sprintf("%s - %s at %s", label, posting.Title, posting.Company),
		Content:   strings.TrimSpace(content),
		Model:     a.completer.ModelName(),
		CreatedAt: time.Now(),
	}
}

func render(tmpl *template.Template, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
