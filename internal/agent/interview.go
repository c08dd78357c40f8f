package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mihirvv/jobassist/internal/model"
)

// defaultQuestionsToAsk tops up the interviewer-question list when the model
// returns too few usable questions.
var defaultQuestionsToAsk = []string{
	"What are the biggest challenges facing the team right now?",
	"How do you measure success in this role?",
	"What opportunities are there for professional development?",
	"Can you describe the team culture and collaboration style?",
	"What are the company's priorities for the next year?",
}

const maxQuestionsToAsk = 8

// InterviewAgent generates interview preparation material for one posting.
type InterviewAgent struct {
	completer Completer
	logger    *slog.Logger
}

// NewInterviewAgent creates an agent over the given model handle.
func NewInterviewAgent(completer Completer, logger *slog.Logger) *InterviewAgent {
	return &InterviewAgent{
		completer: completer,
		logger:    logger,
	}
}

// ConfidenceChecklist lists topics the candidate should master before the interview.
func (a *InterviewAgent) ConfidenceChecklist(ctx context.Context, posting model.JobPosting, profile model.Profile) ([]string, error) {
	prompt, err := render(confidenceChecklistTmpl, map[string]string{
		"Title":        posting.Title,
		"Company":      posting.Company,
		"Requirements": strings.Join(posting.Requirements, ", "),
		"Skills":       strings.Join(profile.Skills, ", "),
	})
	if err != nil {
		return nil, err
	}
	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("confidence checklist: %w", err)
	}
	return parseListItems(text), nil
}

// TechnicalQuestions generates technical questions to practice.
func (a *InterviewAgent) TechnicalQuestions(ctx context.Context, posting model.JobPosting) ([]string, error) {
	prompt, err := render(technicalQuestionsTmpl, map[string]string{
		"Title":        posting.Title,
		"Company":      posting.Company,
		"Requirements": strings.Join(posting.Requirements, ", "),
		"Skills":       strings.Join(posting.Skills, ", "),
	})
	if err != nil {
		return nil, err
	}
	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("technical questions: %w", err)
	}
	return parseQuestions(text), nil
}

// BehavioralQuestions generates STAR-format behavioral questions.
func (a *InterviewAgent) BehavioralQuestions(ctx context.Context, posting model.JobPosting) ([]string, error) {
	prompt, err := render(behavioralQuestionsTmpl, map[string]string{
		"Title":       posting.Title,
		"Company":     posting.Company,
		"Description": posting.Description,
	})
	if err != nil {
		return nil, err
	}
	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("behavioral questions: %w", err)
	}
	return parseBehavioral(text), nil
}

// QuestionsToAsk generates questions for the candidate to ask the
// interviewer, padded with defaults when the model returns fewer than three.
func (a *InterviewAgent) QuestionsToAsk(ctx context.Context, posting model.JobPosting) ([]string, error) {
	prompt, err := render(questionsToAskTmpl, map[string]string{
		"Title":   posting.Title,
		"Company": posting.Company,
	})
	if err != nil {
		return nil, err
	}
	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("questions to ask: %w", err)
	}

	questions := parseQuestions(text)
	if len(questions) < 3 {
		questions = append(questions, defaultQuestionsToAsk...)
	}
	if len(questions) > maxQuestionsToAsk {
		questions = questions[:maxQuestionsToAsk]
	}
	return questions, nil
}

// PrepareForInterview runs the full preparation workflow sequentially.
func (a *InterviewAgent) PrepareForInterview(ctx context.Context, posting model.JobPosting, profile model.Profile) (model.InterviewPrep, error) {
	checklist, err := a.ConfidenceChecklist(ctx, posting, profile)
	if err != nil {
		return model.InterviewPrep{}, err
	}
	technical, err := a.TechnicalQuestions(ctx, posting)
	if err != nil {
		return model.InterviewPrep{}, err
	}
	behavioral, err := a.BehavioralQuestions(ctx, posting)
	if err != nil {
		return model.InterviewPrep{}, err
	}
	toAsk, err := a.QuestionsToAsk(ctx, posting)
	if err != nil {
		return model.InterviewPrep{}, err
	}

	a.logger.Info("interview prep generated",
		"company", posting.Company,
		"checklist", len(checklist),
		"technical", len(technical),
		"behavioral", len(behavioral),
	)

	return model.InterviewPrep{
		ConfidenceChecklist: checklist,
		TechnicalQuestions:  technical,
		BehavioralQuestions: behavioral,
		QuestionsToAsk:      toAsk,
		Timeline: map[string][]string{
			"Week 1":     {"Foundation study", "Core concepts review"},
			"Week 2":     {"Technical practice", "Mock coding sessions"},
			"Week 3":     {"Behavioral prep", "STAR method practice"},
			"Final Days": {"Review and polish", "Interview simulation"},
		},
	}, nil
}
