package agent

import (
	_ "embed"
	"text/template"
)

// Prompt templates are embedded at build time and parsed once at package
// init; each Execute call only fills in the job/profile data.

//go:embed prompts/job_analysis.md
var jobAnalysisRaw string

//go:embed prompts/cover_letter.md
var coverLetterRaw string

//go:embed prompts/motivation_letter.md
var motivationLetterRaw string

//go:embed prompts/confidence_checklist.md
var confidenceChecklistRaw string

//go:embed prompts/technical_questions.md
var technicalQuestionsRaw string

//go:embed prompts/behavioral_questions.md
var behavioralQuestionsRaw string

//go:embed prompts/questions_to_ask.md
var questionsToAskRaw string

var (
	jobAnalysisTmpl         = template.Must(template.New("job_analysis").Parse(jobAnalysisRaw))
	coverLetterTmpl         = template.Must(template.New("cover_letter").Parse(coverLetterRaw))
	motivationLetterTmpl    = template.Must(template.New("motivation_letter").Parse(motivationLetterRaw))
	confidenceChecklistTmpl = template.Must(template.New("confidence_checklist").Parse(confidenceChecklistRaw))
	technicalQuestionsTmpl  = template.Must(template.New("technical_questions").Parse(technicalQuestionsRaw))
	behavioralQuestionsTmpl = template.Must(template.New("behavioral_questions").Parse(behavioralQuestionsRaw))
	questionsToAskTmpl      = template.Must(template.New("questions_to_ask").Parse(questionsToAskRaw))
)
