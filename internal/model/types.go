package model

import (
	"context"
	"time"
)

// JobPosting is the normalized representation of a job ad, whether it was
// scraped from a URL, pasted as text, or entered field by field.
type JobPosting struct {
	Title        string
	Company      string
	Description  string
	Requirements []string
	Skills       []string
	Location     string
	SalaryRange  string
	JobType      string
	URL          string
	Platform     string // source platform: "linkedin", "indeed", "generic", "manual"
}

// Profile holds the applicant's own data.
type Profile struct {
	Name        string
	Email       string
	Phone       string
	CVText      string // full resume content as plain text
	Skills      []string
	LinkedInURL string
	GitHubURL   string
}

// Preferences captures what the applicant wants out of one specific role.
// These answers drive the personalization of the generated documents.
type Preferences struct {
	InterestLevel      int // 1-10
	Motivation         string
	RelevantExperience string
	CareerGoals        string
	CompanyKnowledge   string
	Concerns           string
	AdditionalInfo     string
}

// Document is one generated application artifact.
type Document struct {
	Type      string // "job_analysis", "cover_letter", "motivation_letter"
	Title     string
	Content   string
	Model     string // model that produced the content
	CreatedAt time.Time
}

// InterviewPrep bundles the generated interview study material.
type InterviewPrep struct {
	ConfidenceChecklist []string
	TechnicalQuestions  []string
	BehavioralQuestions []string
	QuestionsToAsk      []string
	Timeline            map[string][]string // study phase -> tasks
}

// Session groups everything produced for one application run.
type Session struct {
	ID        string
	Posting   JobPosting
	Documents []Document
	CreatedAt time.Time
}

// PostingFetcher extracts a job posting from a URL.
// The scraper implements this; retry decorators wrap it.
type PostingFetcher interface {
	FetchPosting(ctx context.Context, url string) (JobPosting, error)
}

// SessionStore persists application sessions and their generated documents.
type SessionStore interface {
	SaveSession(s Session) error
	SaveDocument(sessionID string, doc Document) error
	RecentSessions(limit int) ([]Session, error)
	Cleanup(olderThan time.Duration) error
	Close() error
}
