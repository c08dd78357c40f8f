package document

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mihirvv/jobassist/internal/model"
)

var (
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRegex = regexp.MustCompile(`\+?\d[\d\s().-]{6,16}\d`)
	urlRegex   = regexp.MustCompile(`https?://[^\s<>"]+`)
)

// cvSkillKeywords are scanned against the resume text to seed the profile's
// skill list. The generated prompts quote these back, so false negatives are
// cheap and false positives are not.
var cvSkillKeywords = []string{
	"Python", "JavaScript", "TypeScript", "Java", "C++", "C#", "Go", "Rust", "Ruby", "PHP",
	"React", "Angular", "Vue.js", "Node.js", "Django", "Flask", "Spring",
	"Machine Learning", "Data Science", "TensorFlow", "PyTorch",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch",
	"Docker", "Kubernetes", "Terraform", "AWS", "Azure", "GCP",
	"Git", "Linux", "Bash", "CI/CD", "GraphQL", "REST", "Microservices",
}

// Reader loads and parses CV files into applicant profiles.
type Reader struct {
	maxBytes     int64
	allowedTypes []string
	logger       *slog.Logger
}

// NewReader creates a CV reader. maxSizeMB bounds the file size and
// allowedTypes lists the accepted extensions (with leading dot).
func NewReader(maxSizeMB int, allowedTypes []string, logger *slog.Logger) *Reader {
	return &Reader{
		maxBytes:     int64(maxSizeMB) * 1024 * 1024,
		allowedTypes: allowedTypes,
		logger:       logger,
	}
}

// LoadProfile reads a CV file and extracts a structured applicant profile.
// Only plain-text formats are supported; binary formats get a clear error
// telling the user to export to text first.
func (r *Reader) LoadProfile(path string) (model.Profile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf", ".docx", ".doc":
		return model.Profile{}, fmt.Errorf("unsupported CV format %q: export the file to .txt or .md first", ext)
	}
	if !r.allowed(ext) {
		return model.Profile{}, fmt.Errorf("unsupported CV format %q: allowed types are %s", ext, strings.Join(r.allowedTypes, ", "))
	}

	info, err := os.Stat(path)
	if err != nil {
		return model.Profile{}, fmt.Errorf("reading CV file: %w", err)
	}
	if info.Size() > r.maxBytes {
		return model.Profile{}, fmt.Errorf("CV file %s is %d bytes, larger than the %d byte limit", path, info.Size(), r.maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Profile{}, fmt.Errorf("reading CV file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return model.Profile{}, fmt.Errorf("CV file %s is empty", path)
	}

	profile := ParseProfile(text)
	r.logger.Info("loaded CV",
		"path", path,
		"bytes", info.Size(),
		"skills_found", len(profile.Skills),
	)
	return profile, nil
}

func (r *Reader) allowed(ext string) bool {
	for _, t := range r.allowedTypes {
		if ext == strings.ToLower(t) {
			return true
		}
	}
	return false
}

// ParseProfile extracts contact details and skills from resume text.
func ParseProfile(text string) model.Profile {
	profile := model.Profile{
		Name:   extractName(text),
		CVText: text,
		Skills: extractSkills(text),
	}

	if m := emailRegex.FindString(text); m != "" {
		profile.Email = m
	}
	if m := findPhone(text); m != "" {
		profile.Phone = m
	}
	for _, u := range urlRegex.FindAllString(text, -1) {
		lower := strings.ToLower(u)
		switch {
		case strings.Contains(lower, "linkedin.com") && profile.LinkedInURL == "":
			profile.LinkedInURL = strings.TrimRight(u, ".,;)")
		case strings.Contains(lower, "github.com") && profile.GitHubURL == "":
			profile.GitHubURL = strings.TrimRight(u, ".,;)")
		}
	}

	return profile
}

// extractName assumes the resume opens with the applicant's name, which holds
// for nearly every template. Falls back to "User" when the first line looks
// like something else.
func extractName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if plausibleName(line) {
			return line
		}
		break
	}
	return "User"
}

func plausibleName(line string) bool {
	if len(line) > 60 {
		return false
	}
	if strings.ContainsAny(line, "@/:0123456789") {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 1 || len(words) > 5 {
		return false
	}
	lower := strings.ToLower(line)
	for _, skip := range []string{"resume", "curriculum", "cv", "profile", "summary"} {
		if strings.Contains(lower, skip) {
			return false
		}
	}
	return true
}

var yearPrefix = regexp.MustCompile(`^(19|20)\d{2}\b`)

// findPhone returns the first candidate with enough digits to be a real
// number. Candidates that open with a year are employment date ranges the
// loose regex also matches.
func findPhone(text string) string {
	for _, candidate := range phoneRegex.FindAllString(text, -1) {
		candidate = strings.TrimSpace(candidate)
		if yearPrefix.MatchString(candidate) {
			continue
		}
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 7 {
			return candidate
		}
	}
	return ""
}

var wordOnly = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

// skillRegexes is built once from cvSkillKeywords. Plain words get boundary
// anchors so "Go" does not match inside "good"; keywords with symbols fall
// back to substring matching.
var skillRegexes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(cvSkillKeywords))
	for _, skill := range cvSkillKeywords {
		if wordOnly.MatchString(skill) {
			m[skill] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(skill) + `\b`)
		}
	}
	return m
}()

func extractSkills(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range cvSkillKeywords {
		if re, ok := skillRegexes[skill]; ok {
			if re.MatchString(text) {
				found = append(found, skill)
			}
			continue
		}
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}
