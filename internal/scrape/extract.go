package scrape

import (
	"html"
	"regexp"
	"strings"

	"github.com/mihirvv/jobassist/internal/model"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	scriptRegex     = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	blockBreakRegex = regexp.MustCompile(`(?i)</(p|div|li|h[1-6]|tr|section|article)>|<br\s*/?>`)
	titleTagRegex   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	h1TagRegex      = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	ogTitleRegex    = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:title["'][^>]+content=["']([^"']+)["']`)
	ogSiteNameRegex = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:site_name["'][^>]+content=["']([^"']+)["']`)
)

// Phrases that introduce requirements in job ad prose.
var requirementRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:require[sd]?|must have|looking for)[:\s-]*([^.!?\n]+)`),
	regexp.MustCompile(`(?i)(?:experience with|knowledge of|proficient in|familiar with)[:\s-]*([^.!?\n]+)`),
	regexp.MustCompile(`(?i)(?:\d+\+?\s*years?)[^.\n]*?(?:experience|exp)[^.\n]*?(?:in|with)\s+([^.!?\n]+)`),
}

var companyRegexes = []*regexp.Regexp{
	regexp.MustCompile(`Company:\s*([^\n]+)`),
	regexp.MustCompile(`(?:at|@)\s+([A-Z][a-zA-Z &.,-]{2,40})(?:\s|$)`),
	regexp.MustCompile(`([A-Z][a-zA-Z &.,-]+?(?:\s+Inc\.?|\s+LLC|\s+Corp\.?|\s+Ltd\.?))`),
	regexp.MustCompile(`([A-Z][a-zA-Z &.,-]+)\s+is\s+(?:looking|seeking|hiring)`),
	regexp.MustCompile(`Join\s+([A-Z][a-zA-Z &.,-]{2,40})`),
}

var locationRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Location:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)(?:Based in|Located in)\s+([^\n,]+)`),
	regexp.MustCompile(`([A-Z][a-zA-Z ]+,\s*[A-Z]{2,})`),
	regexp.MustCompile(`(?i)\b(Remote|Hybrid|On-site)\b`),
}

// skillKeywords is the vocabulary scanned for in descriptions and CVs.
var skillKeywords = []string{
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Go", "Rust", "Ruby", "PHP",
	"React", "Angular", "Vue.js", "Node.js", "Django", "Flask", "Spring",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform", "Git",
	"Machine Learning", "TensorFlow", "PyTorch", "Pandas",
	"REST", "GraphQL", "gRPC", "Kafka", "Linux", "Bash",
	"Agile", "Scrum", "DevOps", "CI/CD", "Microservices",
}

const (
	maxRequirements = 10
	maxSkills       = 15
)

// skillRegexes anchors plain-word keywords so "Go" does not match inside
// "good". Keywords with symbols fall back to substring checks.
var skillRegexes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(skillKeywords))
	for _, skill := range skillKeywords {
		if regexp.MustCompile(`^[a-zA-Z ]+$`).MatchString(skill) {
			res[skill] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(skill) + `\b`)
		}
	}
	return res
}()

// ExtractText converts an HTML or HTML-encoded string to plain text: drops
// script/style blocks, unescapes entities, strips tags, collapses whitespace.
func ExtractText(content string) string {
	noScripts := scriptRegex.ReplaceAllString(content, " ")
	unescaped := html.UnescapeString(noScripts)
	plain := htmlTagRegex.ReplaceAllString(unescaped, " ")
	return strings.Join(strings.Fields(plain), " ")
}

// extractTextLines is like ExtractText but turns block-level tag boundaries
// into newlines, so "Label: value" lines stay intact for pattern mining.
func extractTextLines(content string) string {
	noScripts := scriptRegex.ReplaceAllString(content, " ")
	withBreaks := blockBreakRegex.ReplaceAllString(noScripts, "\n")
	unescaped := html.UnescapeString(withBreaks)
	plain := htmlTagRegex.ReplaceAllString(unescaped, " ")

	var lines []string
	for _, line := range strings.Split(plain, "\n") {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			lines = append(lines, collapsed)
		}
	}
	return strings.Join(lines, "\n")
}

// extractFromHTML pulls a posting out of raw page markup.
func extractFromHTML(page, platform string) model.JobPosting {
	posting := model.JobPosting{
		Title:    "Unknown Position",
		Company:  "Unknown Company",
		Location: "Unknown Location",
	}

	if m := ogTitleRegex.FindStringSubmatch(page); m != nil {
		posting.Title = cleanField(m[1])
	} else if m := h1TagRegex.FindStringSubmatch(page); m != nil {
		posting.Title = cleanField(ExtractText(m[1]))
	} else if m := titleTagRegex.FindStringSubmatch(page); m != nil {
		posting.Title = cleanField(ExtractText(m[1]))
	}

	if m := ogSiteNameRegex.FindStringSubmatch(page); m != nil {
		// The site name is the platform itself on aggregator pages.
		name := cleanField(m[1])
		if !isPlatformName(name, platform) {
			posting.Company = name
		}
	}

	text := extractTextLines(page)
	posting.Description = text

	fillFromText(&posting, text)
	return posting
}

// ExtractFromText parses a pasted job ad. The full text becomes the
// description; title/company/location are best-effort line and pattern scans.
func ExtractFromText(text string) model.JobPosting {
	text = strings.TrimSpace(text)
	posting := model.JobPosting{
		Title:       "Unknown Position",
		Company:     "Unknown Company",
		Location:    "Unknown Location",
		Description: text,
		Platform:    "manual",
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	// Copied postings usually start with the title, then the company.
	if len(lines) > 0 && plausibleTitle(lines[0]) {
		posting.Title = lines[0]
	}
	if len(lines) > 1 && plausibleCompany(lines[1]) {
		posting.Company = lines[1]
	}

	fillFromText(&posting, text)
	return posting
}

// fillFromText completes missing fields and mines requirements/skills.
func fillFromText(posting *model.JobPosting, text string) {
	if posting.Company == "Unknown Company" {
		for _, re := range companyRegexes {
			if m := re.FindStringSubmatch(text); m != nil {
				candidate := cleanField(m[1])
				if plausibleCompany(candidate) {
					posting.Company = candidate
					break
				}
			}
		}
	}

	if posting.Location == "Unknown Location" {
		for _, re := range locationRegexes {
			if m := re.FindStringSubmatch(text); m != nil {
				candidate := cleanField(m[1])
				if len(candidate) < 50 {
					posting.Location = candidate
					break
				}
			}
		}
	}

	posting.Requirements = extractRequirements(text)
	posting.Skills = extractSkills(text)
}

// extractRequirements mines requirement phrases, deduplicated, capped.
func extractRequirements(text string) []string {
	seen := make(map[string]bool)
	var requirements []string
	for _, re := range requirementRegexes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, part := range strings.Split(m[1], ",") {
				req := cleanField(part)
				if len(req) < 4 || len(req) > 100 {
					continue
				}
				key := strings.ToLower(req)
				if seen[key] {
					continue
				}
				seen[key] = true
				requirements = append(requirements, req)
				if len(requirements) >= maxRequirements {
					return requirements
				}
			}
		}
	}
	return requirements
}

// extractSkills scans for known skill keywords, capped.
func extractSkills(text string) []string {
	lower := strings.ToLower(text)
	var skills []string
	for _, skill := range skillKeywords {
		matched := false
		if re, ok := skillRegexes[skill]; ok {
			matched = re.MatchString(text)
		} else {
			matched = strings.Contains(lower, strings.ToLower(skill))
		}
		if matched {
			skills = append(skills, skill)
			if len(skills) >= maxSkills {
				break
			}
		}
	}
	return skills
}

func cleanField(s string) string {
	return strings.Trim(strings.Join(strings.Fields(s), " "), " .,;:-")
}

func plausibleTitle(s string) bool {
	if len(s) >= 100 {
		return false
	}
	lower := strings.ToLower(s)
	return !strings.HasPrefix(lower, "about") &&
		!strings.HasPrefix(lower, "we are") &&
		!strings.HasPrefix(lower, "job")
}

func plausibleCompany(s string) bool {
	if len(s) < 2 || len(s) >= 50 {
		return false
	}
	lower := strings.ToLower(s)
	for _, skip := range []string{"linkedin", "apply", "position", "role", "job", "experience", "years", "location", "we are", "about"} {
		if strings.Contains(lower, skip) {
			return false
		}
	}
	return true
}

func isPlatformName(name, platform string) bool {
	return strings.EqualFold(name, platform) || strings.EqualFold(name, platform+".com")
}
