package scrape

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mihirvv/jobassist/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Senior Go Engineer | Acme Corp</title>
<meta property="og:title" content="Senior Go Engineer" />
<script>window.analytics = {};</script>
<style>.hidden { display: none; }</style>
</head>
<body>
<h1>Senior Go Engineer</h1>
<p>Acme Corp is looking for an engineer to build distributed systems.</p>
<p>Location: Berlin, Germany</p>
<p>We require 5+ years of experience with Go, Kubernetes and PostgreSQL.</p>
</body>
</html>`

func TestFetchPosting_ExtractsFields(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		io.WriteString(w, samplePage)
	}))
	defer srv.Close()

	s := NewScraper(srv.Client(), discardLogger())
	posting, err := s.FetchPosting(context.Background(), srv.URL+"/jobs/123")
	if err != nil {
		t.Fatalf("FetchPosting: %v", err)
	}
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Errorf("User-Agent = %q, want browser UA", gotUA)
	}
	if posting.Title != "Senior Go Engineer" {
		t.Errorf("Title = %q", posting.Title)
	}
	if posting.Company != "Acme Corp" {
		t.Errorf("Company = %q", posting.Company)
	}
	if posting.Location != "Berlin, Germany" {
		t.Errorf("Location = %q", posting.Location)
	}
	if posting.Platform != "generic" {
		t.Errorf("Platform = %q", posting.Platform)
	}
	if len(posting.Skills) == 0 {
		t.Error("no skills extracted")
	}
	if posting.Description == "" {
		t.Error("empty description")
	}
}

func TestFetchPosting_HTTPErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewScraper(srv.Client(), discardLogger())
	_, err := s.FetchPosting(context.Background(), srv.URL)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want *model.HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d", httpErr.StatusCode)
	}
	if httpErr.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v", httpErr.RetryAfter)
	}
}

func TestIdentifyPlatform(t *testing.T) {
	cases := map[string]string{
		"https://www.linkedin.com/jobs/view/123": "linkedin",
		"https://de.indeed.com/viewjob?jk=abc":   "indeed",
		"https://www.glassdoor.com/job/xyz":      "glassdoor",
		"https://careers.example.com/openings/1": "generic",
		"://bad-url":                             "generic",
	}
	for url, want := range cases {
		if got := identifyPlatform(url); got != want {
			t.Errorf("identifyPlatform(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestExtractText(t *testing.T) {
	in := `<div><p>Hello&nbsp;&amp; <b>welcome</b></p><script>junk()</script></div>`
	got := ExtractText(in)
	if got != "Hello & welcome" {
		t.Errorf("ExtractText = %q", got)
	}
}

func TestExtractFromText_TitleAndCompanyLines(t *testing.T) {
	text := "Platform Engineer\nInitech\nLocation: Remote\nWe require experience with Terraform, AWS."
	posting := ExtractFromText(text)
	if posting.Title != "Platform Engineer" {
		t.Errorf("Title = %q", posting.Title)
	}
	if posting.Company != "Initech" {
		t.Errorf("Company = %q", posting.Company)
	}
	if posting.Location != "Remote" {
		t.Errorf("Location = %q", posting.Location)
	}
	if posting.Platform != "manual" {
		t.Errorf("Platform = %q", posting.Platform)
	}
	if len(posting.Requirements) == 0 {
		t.Error("no requirements mined")
	}
}

func TestExtractFromText_SkipsImplausibleLines(t *testing.T) {
	text := "About the role\nWe are a fast-growing startup\nGeneric body text"
	posting := ExtractFromText(text)
	if posting.Title != "Unknown Position" {
		t.Errorf("Title = %q, want unknown for 'About...' first line", posting.Title)
	}
	if posting.Company != "Unknown Company" {
		t.Errorf("Company = %q, want unknown for 'We are...' second line", posting.Company)
	}
}

func TestExtractRequirements_DedupAndCap(t *testing.T) {
	text := "We require Go. We require Go. Must have Kubernetes, Docker, Postgres."
	reqs := extractRequirements(text)
	seen := make(map[string]bool)
	for _, r := range reqs {
		if seen[r] {
			t.Errorf("duplicate requirement %q", r)
		}
		seen[r] = true
	}
	if len(reqs) > maxRequirements {
		t.Errorf("requirements over cap: %d", len(reqs))
	}
}
