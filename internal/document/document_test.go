package document

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCV = `Jane Smith
+1 (415) 555-0134
jane.smith@example.com
https://linkedin.com/in/janesmith
https://github.com/janesmith

Experience
2019 - 2023  Senior Backend Engineer, Acme Corp
Built services in Go and Python, deployed with Docker and Kubernetes on AWS.
PostgreSQL and Redis for storage, Git for everything.
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTempCV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp CV: %v", err)
	}
	return path
}

func TestLoadProfile_ExtractsFields(t *testing.T) {
	path := writeTempCV(t, "cv.txt", sampleCV)
	r := NewReader(10, []string{".txt", ".md"}, discardLogger())

	profile, err := r.LoadProfile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.Name != "Jane Smith" {
		t.Errorf("name: got %q", profile.Name)
	}
	if profile.Email != "jane.smith@example.com" {
		t.Errorf("email: got %q", profile.Email)
	}
	if profile.Phone != "+1 (415) 555-0134" {
		t.Errorf("phone: got %q", profile.Phone)
	}
	if !strings.Contains(profile.LinkedInURL, "linkedin.com/in/janesmith") {
		t.Errorf("linkedin: got %q", profile.LinkedInURL)
	}
	if !strings.Contains(profile.GitHubURL, "github.com/janesmith") {
		t.Errorf("github: got %q", profile.GitHubURL)
	}
	if profile.CVText == "" {
		t.Error("expected CV text to be preserved")
	}

	for _, want := range []string{"Go", "Python", "Docker", "Kubernetes", "AWS", "PostgreSQL", "Redis", "Git"} {
		if !containsSkill(profile.Skills, want) {
			t.Errorf("expected skill %q in %v", want, profile.Skills)
		}
	}
}

func TestLoadProfile_RejectsBinaryFormats(t *testing.T) {
	r := NewReader(10, []string{".txt", ".md"}, discardLogger())

	for _, name := range []string{"cv.pdf", "cv.docx", "cv.doc"} {
		path := writeTempCV(t, name, "binary-ish content")
		_, err := r.LoadProfile(path)
		if err == nil {
			t.Errorf("%s: expected error, got nil", name)
			continue
		}
		if !strings.Contains(err.Error(), "export the file") {
			t.Errorf("%s: expected conversion hint, got %v", name, err)
		}
	}
}

func TestLoadProfile_RejectsUnknownExtension(t *testing.T) {
	r := NewReader(10, []string{".txt", ".md"}, discardLogger())
	path := writeTempCV(t, "cv.html", "<p>hi</p>")

	_, err := r.LoadProfile(path)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), ".txt") {
		t.Errorf("expected allowed types in error, got %v", err)
	}
}

func TestLoadProfile_RejectsOversizedFile(t *testing.T) {
	// 1 MB limit, 1 MB + 1 byte file.
	big := strings.Repeat("a", 1024*1024+1)
	path := writeTempCV(t, "cv.txt", big)
	r := NewReader(1, []string{".txt"}, discardLogger())

	_, err := r.LoadProfile(path)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "larger than") {
		t.Errorf("expected size limit error, got %v", err)
	}
}

func TestLoadProfile_MissingFile(t *testing.T) {
	r := NewReader(10, []string{".txt"}, discardLogger())
	_, err := r.LoadProfile(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestLoadProfile_EmptyFile(t *testing.T) {
	path := writeTempCV(t, "cv.txt", "   \n\n  ")
	r := NewReader(10, []string{".txt"}, discardLogger())
	_, err := r.LoadProfile(path)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty-file error, got %v", err)
	}
}

func TestParseProfile_NameFallback(t *testing.T) {
	// First line looks like a section header, not a name.
	profile := ParseProfile("RESUME\nJane Smith\njane@example.com")
	if profile.Name != "User" {
		t.Errorf("expected fallback name, got %q", profile.Name)
	}
}

func TestParseProfile_DateRangeNotPhone(t *testing.T) {
	profile := ParseProfile("Jane Smith\n\nExperience\n2019 - 2023 Engineer at Acme")
	if profile.Phone != "" {
		t.Errorf("expected no phone, got %q", profile.Phone)
	}
}

func TestParseProfile_ShortWordsNeedBoundaries(t *testing.T) {
	profile := ParseProfile("Jane Smith\n\nA good amount of restructuring work, long ago.")
	if containsSkill(profile.Skills, "Go") {
		t.Errorf("matched Go inside unrelated words: %v", profile.Skills)
	}
	if containsSkill(profile.Skills, "REST") {
		t.Errorf("matched REST inside unrelated words: %v", profile.Skills)
	}
}

func containsSkill(skills []string, want string) bool {
	for _, s := range skills {
		if s == want {
			return true
		}
	}
	return false
}
