package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIntakeFlags(t *testing.T) {
	for _, cmd := range []*cobra.Command{applyCmd, interviewCmd} {
		for _, name := range []string{"job-url", "job-file", "cv"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("%s: missing --%s flag", cmd.Use, name)
			}
		}
	}
}

func TestResolvePosting_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posting.txt")
	text := "Platform Engineer\nInitech\nLocation: Remote"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	posting, err := resolvePosting(context.Background(), testLogger(), "", path)
	if err != nil {
		t.Fatalf("resolvePosting: %v", err)
	}
	if posting.Title != "Platform Engineer" {
		t.Errorf("Title = %q", posting.Title)
	}
	if posting.Company != "Initech" {
		t.Errorf("Company = %q", posting.Company)
	}
}

func TestResolvePosting_NoInput(t *testing.T) {
	_, err := resolvePosting(context.Background(), testLogger(), "", "")
	if err == nil {
		t.Fatal("expected an error without a URL or file")
	}
	if !strings.Contains(err.Error(), "--job-file") {
		t.Errorf("error should name the --job-file flag, got %q", err)
	}
}
