package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mihirvv/jobassist/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSession(id string) model.Session {
	return model.Session{
		ID: id,
		Posting: model.JobPosting{
			Title:    "Senior Go Engineer",
			Company:  "Acme Corp",
			URL:      "https://example.com/jobs/42",
			Platform: "generic",
		},
		CreatedAt: time.Now(),
	}
}

func TestSaveSessionThenRecent(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveSession(sampleSession("sess-1")); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	sessions, err := s.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	got := sessions[0]
	if got.ID != "sess-1" {
		t.Errorf("id: got %q", got.ID)
	}
	if got.Posting.Title != "Senior Go Engineer" || got.Posting.Company != "Acme Corp" {
		t.Errorf("posting: got %+v", got.Posting)
	}
}

func TestSaveDocumentAttachesToSession(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveSession(sampleSession("sess-1")); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	doc := model.Document{
		Type:    "cover_letter",
		Title:   "Cover Letter - Senior Go Engineer at Acme Corp",
		Content: "Dear hiring team,",
		Model:   "llama3.1:8b",
	}
	if err := s.SaveDocument("sess-1", doc); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	sessions, err := s.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 1 || len(sessions[0].Documents) != 1 {
		t.Fatalf("expected 1 session with 1 document, got %+v", sessions)
	}
	got := sessions[0].Documents[0]
	if got.Type != "cover_letter" || got.Model != "llama3.1:8b" {
		t.Errorf("document: got %+v", got)
	}
}

func TestSaveSessionWithDocumentsInline(t *testing.T) {
	s := newTestStore(t)

	sess := sampleSession("sess-1")
	sess.Documents = []model.Document{
		{Type: "job_analysis", Title: "Analysis", Content: "..."},
		{Type: "cover_letter", Title: "Cover", Content: "..."},
	}
	if err := s.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	sessions, err := s.RecentSessions(1)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 1 || len(sessions[0].Documents) != 2 {
		t.Fatalf("expected 2 documents, got %+v", sessions)
	}
}

func TestRecentSessionsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)

	old := sampleSession("sess-old")
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	mid := sampleSession("sess-mid")
	mid.CreatedAt = time.Now().Add(-1 * time.Hour)
	fresh := sampleSession("sess-fresh")

	for _, sess := range []model.Session{old, mid, fresh} {
		if err := s.SaveSession(sess); err != nil {
			t.Fatalf("SaveSession %s: %v", sess.ID, err)
		}
	}

	sessions, err := s.RecentSessions(2)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "sess-fresh" || sessions[1].ID != "sess-mid" {
		t.Errorf("expected newest first, got %s then %s", sessions[0].ID, sessions[1].ID)
	}
}

func TestSaveSessionIdempotent(t *testing.T) {
	s := newTestStore(t)

	sess := sampleSession("sess-1")
	if err := s.SaveSession(sess); err != nil {
		t.Fatalf("first SaveSession: %v", err)
	}
	sess.Posting.Title = "Staff Go Engineer"
	if err := s.SaveSession(sess); err != nil {
		t.Fatalf("second SaveSession: %v", err)
	}

	sessions, err := s.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session after re-save, got %d", len(sessions))
	}
	if sessions[0].Posting.Title != "Staff Go Engineer" {
		t.Errorf("expected updated title, got %q", sessions[0].Posting.Title)
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)

	old := sampleSession("sess-old")
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	old.Documents = []model.Document{{Type: "cover_letter", Title: "Cover", Content: "...", CreatedAt: old.CreatedAt}}
	if err := s.SaveSession(old); err != nil {
		t.Fatalf("SaveSession old: %v", err)
	}

	if err := s.SaveSession(sampleSession("sess-fresh")); err != nil {
		t.Fatalf("SaveSession fresh: %v", err)
	}

	if err := s.Cleanup(24 * time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	sessions, err := s.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "sess-fresh" {
		t.Fatalf("expected only fresh session to survive, got %+v", sessions)
	}

	// Orphaned documents should be gone too.
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		t.Fatalf("counting documents: %v", err)
	}
	if count != 0 {
		t.Errorf("expected old documents removed, %d remain", count)
	}
}
