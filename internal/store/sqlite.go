package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mihirvv/jobassist/internal/model"
)

// SQLiteStore persists application sessions and their generated documents in
// a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			job_title  TEXT NOT NULL,
			company    TEXT NOT NULL,
			url        TEXT,
			platform   TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			doc_type   TEXT NOT NULL,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL,
			model      TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_session ON documents(session_id)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// SaveSession records a session and any documents it already carries.
func (s *SQLiteStore) SaveSession(sess model.Session) error {
	createdAt := sess.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO sessions (id, job_title, company, url, platform, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Posting.Title, sess.Posting.Company, sess.Posting.URL, sess.Posting.Platform, createdAt,
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", sess.ID, err)
	}

	for _, doc := range sess.Documents {
		if err := s.SaveDocument(sess.ID, doc); err != nil {
			return err
		}
	}
	return nil
}

// SaveDocument attaches a generated document to an existing session.
func (s *SQLiteStore) SaveDocument(sessionID string, doc model.Document) error {
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO documents (session_id, doc_type, title, content, model, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, doc.Type, doc.Title, doc.Content, doc.Model, createdAt,
	)
	if err != nil {
		return fmt.Errorf("saving %s document for session %s: %w", doc.Type, sessionID, err)
	}
	return nil
}

// RecentSessions returns up to limit sessions, newest first, with their
// documents attached.
func (s *SQLiteStore) RecentSessions(limit int) ([]model.Session, error) {
	rows, err := s.db.Query(
		`SELECT id, job_title, company, url, platform, created_at
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var sess model.Session
		if err := rows.Scan(
			&sess.ID, &sess.Posting.Title, &sess.Posting.Company,
			&sess.Posting.URL, &sess.Posting.Platform, &sess.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	for i := range sessions {
		docs, err := s.sessionDocuments(sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Documents = docs
	}
	return sessions, nil
}

func (s *SQLiteStore) sessionDocuments(sessionID string) ([]model.Document, error) {
	rows, err := s.db.Query(
		`SELECT doc_type, title, content, model, created_at
		 FROM documents WHERE session_id = ? ORDER BY created_at, id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing documents for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(&doc.Type, &doc.Title, &doc.Content, &doc.Model, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Cleanup deletes sessions (and their documents) older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	if _, err := s.db.Exec(
		"DELETE FROM documents WHERE session_id IN (SELECT id FROM sessions WHERE created_at < ?)", cutoff,
	); err != nil {
		return fmt.Errorf("cleaning up documents older than %v: %w", olderThan, err)
	}
	if _, err := s.db.Exec("DELETE FROM sessions WHERE created_at < ?", cutoff); err != nil {
		return fmt.Errorf("cleaning up sessions older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
