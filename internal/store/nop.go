package store

import (
	"time"

	"github.com/mihirvv/jobassist/internal/model"
)

// NopStore is a no-op store used in dry-run mode. Nothing is persisted and
// history queries always come back empty.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) SaveSession(model.Session) error                 { return nil }
func (s *NopStore) SaveDocument(string, model.Document) error       { return nil }
func (s *NopStore) RecentSessions(int) ([]model.Session, error)     { return nil, nil }
func (s *NopStore) Cleanup(time.Duration) error                     { return nil }
func (s *NopStore) Close() error                                    { return nil }
