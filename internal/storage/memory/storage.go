package memory

import (
	"context"
	"sync"

	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/storage"
)

// Storage is an in-memory implementation of the user store, used in tests
type Storage struct {
	mu    sync.RWMutex
	snap  storage.Snapshot
	saves int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.UserStore = (*Storage)(nil)

func (s *Storage) LoadAll(ctx context.Context) (*storage.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(&s.snap), nil
}

func (s *Storage) SaveAll(ctx context.Context, snap *storage.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = *copySnapshot(snap)
	s.saves++
	return nil
}

// SaveCount is a test helper returning how many times SaveAll has run
func (s *Storage) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// User is a test helper returning a stored user record by id
func (s *Storage) User(id model.UserID) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.snap.Users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func copySnapshot(snap *storage.Snapshot) *storage.Snapshot {
	out := &storage.Snapshot{
		NextUserID: snap.NextUserID,
		Users:      make([]model.User, len(snap.Users)),
	}
	copy(out.Users, snap.Users)
	return out
}
