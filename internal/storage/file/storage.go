package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/storage"
)

// Storage persists user records as a single JSON snapshot on disk.
// Arena membership is volatile and never written; only identity,
// credentials, and stats survive a restart.
type Storage struct {
	path string
}

// New creates a file storage writing to the given path
func New(path string) *Storage {
	return &Storage{path: path}
}

// Ensure Storage implements the interface
var _ storage.UserStore = (*Storage)(nil)

type userRecord struct {
	UserID       model.UserID `json:"user_id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"password_hash"`
	Wins         int          `json:"wins"`
	Losses       int          `json:"losses"`
	TotalGames   int          `json:"total_games"`
}

type snapshotRecord struct {
	NextUserID model.UserID `json:"next_user_id"`
	Users      []userRecord `json:"users"`
}

func (s *Storage) LoadAll(ctx context.Context) (*storage.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &storage.Snapshot{}, nil
		}
		return nil, err
	}

	var rec snapshotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	snap := &storage.Snapshot{
		NextUserID: rec.NextUserID,
		Users:      make([]model.User, len(rec.Users)),
	}
	for i, u := range rec.Users {
		snap.Users[i] = model.User{
			ID:           u.UserID,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Wins:         u.Wins,
			Losses:       u.Losses,
			TotalGames:   u.TotalGames,
		}
	}
	return snap, nil
}

func (s *Storage) SaveAll(ctx context.Context, snap *storage.Snapshot) error {
	rec := snapshotRecord{
		NextUserID: snap.NextUserID,
		Users:      make([]userRecord, len(snap.Users)),
	}
	for i, u := range snap.Users {
		rec.Users[i] = userRecord{
			UserID:       u.ID,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Wins:         u.Wins,
			Losses:       u.Losses,
			TotalGames:   u.TotalGames,
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	// Write-then-rename so a crash mid-save never leaves a torn file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
