package storage

import (
	"context"

	"github.com/mcoot/rpsarena-go/internal/model"
)

// Snapshot is the full persisted account state: every user record plus
// the id counter, so ids stay monotonic across restarts.
type Snapshot struct {
	NextUserID model.UserID
	Users      []model.User
}

// UserStore persists user records. LoadAll is called once at startup;
// SaveAll after every stat mutation and at shutdown. Saves are best-effort
// from the caller's perspective: an error must never roll back the
// in-memory transition that triggered it.
type UserStore interface {
	LoadAll(ctx context.Context) (*Snapshot, error)
	SaveAll(ctx context.Context, snap *Snapshot) error
}
