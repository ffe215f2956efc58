package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/services/chat"
	"github.com/mcoot/rpsarena-go/internal/storage"
)

// Errors
var (
	ErrIncorrectUsername = errors.New("incorrect username")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidSession    = errors.New("invalid session token")
)

// Config holds configuration for the account service
type Config struct {
	// MaxUsers caps the id counter; account creation fails once reached.
	MaxUsers int
	// BcryptCost for password hashing; tests lower it.
	BcryptCost int
}

// DefaultConfig returns default account configuration
func DefaultConfig() Config {
	return Config{
		MaxUsers:   1000,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Service owns account records and sessions. User ids are monotonic and
// never reused; usernames may duplicate, so login scans every account
// registered under a username. Sessions never expire and multiple
// concurrent sessions per user are allowed.
type Service struct {
	store  storage.UserStore
	chat   *chat.Log
	logger *slog.Logger
	cfg    Config

	mu            sync.RWMutex
	users         map[model.UserID]*model.User
	usernameIndex map[string][]model.UserID
	sessions      map[string]model.UserID
	nextUserID    model.UserID
}

// New creates the account service and loads persisted users.
// A failed load is logged and the service starts fresh; refusing to boot
// over a torn stats file would take the whole arena service down with it.
func New(store storage.UserStore, chatLog *chat.Log, cfg Config, logger *slog.Logger) *Service {
	if cfg.MaxUsers == 0 {
		cfg.MaxUsers = DefaultConfig().MaxUsers
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}

	s := &Service{
		store:         store,
		chat:          chatLog,
		logger:        logger,
		cfg:           cfg,
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string][]model.UserID),
		sessions:      make(map[string]model.UserID),
	}

	snap, err := store.LoadAll(context.Background())
	if err != nil {
		logger.Warn("could not load persisted users, starting fresh",
			slog.String("error", err.Error()))
		return s
	}

	s.nextUserID = snap.NextUserID
	for _, u := range snap.Users {
		record := u
		record.ArenaID = nil
		record.Role = ""
		s.users[record.ID] = &record
		s.usernameIndex[record.Username] = append(s.usernameIndex[record.Username], record.ID)
	}
	return s
}

// CreateAccount registers a new user and issues a session token.
// Duplicate usernames are allowed; identity is by id, not username.
func (s *Service) CreateAccount(ctx context.Context, username, password string) (string, model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return "", model.User{}, model.ErrCredentialsRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", model.User{}, err
	}

	s.mu.Lock()
	if int(s.nextUserID) >= s.cfg.MaxUsers {
		s.mu.Unlock()
		return "", model.User{}, model.ErrUserIDsExhausted
	}

	user := &model.User{
		ID:           s.nextUserID,
		Username:     username,
		PasswordHash: string(hash),
	}
	s.nextUserID++
	s.users[user.ID] = user
	s.usernameIndex[username] = append(s.usernameIndex[username], user.ID)
	token := s.newSessionLocked(user.ID)
	snapshot := cloneUser(user)
	s.mu.Unlock()

	s.chat.PostLobbySystem(fmt.Sprintf("%s joined the arena service.", snapshot.Nickname()))
	s.Persist(ctx)

	return token, snapshot, nil
}

// Login authenticates against every account registered under the
// username, succeeding on the first credential match.
func (s *Service) Login(ctx context.Context, username, password string) (string, model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.usernameIndex[username]
	if len(ids) == 0 {
		return "", model.User{}, ErrIncorrectUsername
	}

	for _, id := range ids {
		user, ok := s.users[id]
		if !ok {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
			token := s.newSessionLocked(id)
			return token, cloneUser(user), nil
		}
	}
	return "", model.User{}, ErrIncorrectPassword
}

// Authenticate resolves a session token to its user
func (s *Service) Authenticate(token string) (model.User, error) {
	if token == "" {
		return model.User{}, ErrInvalidSession
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.sessions[token]
	if !ok {
		return model.User{}, ErrInvalidSession
	}
	user, ok := s.users[id]
	if !ok {
		return model.User{}, ErrInvalidSession
	}
	return cloneUser(user), nil
}

// Get returns a snapshot of a user record
func (s *Service) Get(id model.UserID) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// Nickname returns a user's display name, or "unknown" for a missing id
func (s *Service) Nickname(id model.UserID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return "unknown"
	}
	return user.Nickname()
}

// CurrentArena reports the arena the user currently occupies, if any
func (s *Service) CurrentArena(id model.UserID) (model.ArenaID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok || user.ArenaID == nil {
		return 0, false
	}
	return *user.ArenaID, true
}

// SetArena records that the user now holds a slot in the given arena
func (s *Service) SetArena(id model.UserID, arenaID model.ArenaID, role model.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[id]; ok {
		a := arenaID
		user.ArenaID = &a
		user.Role = role
	}
}

// ClearArena releases the user back to an unassigned state
func (s *Service) ClearArena(id model.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[id]; ok {
		user.ArenaID = nil
		user.Role = ""
	}
}

// RecordResult applies a finished match to both users' stats
func (s *Service) RecordResult(winnerID, loserID model.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if winner, ok := s.users[winnerID]; ok {
		winner.Wins++
		winner.TotalGames++
	}
	if loser, ok := s.users[loserID]; ok {
		loser.Losses++
		loser.TotalGames++
	}
}

// Persist writes all user records to the store. Best-effort: failures are
// logged and never propagate to the state transition that triggered them.
func (s *Service) Persist(ctx context.Context) {
	s.mu.RLock()
	snap := &storage.Snapshot{
		NextUserID: s.nextUserID,
		Users:      make([]model.User, 0, len(s.users)),
	}
	for _, u := range s.users {
		snap.Users = append(snap.Users, cloneUser(u))
	}
	s.mu.RUnlock()

	sort.Slice(snap.Users, func(i, j int) bool {
		return snap.Users[i].ID < snap.Users[j].ID
	})

	if err := s.store.SaveAll(ctx, snap); err != nil {
		s.logger.Warn("could not persist user stats", slog.String("error", err.Error()))
	}
}

// newSessionLocked issues a token; callers hold s.mu
func (s *Service) newSessionLocked(id model.UserID) string {
	token := uuid.NewString()
	s.sessions[token] = id
	return token
}

func cloneUser(u *model.User) model.User {
	c := *u
	if u.ArenaID != nil {
		a := *u.ArenaID
		c.ArenaID = &a
	}
	return c
}
