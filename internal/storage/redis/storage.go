package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/storage"
)

// Storage is a Redis-backed implementation of the user store
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
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

func (s *Storage) LoadAll(ctx context.Context) (*storage.Snapshot, error) {
	snap := &storage.Snapshot{}

	next, err := s.client.Get(ctx, nextUserIDKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	if next != "" {
		n, err := strconv.ParseUint(next, 10, 64)
		if err != nil {
			return nil, err
		}
		snap.NextUserID = model.UserID(n)
	}

	ids, err := s.client.SMembers(ctx, userIDsKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return snap, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return nil, err
		}
		keys[i] = userKey(model.UserID(n))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			// Id set and record keys drifted apart; skip the hole
			continue
		}
		var rec userRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, err
		}
		snap.Users = append(snap.Users, model.User{
			ID:           rec.UserID,
			Username:     rec.Username,
			PasswordHash: rec.PasswordHash,
			Wins:         rec.Wins,
			Losses:       rec.Losses,
			TotalGames:   rec.TotalGames,
		})
	}

	sort.Slice(snap.Users, func(i, j int) bool {
		return snap.Users[i].ID < snap.Users[j].ID
	})

	return snap, nil
}

func (s *Storage) SaveAll(ctx context.Context, snap *storage.Snapshot) error {
	pipe := s.client.TxPipeline()

	pipe.Set(ctx, nextUserIDKey(), uint64(snap.NextUserID), 0)
	for _, u := range snap.Users {
		data, err := json.Marshal(userRecord{
			UserID:       u.ID,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Wins:         u.Wins,
			Losses:       u.Losses,
			TotalGames:   u.TotalGames,
		})
		if err != nil {
			return err
		}
		pipe.Set(ctx, userKey(u.ID), data, 0)
		pipe.SAdd(ctx, userIDsKey(), uint64(u.ID))
	}

	_, err := pipe.Exec(ctx)
	return err
}
