package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/rpsarena-go/internal/dependencies/clock"
	"github.com/mcoot/rpsarena-go/internal/services/account"
	"github.com/mcoot/rpsarena-go/internal/services/arena"
	"github.com/mcoot/rpsarena-go/internal/services/chat"
	"github.com/mcoot/rpsarena-go/internal/storage"
	filestorage "github.com/mcoot/rpsarena-go/internal/storage/file"
	"github.com/mcoot/rpsarena-go/internal/storage/memory"
	redisstorage "github.com/mcoot/rpsarena-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.UserStore

	// External dependencies
	Clock clock.Clock

	// Services
	Chat     *chat.Log
	Accounts *account.Service
	Arenas   *arena.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// AccountConfig holds configuration for the account service (optional)
	// If zero value, defaults to account.DefaultConfig()
	AccountConfig account.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "file" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// DataFile is the stats file path (required if StorageType is "file")
	DataFile string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.UserStore
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeFile:
		if cfg.DataFile == "" {
			return nil, errors.New("DataFile required when StorageType is file")
		}
		store = filestorage.New(cfg.DataFile)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'file' or 'redis'")
	}

	// Use default account config if not provided
	accountCfg := cfg.AccountConfig
	if accountCfg.MaxUsers == 0 {
		accountCfg = account.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), accountCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.UserStore, clk clock.Clock, accountCfg account.Config, logger *slog.Logger) *App {
	chatLog := chat.New(clk)
	accounts := account.New(store, chatLog, accountCfg, logger)
	arenas := arena.NewController(accounts, chatLog, clk, logger)

	return &App{
		Store:    store,
		Clock:    clk,
		Chat:     chatLog,
		Accounts: accounts,
		Arenas:   arenas,
	}
}

// Shutdown flushes user stats and releases storage resources
func (a *App) Shutdown(ctx context.Context) {
	a.Accounts.Persist(ctx)
	if closer, ok := a.Store.(io.Closer); ok {
		_ = closer.Close()
	}
}
