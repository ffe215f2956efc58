package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsarena-go/internal/api/handler"
	"github.com/mcoot/rpsarena-go/internal/api/middleware"
	"github.com/mcoot/rpsarena-go/internal/services/account"
	"github.com/mcoot/rpsarena-go/internal/services/arena"
	"github.com/mcoot/rpsarena-go/internal/services/chat"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Accounts *account.Service
	Arenas   *arena.Controller
	Chat     *chat.Log
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.Accounts)
	lobbyHandler := handler.NewLobbyHandler(cfg.Arenas, cfg.Chat)
	arenaHandler := handler.NewArenaHandler(cfg.Arenas, cfg.Chat)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Accounts)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required for signing up/logging in)
	api.HandleFunc("/accounts", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)

	// Protected account routes
	accountProtected := api.PathPrefix("/accounts").Subrouter()
	accountProtected.Use(authMiddleware)
	accountProtected.HandleFunc("/me", accountHandler.GetMe).Methods(http.MethodGet)

	// Lobby routes (all require auth)
	lobby := api.PathPrefix("/lobby").Subrouter()
	lobby.Use(authMiddleware)
	lobby.HandleFunc("", lobbyHandler.Get).Methods(http.MethodGet)
	lobby.HandleFunc("/chat", lobbyHandler.GetChat).Methods(http.MethodGet)
	lobby.HandleFunc("/chat", lobbyHandler.PostChat).Methods(http.MethodPost)

	// Arena routes (all require auth)
	arenas := api.PathPrefix("/arenas").Subrouter()
	arenas.Use(authMiddleware)
	arenas.HandleFunc("", arenaHandler.Create).Methods(http.MethodPost)
	arenas.HandleFunc("/{id}", arenaHandler.Get).Methods(http.MethodGet)
	arenas.HandleFunc("/{id}/join", arenaHandler.Join).Methods(http.MethodPost)
	arenas.HandleFunc("/{id}/leave", arenaHandler.Leave).Methods(http.MethodPost)
	arenas.HandleFunc("/{id}/move", arenaHandler.Move).Methods(http.MethodPost)
	arenas.HandleFunc("/{id}/chat", arenaHandler.GetChat).Methods(http.MethodGet)
	arenas.HandleFunc("/{id}/chat", arenaHandler.PostChat).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
