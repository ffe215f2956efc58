package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mcoot/rpsarena-go/internal/api/middleware"
	"github.com/mcoot/rpsarena-go/internal/api/request"
	"github.com/mcoot/rpsarena-go/internal/api/response"
	"github.com/mcoot/rpsarena-go/internal/services/arena"
	"github.com/mcoot/rpsarena-go/internal/services/chat"
)

// LobbyHandler handles lobby-related endpoints
type LobbyHandler struct {
	arenas *arena.Controller
	chat   *chat.Log
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(arenas *arena.Controller, chatLog *chat.Log) *LobbyHandler {
	return &LobbyHandler{
		arenas: arenas,
		chat:   chatLog,
	}
}

// Get handles GET /api/v1/lobby
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	lobby, err := h.arenas.LobbyState(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyStateFromModel(lobby))
}

// GetChat handles GET /api/v1/lobby/chat.
// With wait=true the request long-polls until a message newer than since
// arrives or the client gives up.
func (h *LobbyHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	since, err := chatSince(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if chatWait(r) {
		messages, latest := h.chat.WaitLobby(r.Context(), since)
		response.JSON(w, http.StatusOK, response.ChatMessagesFromModel(messages, latest))
		return
	}

	messages, latest := h.chat.LobbySince(since)
	response.JSON(w, http.StatusOK, response.ChatMessagesFromModel(messages, latest))
}

// PostChat handles POST /api/v1/lobby/chat
func (h *LobbyHandler) PostChat(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.ChatPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		WriteError(w, NewInvalidRequestError("text is required"))
		return
	}

	msg := h.chat.PostLobby(user.Nickname(), req.Text)
	response.JSON(w, http.StatusCreated, response.ChatMessagesFromModel(nil, msg.ID))
}

// chatSince parses the since query parameter, defaulting to 0
func chatSince(r *http.Request) (uint64, error) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return 0, nil
	}
	since, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, NewInvalidRequestError("since must be a message id")
	}
	return since, nil
}

// chatWait reports whether the request asked to long-poll
func chatWait(r *http.Request) bool {
	return r.URL.Query().Get("wait") == "true"
}
