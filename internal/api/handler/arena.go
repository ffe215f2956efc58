package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsarena-go/internal/api/middleware"
	"github.com/mcoot/rpsarena-go/internal/api/request"
	"github.com/mcoot/rpsarena-go/internal/api/response"
	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/services/arena"
	"github.com/mcoot/rpsarena-go/internal/services/chat"
)

// ArenaHandler handles arena-related endpoints
type ArenaHandler struct {
	arenas *arena.Controller
	chat   *chat.Log
}

// NewArenaHandler creates a new arena handler
func NewArenaHandler(arenas *arena.Controller, chatLog *chat.Log) *ArenaHandler {
	return &ArenaHandler{
		arenas: arenas,
		chat:   chatLog,
	}
}

// Create handles POST /api/v1/arenas
func (h *ArenaHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateArenaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	summary, role, err := h.arenas.CreateArena(r.Context(), user.ID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.JoinArenaResponse{
		Arena: response.ArenaSummaryFromModel(summary),
		Role:  string(role),
	})
}

// Get handles GET /api/v1/arenas/{id}
func (h *ArenaHandler) Get(w http.ResponseWriter, r *http.Request) {
	arenaID, err := arenaIDVar(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.arenas.ArenaState(r.Context(), arenaID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ArenaStateFromModel(state))
}

// Join handles POST /api/v1/arenas/{id}/join
func (h *ArenaHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	arenaID, err := arenaIDVar(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.JoinArenaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body; spectate by default
		req = request.JoinArenaRequest{}
	}

	summary, role, err := h.arenas.JoinArena(r.Context(), user.ID, arenaID, req.Role)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinArenaResponse{
		Arena: response.ArenaSummaryFromModel(summary),
		Role:  string(role),
	})
}

// Leave handles POST /api/v1/arenas/{id}/leave
func (h *ArenaHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	arenaID, err := arenaIDVar(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.arenas.LeaveArena(r.Context(), user.ID, arenaID, "left")
	response.NoContent(w)
}

// Move handles POST /api/v1/arenas/{id}/move
func (h *ArenaHandler) Move(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	arenaID, err := arenaIDVar(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.arenas.SubmitMove(r.Context(), user.ID, arenaID, req.Move); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// GetChat handles GET /api/v1/arenas/{id}/chat
func (h *ArenaHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	arenaID, err := arenaIDVar(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	since, err := chatSince(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if chatWait(r) {
		messages, latest := h.chat.WaitArena(r.Context(), arenaID, since)
		response.JSON(w, http.StatusOK, response.ChatMessagesFromModel(messages, latest))
		return
	}

	messages, latest := h.chat.ArenaSince(arenaID, since)
	response.JSON(w, http.StatusOK, response.ChatMessagesFromModel(messages, latest))
}

// PostChat handles POST /api/v1/arenas/{id}/chat
func (h *ArenaHandler) PostChat(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	arenaID, err := arenaIDVar(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.ChatPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		WriteError(w, NewInvalidRequestError("text is required"))
		return
	}

	msg := h.chat.PostArena(arenaID, user.Nickname(), req.Text)
	response.JSON(w, http.StatusCreated, response.ChatMessagesFromModel(nil, msg.ID))
}

// arenaIDVar parses the {id} path variable
func arenaIDVar(r *http.Request) (model.ArenaID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, NewInvalidRequestError("arena id must be numeric")
	}
	return model.ArenaID(id), nil
}
