package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rpsarena-go/internal/api"
	"github.com/mcoot/rpsarena-go/internal/api/response"
	"github.com/mcoot/rpsarena-go/internal/factory"
	"github.com/mcoot/rpsarena-go/internal/services/account"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use the production factory with a
	// real clock and in-memory storage
	app, err := factory.New(factory.Config{
		AccountConfig: account.Config{
			MaxUsers:   1000,
			BcryptCost: bcrypt.MinCost,
		},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Accounts: app.Accounts,
		Arenas:   app.Arenas,
		Chat:     app.Chat,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// register creates an account and returns the session token and nickname
func (ts *testServer) register(t *testing.T, username string) (string, string) {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/accounts",
		map[string]string{"username": username, "password": "pw"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.SessionToken, resp.User.Nickname
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterAccount(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/accounts",
		map[string]string{"username": "alice", "password": "secret"}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice#000", resp.User.Nickname)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/accounts",
		map[string]string{"username": "", "password": "secret"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/accounts/login",
		map[string]string{"username": "alice", "password": "pw"}, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/accounts/login",
		map[string]string{"username": "alice", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_CREDENTIALS")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/accounts/me", "/api/v1/lobby", "/api/v1/arenas/1"} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := ts.request(http.MethodGet, "/api/v1/lobby", nil, "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	token, nick := ts.register(t, "alice")

	rr := ts.request(http.MethodGet, "/api/v1/accounts/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, nick, user.Nickname)
	assert.Zero(t, user.TotalGames)
}

func TestArenaLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, _ := ts.register(t, "alice")
	bobToken, bobNick := ts.register(t, "bob")

	// Alice opens an arena
	rr := ts.request(http.MethodPost, "/api/v1/arenas",
		map[string]string{"name": "The Pit"}, aliceToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created response.JoinArenaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "player1", created.Role)
	arenaPath := fmt.Sprintf("/api/v1/arenas/%d", created.Arena.ID)

	// It shows up in the lobby
	rr = ts.request(http.MethodGet, "/api/v1/lobby", nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var lobby response.LobbyState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lobby))
	require.Len(t, lobby.Arenas, 1)
	assert.Equal(t, "The Pit", lobby.Arenas[0].Name)

	// Bob joins as the second player
	rr = ts.request(http.MethodPost, arenaPath+"/join",
		map[string]string{"role": "player"}, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var joined response.JoinArenaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &joined))
	assert.Equal(t, "player2", joined.Role)

	// A third player slot does not exist
	carolToken, _ := ts.register(t, "carol")
	rr = ts.request(http.MethodPost, arenaPath+"/join",
		map[string]string{"role": "player"}, carolToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ARENA_FULL")

	// Bob beats alice, then ties to win as attacker
	for _, move := range []struct{ token, move string }{
		{aliceToken, "rock"},
		{bobToken, "paper"},
		{aliceToken, "scissor"},
		{bobToken, "scissor"},
	} {
		rr = ts.request(http.MethodPost, arenaPath+"/move",
			map[string]string{"move": move.move}, move.token)
		require.Equal(t, http.StatusNoContent, rr.Code)
	}

	// The arena is gone and bob has the win
	rr = ts.request(http.MethodGet, arenaPath, nil, aliceToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/accounts/me", nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var bob response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bob))
	assert.Equal(t, bobNick, bob.Nickname)
	assert.Equal(t, 1, bob.Wins)
}

func TestArenaStateHidesMoves(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, _ := ts.register(t, "alice")
	bobToken, _ := ts.register(t, "bob")

	rr := ts.request(http.MethodPost, "/api/v1/arenas",
		map[string]string{"name": "Pit"}, aliceToken)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created response.JoinArenaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	arenaPath := fmt.Sprintf("/api/v1/arenas/%d", created.Arena.ID)

	rr = ts.request(http.MethodPost, arenaPath+"/join",
		map[string]string{"role": "player"}, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, arenaPath+"/move",
		map[string]string{"move": "rock"}, aliceToken)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, arenaPath, nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var state response.ArenaState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.True(t, state.MoveP1Present)
	assert.False(t, state.MoveP2Present)
	assert.NotContains(t, rr.Body.String(), "rock")
}

func TestMoveValidationOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, _ := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/arenas",
		map[string]string{"name": "Pit"}, aliceToken)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created response.JoinArenaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = ts.request(http.MethodPost, fmt.Sprintf("/api/v1/arenas/%d/move", created.Arena.ID),
		map[string]string{"move": "lizard"}, aliceToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_MOVE")

	rr = ts.request(http.MethodPost, "/api/v1/arenas/999/move",
		map[string]string{"move": "rock"}, aliceToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "ARENA_NOT_FOUND")
}

func TestLobbyChat(t *testing.T) {
	ts := newTestServer(t)
	token, nick := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/lobby/chat",
		map[string]string{"text": "hello"}, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/lobby/chat", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var msgs response.ChatMessages
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msgs))
	require.NotEmpty(t, msgs.Messages)

	last := msgs.Messages[len(msgs.Messages)-1]
	assert.Equal(t, nick, last.Nick)
	assert.Equal(t, "hello", last.Text)

	// Fetching past the latest id returns nothing new
	rr = ts.request(http.MethodGet,
		fmt.Sprintf("/api/v1/lobby/chat?since=%d", msgs.LatestID), nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	var empty response.ChatMessages
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &empty))
	assert.Empty(t, empty.Messages)
}

func TestArenaChatScopedToArena(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, nick := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/arenas",
		map[string]string{"name": "Pit"}, aliceToken)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created response.JoinArenaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	chatPath := fmt.Sprintf("/api/v1/arenas/%d/chat", created.Arena.ID)

	rr = ts.request(http.MethodPost, chatPath,
		map[string]string{"text": "gl hf"}, aliceToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, chatPath, nil, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var msgs response.ChatMessages
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msgs))
	require.Len(t, msgs.Messages, 1)
	assert.Equal(t, nick, msgs.Messages[0].Nick)

	// The arena message does not leak into the lobby scope
	rr = ts.request(http.MethodGet, "/api/v1/lobby/chat", nil, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "gl hf")
}

func TestLeaveArenaForfeitsOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, _ := ts.register(t, "alice")
	bobToken, _ := ts.register(t, "bob")

	rr := ts.request(http.MethodPost, "/api/v1/arenas",
		map[string]string{"name": "Pit"}, aliceToken)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created response.JoinArenaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	arenaPath := fmt.Sprintf("/api/v1/arenas/%d", created.Arena.ID)

	rr = ts.request(http.MethodPost, arenaPath+"/join",
		map[string]string{"role": "player"}, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, arenaPath+"/leave", nil, aliceToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/accounts/me", nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var bob response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bob))
	assert.Equal(t, 1, bob.Wins)
	assert.Nil(t, bob.ArenaID)
}
