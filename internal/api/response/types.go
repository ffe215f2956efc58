package response

import (
	"time"

	"github.com/mcoot/rpsarena-go/internal/model"
)

// User represents a user in API responses. The password hash never leaves
// the server.
type User struct {
	ID         uint64  `json:"id"`
	Username   string  `json:"username"`
	Nickname   string  `json:"nickname"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	TotalGames int     `json:"total_games"`
	Winrate    float64 `json:"winrate"`
	ArenaID    *uint64 `json:"arena_id,omitempty"`
	Role       string  `json:"role,omitempty"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u model.User) User {
	user := User{
		ID:         uint64(u.ID),
		Username:   u.Username,
		Nickname:   u.Nickname(),
		Wins:       u.Wins,
		Losses:     u.Losses,
		TotalGames: u.TotalGames,
		Winrate:    u.Winrate(),
		Role:       string(u.Role),
	}
	if u.ArenaID != nil {
		id := uint64(*u.ArenaID)
		user.ArenaID = &id
	}
	return user
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// ArenaSummary represents an arena in lobby listings
type ArenaSummary struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Creator       string    `json:"creator"`
	Player1       *string   `json:"player1"`
	Player2       *string   `json:"player2"`
	Spectators    []string  `json:"spectators"`
	Attacker      int       `json:"attacker"`
	PhaseDeadline time.Time `json:"phase_deadline"`
	Finished      bool      `json:"finished"`
}

// ArenaSummaryFromModel converts model.ArenaSummary
func ArenaSummaryFromModel(s model.ArenaSummary) ArenaSummary {
	return ArenaSummary{
		ID:            uint64(s.ID),
		Name:          s.Name,
		Creator:       s.Creator,
		Player1:       s.Player1,
		Player2:       s.Player2,
		Spectators:    s.Spectators,
		Attacker:      int(s.Attacker),
		PhaseDeadline: s.PhaseDeadline,
		Finished:      s.Finished,
	}
}

// JoinArenaResponse is the response for create and join endpoints
type JoinArenaResponse struct {
	Arena ArenaSummary `json:"arena"`
	Role  string       `json:"role"`
}

// ArenaState represents the in-round view of an arena. Pending move values
// are never exposed, only whether each player has thrown.
type ArenaState struct {
	Arena          ArenaSummary `json:"arena"`
	MoveP1Present  bool         `json:"move_p1_present"`
	MoveP2Present  bool         `json:"move_p2_present"`
	Attacker       int          `json:"attacker"`
	Finished       bool         `json:"finished"`
	WinnerNickname *string      `json:"winner,omitempty"`
}

// ArenaStateFromModel converts model.ArenaState
func ArenaStateFromModel(s model.ArenaState) ArenaState {
	return ArenaState{
		Arena:          ArenaSummaryFromModel(s.Summary),
		MoveP1Present:  s.MoveP1Present,
		MoveP2Present:  s.MoveP2Present,
		Attacker:       int(s.Attacker),
		Finished:       s.Finished,
		WinnerNickname: s.WinnerNickname,
	}
}

// LobbyState is the response for the lobby view
type LobbyState struct {
	User   User           `json:"user"`
	Arenas []ArenaSummary `json:"arenas"`
}

// LobbyStateFromModel converts model.LobbyState
func LobbyStateFromModel(l model.LobbyState) LobbyState {
	arenas := make([]ArenaSummary, len(l.Arenas))
	for i, a := range l.Arenas {
		arenas[i] = ArenaSummaryFromModel(a)
	}
	return LobbyState{
		User:   UserFromModel(l.User),
		Arenas: arenas,
	}
}

// ChatMessage represents a chat message
type ChatMessage struct {
	ID     uint64    `json:"id"`
	Nick   string    `json:"nick"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// ChatMessages is the response for chat fetches; LatestID feeds the next
// poll's since parameter.
type ChatMessages struct {
	Messages []ChatMessage `json:"messages"`
	LatestID uint64        `json:"latest_id"`
}

// ChatMessagesFromModel converts a slice of model.ChatMessage
func ChatMessagesFromModel(msgs []model.ChatMessage, latestID uint64) ChatMessages {
	out := make([]ChatMessage, len(msgs))
	for i, m := range msgs {
		out[i] = ChatMessage{
			ID:     m.ID,
			Nick:   m.Nick,
			Text:   m.Text,
			SentAt: m.SentAt,
		}
	}
	return ChatMessages{Messages: out, LatestID: latestID}
}
