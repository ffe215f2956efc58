package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case LobbyState:
		o.printLobbyState(v)
	case JoinResult:
		o.printJoinResult(v)
	case ArenaState:
		o.printArenaState(v)
	case ChatMessages:
		o.printChatMessages(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
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

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// ArenaSummary response type
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

// LobbyState response type
type LobbyState struct {
	User   User           `json:"user"`
	Arenas []ArenaSummary `json:"arenas"`
}

// JoinResult is the response for create and join
type JoinResult struct {
	Arena ArenaSummary `json:"arena"`
	Role  string       `json:"role"`
}

// ArenaState response type
type ArenaState struct {
	Arena          ArenaSummary `json:"arena"`
	MoveP1Present  bool         `json:"move_p1_present"`
	MoveP2Present  bool         `json:"move_p2_present"`
	Attacker       int          `json:"attacker"`
	Finished       bool         `json:"finished"`
	WinnerNickname *string      `json:"winner,omitempty"`
}

// ChatMessage response type
type ChatMessage struct {
	ID     uint64    `json:"id"`
	Nick   string    `json:"nick"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// ChatMessages response type
type ChatMessages struct {
	Messages []ChatMessage `json:"messages"`
	LatestID uint64        `json:"latest_id"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("Nickname:  %s\n", u.Nickname)
	fmt.Printf("Record:    %dW / %dL (%d games, %.0f%% winrate)\n",
		u.Wins, u.Losses, u.TotalGames, u.Winrate)
	if u.ArenaID != nil {
		fmt.Printf("In arena:  %d (%s)\n", *u.ArenaID, u.Role)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token:     %s\n", a.SessionToken)
}

func (o *Output) printLobbyState(l LobbyState) {
	o.printUser(l.User)
	fmt.Println()
	if len(l.Arenas) == 0 {
		fmt.Println("No arenas open.")
		return
	}
	fmt.Println("Arenas:")
	for _, a := range l.Arenas {
		fmt.Printf("  [%d] %s  %s\n", a.ID, a.Name, seatLine(a))
	}
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Printf("Joined Arena [%s] as %s\n", j.Arena.Name, j.Role)
	fmt.Printf("  %s\n", seatLine(j.Arena))
}

func (o *Output) printArenaState(s ArenaState) {
	fmt.Printf("Arena [%s]  %s\n", s.Arena.Name, seatLine(s.Arena))
	if s.Finished {
		winner := "nobody"
		if s.WinnerNickname != nil {
			winner = *s.WinnerNickname
		}
		fmt.Printf("Finished - winner: %s\n", winner)
		return
	}
	fmt.Printf("Moves in:  p1=%s p2=%s\n", thrownMark(s.MoveP1Present), thrownMark(s.MoveP2Present))
	fmt.Printf("Attacker:  %s\n", attackerName(s.Attacker))
	fmt.Printf("Deadline:  %s\n", s.Arena.PhaseDeadline.Format(time.RFC3339))
}

func (o *Output) printChatMessages(c ChatMessages) {
	for _, m := range c.Messages {
		fmt.Printf("[%s] %s: %s\n", m.SentAt.Format("15:04:05"), m.Nick, m.Text)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func seatLine(a ArenaSummary) string {
	p1, p2 := "-", "-"
	if a.Player1 != nil {
		p1 = *a.Player1
	}
	if a.Player2 != nil {
		p2 = *a.Player2
	}
	line := fmt.Sprintf("%s vs %s", p1, p2)
	if len(a.Spectators) > 0 {
		line += fmt.Sprintf(" (watching: %s)", strings.Join(a.Spectators, ", "))
	}
	return line
}

func thrownMark(present bool) string {
	if present {
		return "thrown"
	}
	return "waiting"
}

func attackerName(slot int) string {
	switch slot {
	case 1:
		return "player1"
	case 2:
		return "player2"
	default:
		return "none"
	}
}
