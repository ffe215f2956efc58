package model

import "time"

// ArenaID is the unique, monotonically assigned identifier of an arena (>= 1)
type ArenaID uint64

// Slot identifies a player slot within an arena
type Slot int

const (
	SlotNone    Slot = 0
	SlotPlayer1 Slot = 1
	SlotPlayer2 Slot = 2
)

// PhaseWindow is how long players have to submit their moves before
// the phase deadline elapses.
const PhaseWindow = 15 * time.Second

// Arena is one game session: two player slots, any number of spectators,
// and the round state driven by the attacker state machine.
type Arena struct {
	ID         ArenaID
	Name       string
	CreatorID  UserID
	Player1    *UserID
	Player2    *UserID
	Spectators map[UserID]struct{}

	// Attacker is the slot that won the most recent non-tied round.
	// A tie while an attacker is set ends the match in the attacker's favor.
	Attacker      Slot
	MoveP1        Move
	MoveP2        Move
	PhaseDeadline time.Time
	Finished      bool
	Winner        *UserID
}

// NewArena creates an arena with the creator seated as player1
func NewArena(id ArenaID, name string, creator UserID, now time.Time) *Arena {
	c := creator
	return &Arena{
		ID:            id,
		Name:          name,
		CreatorID:     creator,
		Player1:       &c,
		Spectators:    make(map[UserID]struct{}),
		Attacker:      SlotNone,
		PhaseDeadline: now.Add(PhaseWindow),
	}
}

// ResetPhase clears both pending moves and extends the deadline from now
func (a *Arena) ResetPhase(now time.Time) {
	a.MoveP1 = ""
	a.MoveP2 = ""
	a.PhaseDeadline = now.Add(PhaseWindow)
}

// PlayerSlot returns which player slot the user occupies, or SlotNone
func (a *Arena) PlayerSlot(id UserID) Slot {
	if a.Player1 != nil && *a.Player1 == id {
		return SlotPlayer1
	}
	if a.Player2 != nil && *a.Player2 == id {
		return SlotPlayer2
	}
	return SlotNone
}

// SlotUser returns the user seated in the given slot, or nil
func (a *Arena) SlotUser(slot Slot) *UserID {
	switch slot {
	case SlotPlayer1:
		return a.Player1
	case SlotPlayer2:
		return a.Player2
	}
	return nil
}

// ArenaSummary is an owned snapshot of an arena's membership, safe to
// return to callers. Player fields hold nicknames; nil means vacant.
type ArenaSummary struct {
	ID            ArenaID
	Name          string
	Creator       string
	Player1       *string
	Player2       *string
	Spectators    []string
	Attacker      Slot
	PhaseDeadline time.Time
	Finished      bool
}

// ArenaState is the poll response for one arena: the summary plus
// move-presence flags. Move values themselves are never exposed.
type ArenaState struct {
	Summary        ArenaSummary
	MoveP1Present  bool
	MoveP2Present  bool
	Attacker       Slot
	Finished       bool
	WinnerNickname *string
}

// LobbyState is the lobby view: the caller's record and all live arenas
type LobbyState struct {
	User   User
	Arenas []ArenaSummary
}
