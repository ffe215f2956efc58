package arena

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/rpsarena-go/internal/model"
)

// resolveLocked runs one resolution check against the current clock and
// pending moves, returning true if the arena finalized. Callers hold c.mu.
//
// Deadline expiry is handled first: with exactly one move submitted the
// mover wins by timeout, and with none the phase resets in place without
// the attacker changing hands. With both moves present an expired
// deadline is ignored and the pair resolves normally below.
//
// A tie while no attacker is designated resets the phase. The first
// decisive round designates the winner as attacker and resets for
// another throw. Once an attacker holds the designation, a tie ends the
// match in the attacker's favor; a decisive round hands the designation
// to that round's winner and play continues.
func (c *Controller) resolveLocked(a *model.Arena) bool {
	if a.Finished {
		return false
	}

	now := c.clock.Now()
	if now.After(a.PhaseDeadline) {
		switch {
		case a.MoveP1 != "" && a.MoveP2 == "":
			c.finishLocked(a, model.SlotPlayer1, "timeout", nil)
			return true
		case a.MoveP2 != "" && a.MoveP1 == "":
			c.finishLocked(a, model.SlotPlayer2, "timeout", nil)
			return true
		case a.MoveP1 == "" && a.MoveP2 == "":
			a.ResetPhase(now)
			return false
		}
	}

	if a.MoveP1 == "" || a.MoveP2 == "" {
		return false
	}

	round := model.CompareMoves(a.MoveP1, a.MoveP2)
	switch {
	case round == model.SlotNone && a.Attacker == model.SlotNone:
		a.ResetPhase(now)
	case round == model.SlotNone:
		c.finishLocked(a, a.Attacker, "tie as attacker", nil)
		return true
	default:
		a.Attacker = round
		a.ResetPhase(now)
	}
	return false
}

// finishLocked ends the match, records stats exactly once, releases every
// occupant, and removes the arena from the registry. departedLoser names
// a player who already vacated their slot but still takes the loss, which
// happens on forfeit. Callers hold c.mu and persist stats after unlock.
func (c *Controller) finishLocked(a *model.Arena, winnerSlot model.Slot, reason string, departedLoser *model.UserID) {
	a.Finished = true

	if w := a.SlotUser(winnerSlot); w != nil {
		id := *w
		a.Winner = &id
	}

	switch {
	case a.Player1 != nil && a.Player2 != nil:
		winner, loser := *a.Player1, *a.Player2
		if winnerSlot == model.SlotPlayer2 {
			winner, loser = loser, winner
		}
		c.accounts.RecordResult(winner, loser)
	case a.Winner != nil && departedLoser != nil:
		c.accounts.RecordResult(*a.Winner, *departedLoser)
	}

	if a.Winner != nil {
		c.chat.PostLobbySystem(fmt.Sprintf("%s wins Arena [%s] (%s)",
			c.accounts.Nickname(*a.Winner), a.Name, reason))
	}

	for _, p := range []*model.UserID{a.Player1, a.Player2} {
		if p == nil {
			continue
		}
		c.accounts.ClearArena(*p)
		c.chat.PostLobbySystem(fmt.Sprintf("%s returned from Arena [%s] (%s)",
			c.accounts.Nickname(*p), a.Name, reason))
	}
	for uid := range a.Spectators {
		c.accounts.ClearArena(uid)
		c.chat.PostLobbySystem(fmt.Sprintf("%s returned from Arena [%s] (%s)",
			c.accounts.Nickname(uid), a.Name, reason))
	}

	delete(c.arenas, a.ID)
	c.chat.DropArena(a.ID)

	c.logger.Info("arena finished",
		slog.Uint64("arena_id", uint64(a.ID)),
		slog.String("reason", reason))
}
