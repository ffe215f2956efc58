package arena

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/mcoot/rpsarena-go/internal/dependencies/clock"
	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/services/account"
	"github.com/mcoot/rpsarena-go/internal/services/chat"
)

// Controller owns the set of live arenas and drives the round-resolution
// state machine. A single mutex serializes every arena mutation and every
// read-triggered resolution check, so game-state transitions are totally
// ordered. User bookkeeping goes through the account service, which
// serializes its own records; arena operations always take the arena lock
// first, never the other way around.
//
// Timeout detection is lazy: an expired phase transitions only when the
// next caller (mover or poller) touches the arena.
type Controller struct {
	accounts *account.Service
	chat     *chat.Log
	clock    clock.Clock
	logger   *slog.Logger

	mu          sync.Mutex
	arenas      map[model.ArenaID]*model.Arena
	nextArenaID model.ArenaID
}

// NewController creates an arena controller with no live arenas
func NewController(accounts *account.Service, chatLog *chat.Log, clk clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		accounts:    accounts,
		chat:        chatLog,
		clock:       clk,
		logger:      logger,
		arenas:      make(map[model.ArenaID]*model.Arena),
		nextArenaID: 1,
	}
}

// CreateArena opens a new arena with the creator seated as player1
func (c *Controller) CreateArena(ctx context.Context, userID model.UserID, name string) (model.ArenaSummary, model.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ArenaSummary{}, "", model.ErrArenaNameRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.accounts.CurrentArena(userID); ok {
		return model.ArenaSummary{}, "", model.ErrAlreadyInArena
	}

	id := c.nextArenaID
	c.nextArenaID++

	a := model.NewArena(id, name, userID, c.clock.Now())
	c.arenas[id] = a
	c.accounts.SetArena(userID, id, model.RolePlayer1)

	c.chat.PostLobbySystem(fmt.Sprintf("%s created Arena [%s]", c.accounts.Nickname(userID), name))
	c.logger.Info("arena created",
		slog.Uint64("arena_id", uint64(id)),
		slog.Uint64("creator_id", uint64(userID)))

	return c.summaryLocked(a), model.RolePlayer1, nil
}

// JoinArena seats the user in the arena. Role "player" takes the first
// vacant player slot; any other role value joins as spectator, which is
// the fallback with no further validation of the role string.
func (c *Controller) JoinArena(ctx context.Context, userID model.UserID, arenaID model.ArenaID, role string) (model.ArenaSummary, model.Role, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.arenas[arenaID]
	if !ok {
		return model.ArenaSummary{}, "", model.ErrArenaNotFound
	}

	if _, ok := c.accounts.CurrentArena(userID); ok {
		return model.ArenaSummary{}, "", model.ErrAlreadyInArena
	}

	var assigned model.Role
	if role == "player" {
		uid := userID
		switch {
		case a.Player1 == nil:
			a.Player1 = &uid
			assigned = model.RolePlayer1
		case a.Player2 == nil:
			a.Player2 = &uid
			assigned = model.RolePlayer2
		default:
			return model.ArenaSummary{}, "", model.ErrArenaFull
		}
	} else {
		a.Spectators[userID] = struct{}{}
		assigned = model.RoleSpectator
	}

	c.accounts.SetArena(userID, arenaID, assigned)
	c.chat.PostLobbySystem(fmt.Sprintf("%s has entered Arena [%s]", c.accounts.Nickname(userID), a.Name))

	return c.summaryLocked(a), assigned, nil
}

// LeaveArena removes the user from the arena. If the user held a player
// slot and the opponent remains seated, the match finalizes immediately
// with the opponent winning by forfeit; the departing user takes the loss
// even though their slot is already vacant. An arena with no players left
// is deleted with no stats change. Leaving a vanished arena is a no-op
// beyond clearing the user's own membership fields.
func (c *Controller) LeaveArena(ctx context.Context, userID model.UserID, arenaID model.ArenaID, reason string) {
	c.mu.Lock()

	a, ok := c.arenas[arenaID]
	if !ok {
		if cur, ok := c.accounts.CurrentArena(userID); ok && cur == arenaID {
			c.accounts.ClearArena(userID)
		}
		c.mu.Unlock()
		return
	}

	leavingSlot := a.PlayerSlot(userID)
	var opponentSeated bool
	switch leavingSlot {
	case model.SlotPlayer1:
		opponentSeated = a.Player2 != nil
		a.Player1 = nil
		a.MoveP1 = ""
	case model.SlotPlayer2:
		opponentSeated = a.Player1 != nil
		a.Player2 = nil
		a.MoveP2 = ""
	default:
		delete(a.Spectators, userID)
	}

	c.accounts.ClearArena(userID)
	c.chat.PostLobbySystem(fmt.Sprintf("%s returned from Arena [%s] (%s)",
		c.accounts.Nickname(userID), a.Name, reason))

	persist := false
	if leavingSlot != model.SlotNone && opponentSeated {
		winnerSlot := model.SlotPlayer1
		if leavingSlot == model.SlotPlayer1 {
			winnerSlot = model.SlotPlayer2
		}
		departed := userID
		c.finishLocked(a, winnerSlot, "opponent left", &departed)
		persist = true
	} else if a.Player1 == nil && a.Player2 == nil {
		delete(c.arenas, a.ID)
		c.chat.DropArena(a.ID)
	}

	c.mu.Unlock()
	if persist {
		c.accounts.Persist(ctx)
	}
}

// SubmitMove records the caller's move for the current phase (overwriting
// any pending move they already submitted) and runs resolution.
func (c *Controller) SubmitMove(ctx context.Context, userID model.UserID, arenaID model.ArenaID, move string) error {
	mv, err := model.ParseMove(move)
	if err != nil {
		return err
	}

	c.mu.Lock()

	a, ok := c.arenas[arenaID]
	if !ok {
		c.mu.Unlock()
		return model.ErrArenaNotFound
	}
	if a.Finished {
		c.mu.Unlock()
		return model.ErrArenaFinished
	}

	switch a.PlayerSlot(userID) {
	case model.SlotPlayer1:
		a.MoveP1 = mv
	case model.SlotPlayer2:
		a.MoveP2 = mv
	default:
		c.mu.Unlock()
		return model.ErrNotAPlayer
	}

	finalized := c.resolveLocked(a)
	c.mu.Unlock()

	if finalized {
		c.accounts.Persist(ctx)
	}
	return nil
}

// ArenaState returns a snapshot of the arena and, as a side effect, runs
// the resolution check, so an expired deadline transitions on the next
// poll. The finalizing call still observes the final state; later calls
// find the arena gone.
func (c *Controller) ArenaState(ctx context.Context, arenaID model.ArenaID) (model.ArenaState, error) {
	c.mu.Lock()

	a, ok := c.arenas[arenaID]
	if !ok {
		c.mu.Unlock()
		return model.ArenaState{}, model.ErrArenaNotFound
	}

	finalized := c.resolveLocked(a)

	state := model.ArenaState{
		Summary:       c.summaryLocked(a),
		MoveP1Present: a.MoveP1 != "",
		MoveP2Present: a.MoveP2 != "",
		Attacker:      a.Attacker,
		Finished:      a.Finished,
	}
	if a.Winner != nil {
		nick := c.accounts.Nickname(*a.Winner)
		state.WinnerNickname = &nick
	}

	c.mu.Unlock()

	if finalized {
		c.accounts.Persist(ctx)
	}
	return state, nil
}

// LobbyState returns the caller's record plus summaries of all live arenas
func (c *Controller) LobbyState(ctx context.Context, userID model.UserID) (model.LobbyState, error) {
	user, err := c.accounts.Get(userID)
	if err != nil {
		return model.LobbyState{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	summaries := make([]model.ArenaSummary, 0, len(c.arenas))
	for _, a := range c.arenas {
		summaries = append(summaries, c.summaryLocked(a))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})

	return model.LobbyState{User: user, Arenas: summaries}, nil
}

// summaryLocked builds an owned snapshot; callers hold c.mu
func (c *Controller) summaryLocked(a *model.Arena) model.ArenaSummary {
	s := model.ArenaSummary{
		ID:            a.ID,
		Name:          a.Name,
		Creator:       c.accounts.Nickname(a.CreatorID),
		Attacker:      a.Attacker,
		PhaseDeadline: a.PhaseDeadline,
		Finished:      a.Finished,
	}
	if a.Player1 != nil {
		nick := c.accounts.Nickname(*a.Player1)
		s.Player1 = &nick
	}
	if a.Player2 != nil {
		nick := c.accounts.Nickname(*a.Player2)
		s.Player2 = &nick
	}
	for uid := range a.Spectators {
		s.Spectators = append(s.Spectators, c.accounts.Nickname(uid))
	}
	sort.Strings(s.Spectators)
	return s
}
