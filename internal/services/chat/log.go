package chat

import (
	"context"
	"sync"

	"github.com/mcoot/rpsarena-go/internal/dependencies/clock"
	"github.com/mcoot/rpsarena-go/internal/model"
)

// Log is an append-only chat log with a lobby scope and one scope per
// arena. Message ids are monotonic across all scopes, so a client can
// poll any scope with the latest id it has seen.
type Log struct {
	clock clock.Clock

	mu     sync.Mutex
	cond   *sync.Cond
	seq    uint64
	lobby  []model.ChatMessage
	arenas map[model.ArenaID][]model.ChatMessage
}

// New creates an empty chat log
func New(clk clock.Clock) *Log {
	l := &Log{
		clock:  clk,
		arenas: make(map[model.ArenaID][]model.ChatMessage),
	}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// PostLobbySystem appends a system announcement to the lobby scope
func (l *Log) PostLobbySystem(text string) model.ChatMessage {
	return l.PostLobby(model.SystemNick, text)
}

// PostLobby appends a message to the lobby scope
func (l *Log) PostLobby(nick, text string) model.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := l.next(nick, text)
	l.lobby = append(l.lobby, msg)
	l.cond.Broadcast()
	return msg
}

// PostArena appends a message to an arena's scope
func (l *Log) PostArena(arenaID model.ArenaID, nick, text string) model.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := l.next(nick, text)
	l.arenas[arenaID] = append(l.arenas[arenaID], msg)
	l.cond.Broadcast()
	return msg
}

// LobbySince returns lobby messages with id greater than sinceID,
// along with the latest id issued across all scopes.
func (l *Log) LobbySince(sinceID uint64) ([]model.ChatMessage, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return filterSince(l.lobby, sinceID), l.seq
}

// ArenaSince returns an arena's messages with id greater than sinceID
func (l *Log) ArenaSince(arenaID model.ArenaID, sinceID uint64) ([]model.ChatMessage, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return filterSince(l.arenas[arenaID], sinceID), l.seq
}

// WaitLobby blocks until a lobby message newer than sinceID exists or the
// context is done, then returns whatever is available.
func (l *Log) WaitLobby(ctx context.Context, sinceID uint64) ([]model.ChatMessage, uint64) {
	return l.wait(ctx, sinceID, func() []model.ChatMessage { return l.lobby })
}

// WaitArena is WaitLobby for an arena scope
func (l *Log) WaitArena(ctx context.Context, arenaID model.ArenaID, sinceID uint64) ([]model.ChatMessage, uint64) {
	return l.wait(ctx, sinceID, func() []model.ChatMessage { return l.arenas[arenaID] })
}

// DropArena discards an arena's messages once the arena is destroyed
func (l *Log) DropArena(arenaID model.ArenaID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.arenas, arenaID)
}

func (l *Log) wait(ctx context.Context, sinceID uint64, scope func() []model.ChatMessage) ([]model.ChatMessage, uint64) {
	// Wake waiters when the context expires; Broadcast requires the lock
	// to guarantee the waiter is parked, not mid-check.
	stop := context.AfterFunc(ctx, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.cond.Broadcast()
	})
	defer stop()

	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		msgs := filterSince(scope(), sinceID)
		if len(msgs) > 0 || ctx.Err() != nil {
			return msgs, l.seq
		}
		l.cond.Wait()
	}
}

func (l *Log) next(nick, text string) model.ChatMessage {
	l.seq++
	return model.ChatMessage{
		ID:     l.seq,
		Nick:   nick,
		Text:   text,
		SentAt: l.clock.Now(),
	}
}

func filterSince(msgs []model.ChatMessage, sinceID uint64) []model.ChatMessage {
	// Messages are appended in id order; find the first id past sinceID
	idx := len(msgs)
	for i, m := range msgs {
		if m.ID > sinceID {
			idx = i
			break
		}
	}
	if idx == len(msgs) {
		return nil
	}
	out := make([]model.ChatMessage, len(msgs)-idx)
	copy(out, msgs[idx:])
	return out
}
