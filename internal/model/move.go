package model

import "strings"

// Move is a canonical rock-paper-scissors move
type Move string

const (
	MoveRock    Move = "rock"
	MovePaper   Move = "paper"
	MoveScissor Move = "scissor"
)

// ParseMove canonicalizes a move string (case-insensitive)
func ParseMove(s string) (Move, error) {
	switch Move(strings.ToLower(strings.TrimSpace(s))) {
	case MoveRock:
		return MoveRock, nil
	case MovePaper:
		return MovePaper, nil
	case MoveScissor:
		return MoveScissor, nil
	default:
		return "", ErrInvalidMove
	}
}

// CompareMoves returns the winning slot for a pair of moves:
// SlotPlayer1 if a beats b, SlotPlayer2 if b beats a, SlotNone on a tie.
// Rock beats scissor, scissor beats paper, paper beats rock.
func CompareMoves(a, b Move) Slot {
	if a == b {
		return SlotNone
	}
	if a.beats(b) {
		return SlotPlayer1
	}
	return SlotPlayer2
}

func (m Move) beats(o Move) bool {
	switch m {
	case MoveRock:
		return o == MoveScissor
	case MoveScissor:
		return o == MovePaper
	case MovePaper:
		return o == MoveRock
	}
	return false
}
