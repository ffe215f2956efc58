package model

import "time"

// SystemNick is the nickname used for system announcements
const SystemNick = "SYSTEM"

// ChatMessage is one entry in an append-only chat log.
// IDs are monotonic across all scopes (lobby and every arena).
type ChatMessage struct {
	ID     uint64
	Nick   string
	Text   string
	SentAt time.Time
}
