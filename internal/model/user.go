package model

import "fmt"

// UserID is the unique, monotonically assigned identifier of an account
type UserID uint64

// Role is a user's position within an arena
type Role string

const (
	RolePlayer1   Role = "player1"
	RolePlayer2   Role = "player2"
	RoleSpectator Role = "spectator"
)

// User is an account record with lifetime win/loss statistics.
// ArenaID and Role are set iff the user currently holds a slot in a live arena.
type User struct {
	ID           UserID
	Username     string
	PasswordHash string
	Wins         int
	Losses       int
	TotalGames   int
	ArenaID      *ArenaID
	Role         Role
}

// Nickname derives the display name from username and id.
// Usernames may duplicate; nicknames are unique because ids are.
func (u *User) Nickname() string {
	return Nickname(u.Username, u.ID)
}

// Nickname formats a display name for a username/id pair
func Nickname(username string, id UserID) string {
	return fmt.Sprintf("%s#%03d", username, id)
}

// Winrate returns the user's win percentage, 0 if no games played
func (u *User) Winrate() float64 {
	if u.TotalGames == 0 {
		return 0
	}
	return float64(u.Wins) / float64(u.TotalGames) * 100
}
