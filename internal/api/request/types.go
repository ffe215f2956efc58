package request

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateArenaRequest is the request body for opening an arena
type CreateArenaRequest struct {
	Name string `json:"name"`
}

// JoinArenaRequest is the request body for joining an arena
type JoinArenaRequest struct {
	// Role is "player" for a player slot; anything else spectates
	Role string `json:"role"`
}

// MoveRequest is the request body for submitting a move
type MoveRequest struct {
	Move string `json:"move"`
}

// ChatPostRequest is the request body for posting a chat message
type ChatPostRequest struct {
	Text string `json:"text"`
}
