package redis

import (
	"fmt"

	"github.com/mcoot/rpsarena-go/internal/model"
)

// Key prefix for all arena-service data
const keyPrefix = "rpsarena"

// userKey returns the Redis key for a user record
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

// userIDsKey returns the Redis key for the SET of all user ids
func userIDsKey() string {
	return fmt.Sprintf("%s:user_ids", keyPrefix)
}

// nextUserIDKey returns the Redis key for the id counter
func nextUserIDKey() string {
	return fmt.Sprintf("%s:next_user_id", keyPrefix)
}
