package redis

import (
	"fmt"

	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/storage"
)

// Key prefix for all tracker data
const keyPrefix = "lifetracker"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of known game IDs
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// commanderKey returns the Redis key for a cached commander card
func commanderKey(name string) string {
	return fmt.Sprintf("%s:commander:%s", keyPrefix, storage.CardKey(name))
}
