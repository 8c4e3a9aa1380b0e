package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// GameTTL is refreshed on every save, so only abandoned games expire
	GameTTL time.Duration
	// CommanderTTL bounds how long resolved card metadata is trusted
	CommanderTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		GameTTL:      72 * time.Hour,
		CommanderTTL: 30 * 24 * time.Hour,
	}
}
