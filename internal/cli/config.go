package cli

import (
	"os"
	"time"

	"github.com/mcoot/commander-tracker/internal/services/cards"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	ScryfallURL string
	Output      string
	Verbose     bool
	Debounce    time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("LIFETRACKER_SERVER", "http://localhost:8080"),
		ScryfallURL: getEnvOrDefault("SCRYFALL_BASE_URL", cards.DefaultConfig().BaseURL),
		Output:      "text",
		Verbose:     false,
		Debounce:    cards.DefaultDebounceDelay,
	}
}

// CardConfig returns the card database settings used by commands that talk to it directly
func (c *Config) CardConfig() cards.Config {
	cfg := cards.DefaultConfig()
	cfg.BaseURL = c.ScryfallURL
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
