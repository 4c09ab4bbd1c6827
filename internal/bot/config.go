package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Dispatch modes.
const (
	// DispatchWorkers runs every module on its own goroutine fed by a queue.
	DispatchWorkers = "workers"
	// DispatchSync calls modules one after another from the read loop.
	DispatchSync = "sync"
)

// ErrInvalidDispatchMode is returned for an unknown SHAKEN_DISPATCH value.
var ErrInvalidDispatchMode = errors.New("invalid dispatch mode")

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	Password     string        `env:"SHAKEN_TWITCH_PASSWORD,notEmpty"`
	Nick         string        `env:"SHAKEN_TWITCH_NICK" envDefault:"shaken_bot"`
	Address      string        `env:"SHAKEN_TWITCH_ADDRESS" envDefault:"irc.chat.twitch.tv:6667"`
	Channels     []string      `env:"SHAKEN_TWITCH_CHANNELS" envSeparator:","`
	DatabasePath string        `env:"SHAKEN_DATABASE_PATH" envDefault:"shaken.db"`
	Dispatch     string        `env:"SHAKEN_DISPATCH" envDefault:"workers"`
	TickInterval time.Duration `env:"SHAKEN_TICK_INTERVAL" envDefault:"1s"`
	QueueSize    int           `env:"SHAKEN_QUEUE_SIZE" envDefault:"64"`
	LogLevel     string        `env:"SHAKEN_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing or invalid.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Dispatch {
	case DispatchWorkers, DispatchSync:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDispatchMode, c.Dispatch)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue size must be positive, got %d", c.QueueSize)
	}
	return nil
}

// JoinChannels returns the configured channels as lower-case "#name".
func (c *Config) JoinChannels() []string {
	channels := make([]string, 0, len(c.Channels))
	for _, ch := range c.Channels {
		if ch = normalizeChannel(ch); ch != "" {
			channels = append(channels, ch)
		}
	}
	return channels
}
