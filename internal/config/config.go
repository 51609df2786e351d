// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /contests/{id}/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// ListLimit is the default page size for contest listings.
	ListLimit int `koanf:"list_limit"`

	// SweepIntervalSeconds drives the auto-finalization sweeper.
	// Zero disables it.
	SweepIntervalSeconds int `koanf:"sweep_interval_seconds"`

	// Store selects the key-value backend: "memory" or "redis".
	Store string `koanf:"store"`

	// RedisAddr, RedisPassword, and RedisDB configure the redis backend.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// AuthMode selects the identity check: "none" trusts the presented
	// identity, "static" validates provider tokens from AuthTokens.
	AuthMode string `koanf:"auth_mode"`

	// AuthTokens maps provider identities to their static tokens.
	AuthTokens map[string]string `koanf:"auth_tokens"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		MaxLeaderboardLimit:  100,
		ListLimit:            50,
		SweepIntervalSeconds: 3600,
		Store:                "memory",
		RedisAddr:            "localhost:6379",
		AuthMode:             "none",
	}
}
