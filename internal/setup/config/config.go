package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrInvalidConfig         = errors.New("invalid config value")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v1.0.0"

// Current version of the config files.
const (
	CurrentCommonVersion = 1
	CurrentBotVersion    = 1
)

// EnvPrefix is the prefix of environment variables overriding config values.
// Nested keys are separated by a double underscore, e.g. VOUCHBOT_BOT__DISCORD__TOKEN.
const EnvPrefix = "VOUCHBOT_"

// Storage backends.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig
	Bot    BotConfig
}

// CommonConfig contains configuration shared between the bot and the ledger tool.
type CommonConfig struct {
	// Version of the common config.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	Storage    Storage    `koanf:"storage"`
	Retry      Retry      `koanf:"retry"`
	Redis      Redis      `koanf:"redis"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Telemetry  Telemetry  `koanf:"telemetry"`
}

// BotConfig contains Discord bot specific configuration.
type BotConfig struct {
	// Version of the bot config.
	Version int `koanf:"version"`
	// Discord configuration.
	Discord Discord `koanf:"discord"`
	// Reputation policy.
	Reputation Reputation `koanf:"reputation"`
	// Status HTTP server.
	Status Status `koanf:"status"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
	// Enable pprof debugging.
	EnablePprof bool `koanf:"enable_pprof"`
	// pprof server port.
	PprofPort int `koanf:"pprof_port"`
}

// Storage selects and configures the persistence backend.
type Storage struct {
	// Backend name (json, sqlite, redis, postgres).
	Backend string `koanf:"backend"`
	// Path of the JSON data file.
	JSONPath string `koanf:"json_path"`
	// Path of the SQLite database file.
	SQLitePath string `koanf:"sqlite_path"`
	// Redis database index used by the redis backend.
	RedisDB int `koanf:"redis_db"`
	// Prefix of every key written by the redis backend.
	RedisKeyPrefix string `koanf:"redis_key_prefix"`
}

// Retry contains retry configuration for store writes.
type Retry struct {
	// Maximum retry attempts.
	MaxRetries uint64 `koanf:"max_retries"`
	// Initial retry delay in milliseconds.
	Delay int `koanf:"delay"`
	// Maximum retry delay in milliseconds.
	MaxDelay int `koanf:"max_delay"`
	// Maximum total time spent retrying in milliseconds.
	MaxElapsed int `koanf:"max_elapsed"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
	// Disable client side caching for servers without CLIENT TRACKING.
	DisableCache bool `koanf:"disable_cache"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
}

// Telemetry contains tracing configuration.
type Telemetry struct {
	// Uptrace DSN. Tracing is disabled when empty.
	UptraceDSN string `koanf:"uptrace_dsn"`
	// Service name reported to the tracing backend.
	ServiceName string `koanf:"service_name"`
}

// Discord contains Discord bot configuration.
type Discord struct {
	// Discord bot token for authentication.
	Token string `koanf:"token"`
	// Guild to register commands in. Commands are global when zero.
	GuildID uint64 `koanf:"guild_id"`
}

// Reputation contains the vouch policy.
type Reputation struct {
	// Reputation granted per vouch.
	VouchRepAmount int `koanf:"vouch_rep_amount"`
	// Seconds a voucher waits between vouches.
	VouchCooldownSeconds int `koanf:"vouch_cooldown_seconds"`
	// Leaderboard entries per page.
	LeaderboardPageSize int `koanf:"leaderboard_page_size"`
	// Discord user allowed to use administrative commands.
	PrivilegedActorID uint64 `koanf:"privileged_actor_id"`
}

// VouchCooldown returns the cooldown window as a duration.
func (r Reputation) VouchCooldown() time.Duration {
	return time.Duration(r.VouchCooldownSeconds) * time.Second
}

// Status contains the HTTP status server configuration.
type Status struct {
	// Enable the status server.
	Enabled bool `koanf:"enabled"`
	// Listen host.
	Host string `koanf:"host"`
	// Listen port.
	Port int `koanf:"port"`
	// Number of users drawn on the leaderboard chart.
	ChartUsers int `koanf:"chart_users"`
}

// Address returns the listen address of the status server.
func (s Status) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultSearchPaths returns the directories searched for config files.
func DefaultSearchPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return []string{
		".vouchbot",
		homeDir + "/.vouchbot/config",
		"/etc/vouchbot/config",
		"/app/config",
		"config",
		".",
	}, nil
}

// LoadConfig loads the configuration from the default search paths.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	configPaths, err := DefaultSearchPaths()
	if err != nil {
		return nil, "", err
	}

	return LoadConfigFrom(configPaths)
}

// LoadConfigFrom loads common.toml and bot.toml from the first path containing
// each of them, then applies environment overrides, defaults and validation.
func LoadConfigFrom(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	// Load all config files
	var usedConfigPath string

	configFiles := []string{"common", "bot"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	// Environment variables take precedence over files
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, "", fmt.Errorf("error loading environment overrides: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("bot", config.Bot.Version, CurrentBotVersion); err != nil {
		return nil, "", err
	}

	// Legacy token variable used by earlier deployments
	if config.Bot.Discord.Token == "" {
		config.Bot.Discord.Token = os.Getenv("DISCORD_BOT_TOKEN")
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// envKey maps VOUCHBOT_BOT__DISCORD__TOKEN to bot.discord.token.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// applyDefaults fills in unset values.
func (c *Config) applyDefaults() {
	debug := &c.Common.Debug
	if debug.LogLevel == "" {
		debug.LogLevel = "info"
	}
	if debug.MaxLogsToKeep <= 0 {
		debug.MaxLogsToKeep = 10
	}
	if debug.MaxLogLines <= 0 {
		debug.MaxLogLines = 10000
	}
	if debug.PprofPort == 0 {
		debug.PprofPort = 6060
	}

	storage := &c.Common.Storage
	if storage.Backend == "" {
		storage.Backend = BackendJSON
	}
	if storage.JSONPath == "" {
		storage.JSONPath = "reputation_data.json"
	}
	if storage.SQLitePath == "" {
		storage.SQLitePath = "reputation.db"
	}
	if storage.RedisKeyPrefix == "" {
		storage.RedisKeyPrefix = "vouchbot"
	}

	retry := &c.Common.Retry
	if retry.Delay <= 0 {
		retry.Delay = 100
	}
	if retry.MaxDelay <= 0 {
		retry.MaxDelay = 1000
	}
	if retry.MaxElapsed <= 0 {
		retry.MaxElapsed = 3000
	}

	if c.Common.Telemetry.ServiceName == "" {
		c.Common.Telemetry.ServiceName = "vouchbot"
	}

	rep := &c.Bot.Reputation
	if rep.VouchRepAmount == 0 {
		rep.VouchRepAmount = 3
	}
	if rep.VouchCooldownSeconds == 0 {
		rep.VouchCooldownSeconds = 600
	}
	if rep.LeaderboardPageSize == 0 {
		rep.LeaderboardPageSize = 10
	}

	status := &c.Bot.Status
	if status.Host == "" {
		status.Host = "0.0.0.0"
	}
	if status.Port == 0 {
		status.Port = 8080
	}
	if status.ChartUsers <= 0 {
		status.ChartUsers = 10
	}
}

// validate rejects values the application cannot run with.
func (c *Config) validate() error {
	rep := c.Bot.Reputation
	if rep.VouchRepAmount <= 0 {
		return fmt.Errorf("%w: vouch_rep_amount must be positive", ErrInvalidConfig)
	}
	if rep.VouchCooldownSeconds <= 0 {
		return fmt.Errorf("%w: vouch_cooldown_seconds must be positive", ErrInvalidConfig)
	}
	if rep.LeaderboardPageSize <= 0 {
		return fmt.Errorf("%w: leaderboard_page_size must be positive", ErrInvalidConfig)
	}

	switch c.Common.Storage.Backend {
	case BackendJSON, BackendSQLite, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Common.Storage.Backend)
	}

	if c.Bot.Status.Port < 0 || c.Bot.Status.Port > 65535 {
		return fmt.Errorf("%w: status port %d out of range", ErrInvalidConfig, c.Bot.Status.Port)
	}

	return nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/vouchbot/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
