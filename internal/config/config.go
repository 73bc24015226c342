package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
	Env  string `yaml:"env"` // "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	CodeLength      int           `yaml:"codeLength"`
	StaleAfter      time.Duration `yaml:"staleAfter"`
	CleanupInterval time.Duration `yaml:"cleanupInterval"`
	EventBuffer     int           `yaml:"eventBuffer"`
}

// StorageConfig selects where finished games are archived
type StorageConfig struct {
	Driver string `yaml:"driver"` // "memory" or "sqlite"
	Path   string `yaml:"path"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
			Env:  "development",
		},
		Game: GameConfig{
			CodeLength:      6,
			StaleAfter:      2 * time.Hour,
			CleanupInterval: 10 * time.Minute,
			EventBuffer:     100,
		},
		Storage: StorageConfig{
			Driver: "memory",
			Path:   "data/bowling.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file at path,
// a .env file in the working directory and finally environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file onto cfg
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides values with environment variables when set
func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.Env = getEnv("ENV", c.Server.Env)

	c.Game.CodeLength = getEnvInt("GAME_CODE_LENGTH", c.Game.CodeLength)
	c.Game.StaleAfter = getEnvDuration("GAME_STALE_AFTER", c.Game.StaleAfter)
	c.Game.CleanupInterval = getEnvDuration("GAME_CLEANUP_INTERVAL", c.Game.CleanupInterval)
	c.Game.EventBuffer = getEnvInt("GAME_EVENT_BUFFER", c.Game.EventBuffer)

	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = getEnv("STORAGE_PATH", c.Storage.Path)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.Game.CodeLength < 4 {
		return fmt.Errorf("game code length must be at least 4, got %d", c.Game.CodeLength)
	}
	if c.Game.EventBuffer <= 0 {
		return fmt.Errorf("game event buffer must be positive, got %d", c.Game.EventBuffer)
	}
	if c.Game.CleanupInterval <= 0 {
		return fmt.Errorf("game cleanup interval must be positive, got %s", c.Game.CleanupInterval)
	}

	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
