package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the memorylane server
type Config struct {
	// HTTP server settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Credential store connection
	Database DatabaseConfig `yaml:"database" json:"database"`

	// Session cookie settings
	Session SessionConfig `yaml:"session" json:"session"`

	// Photo album scraping settings
	Album AlbumConfig `yaml:"album" json:"album"`

	// Chat archive settings
	Archive ArchiveConfig `yaml:"archive" json:"archive"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port       string `yaml:"port" json:"port"`
	StaticDir  string `yaml:"static_dir" json:"static_dir"`
	Production bool   `yaml:"production" json:"production"`
}

// DatabaseConfig holds the credential store connection string. An empty URL
// is not an error: the server starts in a degraded mode where login is
// unavailable.
type DatabaseConfig struct {
	URL string `yaml:"url" json:"url"`
}

// SessionConfig holds session cookie signing configuration
type SessionConfig struct {
	Secret string `yaml:"secret" json:"secret"`
}

// AlbumConfig holds photo album scraping configuration
type AlbumConfig struct {
	URL          string        `yaml:"url" json:"url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
	MaxRedirects int           `yaml:"max_redirects" json:"max_redirects"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
}

// ArchiveConfig holds the location of the exported chat messages file
type ArchiveConfig struct {
	Path string `yaml:"path" json:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       "8080",
			StaticDir:  "./web",
			Production: false,
		},
		Session: SessionConfig{},
		Album: AlbumConfig{
			URL:          "https://photos.app.goo.gl/u8TTaxCNTvoktUCX6",
			FetchTimeout: 12 * time.Second,
			MaxRedirects: 5,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		Archive: ArchiveConfig{
			Path: "./data/chats.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv overlays configuration from environment variables. The
// database, session and port variables keep the names the deployment
// environment already uses; everything else is prefixed.
func (c *Config) LoadFromEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.Database.URL = dbURL
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		c.Session.Secret = secret
	}
	if prod := os.Getenv("MEMORYLANE_PRODUCTION"); prod != "" {
		v, err := strconv.ParseBool(prod)
		if err != nil {
			return fmt.Errorf("invalid MEMORYLANE_PRODUCTION value: %w", err)
		}
		c.Server.Production = v
	}
	if dir := os.Getenv("MEMORYLANE_STATIC_DIR"); dir != "" {
		c.Server.StaticDir = dir
	}
	if albumURL := os.Getenv("MEMORYLANE_ALBUM_URL"); albumURL != "" {
		c.Album.URL = albumURL
	}
	if timeout := os.Getenv("MEMORYLANE_FETCH_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid MEMORYLANE_FETCH_TIMEOUT value: %w", err)
		}
		c.Album.FetchTimeout = d
	}
	if path := os.Getenv("MEMORYLANE_ARCHIVE_PATH"); path != "" {
		c.Archive.Path = path
	}
	if level := os.Getenv("MEMORYLANE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if file := os.Getenv("MEMORYLANE_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
	return nil
}

// LoadFromFile reads configuration from a YAML file, overlaying the
// receiver's current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load builds the effective configuration: defaults, then the optional YAML
// file, then environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}
	if c.Album.URL == "" {
		return errors.New("album URL is required")
	}
	if c.Album.FetchTimeout < time.Second || c.Album.FetchTimeout > time.Minute {
		return fmt.Errorf("album fetch timeout must be between 1s and 1m, got %s", c.Album.FetchTimeout)
	}
	if c.Album.MaxRedirects < 0 || c.Album.MaxRedirects > 10 {
		return fmt.Errorf("album max redirects must be between 0 and 10, got %d", c.Album.MaxRedirects)
	}
	return nil
}
