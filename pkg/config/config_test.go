package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Server.Production)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 12*time.Second, cfg.Album.FetchTimeout)
	assert.Equal(t, 5, cfg.Album.MaxRedirects)
	assert.NotEmpty(t, cfg.Album.URL)
	assert.NotEmpty(t, cfg.Album.UserAgent)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/memories")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("MEMORYLANE_PRODUCTION", "true")
	t.Setenv("MEMORYLANE_ALBUM_URL", "https://photos.example/album")
	t.Setenv("MEMORYLANE_FETCH_TIMEOUT", "15s")
	t.Setenv("MEMORYLANE_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/memories", cfg.Database.URL)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.True(t, cfg.Server.Production)
	assert.Equal(t, "https://photos.example/album", cfg.Album.URL)
	assert.Equal(t, 15*time.Second, cfg.Album.FetchTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("MEMORYLANE_PRODUCTION", "sometimes")
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())

	os.Unsetenv("MEMORYLANE_PRODUCTION")
	t.Setenv("MEMORYLANE_FETCH_TIMEOUT", "fast")
	cfg = DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
server:
  port: "3000"
  production: true
database:
  url: postgres://db.internal/memorylane
album:
  url: https://photos.example/x
  fetch_timeout: 10s
  max_redirects: 3
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.True(t, cfg.Server.Production)
	assert.Equal(t, "postgres://db.internal/memorylane", cfg.Database.URL)
	assert.Equal(t, 10*time.Second, cfg.Album.FetchTimeout)
	assert.Equal(t, 3, cfg.Album.MaxRedirects)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// values the file does not mention keep their defaults
	assert.Equal(t, "./data/chats.json", cfg.Archive.Path)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile("/nonexistent/config.yaml"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty port", func(c *Config) { c.Server.Port = "" }, true},
		{"non-numeric port", func(c *Config) { c.Server.Port = "http" }, true},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }, true},
		{"empty album url", func(c *Config) { c.Album.URL = "" }, true},
		{"timeout too short", func(c *Config) { c.Album.FetchTimeout = 100 * time.Millisecond }, true},
		{"timeout too long", func(c *Config) { c.Album.FetchTimeout = 2 * time.Minute }, true},
		{"negative redirects", func(c *Config) { c.Album.MaxRedirects = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"3000\"\n"), 0644))

	// environment beats the file
	t.Setenv("PORT", "4000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Server.Port)
}
