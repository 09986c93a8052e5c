package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, "gemini-2.5-flash", cfg.ChatModel)
	assert.Equal(t, 500, cfg.MaxOutputTokens)
	assert.Equal(t, "zyra-pdfs", cfg.PDFFolder)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "zyra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
rate_limit_rpm: 30
chat_timeout: 5s
allowed_origins:
  - https://zyra.app
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RATE_LIMIT_RPM", "45")

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45, cfg.RateLimitRPM)
	assert.Equal(t, 5*time.Second, cfg.ChatTimeout)
	assert.Equal(t, []string{"https://zyra.app"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unknown storage", func(c *Config) { c.StorageBackend = "mongo" }, "unknown storage backend"},
		{"postgres needs url", func(c *Config) { c.StorageBackend = StoragePostgres }, "DATABASE_URL"},
		{"gcs needs bucket", func(c *Config) { c.ObjectStore = ObjectStoreGCS }, "GCS_BUCKET"},
		{"production needs secret", func(c *Config) {
			c.Environment = "production"
			c.StorageBackend = StorageDynamoDB
		}, "JWT_SECRET"},
		{"production refuses memory", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "s"
		}, "memory storage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatcher_ReloadsLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zyra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o600))

	cfg := Defaults()
	cfg.ConfigFile = path
	require.NoError(t, cfg.LoadFile(path))

	w, err := NewWatcher(cfg, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 1)
	w.OnChange(func(c *Config) {
		select {
		case changed <- c.LogLevel:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))

	select {
	case level := <-changed:
		assert.Equal(t, "debug", level)
		assert.Equal(t, "debug", w.Current().LogLevel)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload the file")
	}
}

func TestWatcher_NoFile(t *testing.T) {
	w, err := NewWatcher(Defaults(), zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, "info", w.Current().LogLevel)
	w.Stop()
}
