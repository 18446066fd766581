package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MemoryBackendDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SECRET_KEY", "s3cr3t")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, BackendMemory, cfg.SessionBackend)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.True(t, cfg.Mail.UseTLS)
	assert.False(t, cfg.Mail.Enabled())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoadConfig_CollectsAllErrors(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("SESSION_TTL", "forever")

	_, err := LoadConfig()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "DB_USER")
	assert.Contains(t, msg, "DB_PASSWORD")
	assert.Contains(t, msg, "SECRET_KEY")
	assert.Contains(t, msg, "DB_PORT")
	assert.Contains(t, msg, "SESSION_TTL")
}

func TestLoadConfig_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SESSION_BACKEND", "memcached")
	t.Setenv("SECRET_KEY", "x")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_BACKEND")
}

func TestLoadConfig_MailAndCORS(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SECRET_KEY", "x")
	t.Setenv("MAIL_SERVER", "smtp.gmail.com")
	t.Setenv("MAIL_USERNAME", "tareas@example.com")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, "tareas@example.com", cfg.Mail.Sender)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
}
