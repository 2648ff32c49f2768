package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "postgres://imunetrack_user:imunetrack_pass@db:5432/imunetrack?sslmode=disable", c.DatabaseDSN)
	assert.Equal(t, uint64(10), c.DatabaseConnectRetries)
	assert.Equal(t, 60*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:5173"}, c.CORSAllowedOrigins)
	assert.Equal(t, 587, c.SMTPPort)
	assert.Empty(t, c.SMTPHost)
	assert.False(t, c.UseMemoryStorage())
}

func TestLoadConfig_Layering(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("EMAIL_HOST", "smtp.env")

	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_dsn":"postgres://json/db","smtp_port":2525}`), 0o600))

	cfg, err := LoadConfig([]string{"-c", path, "-a", ":9999"})
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://json/db", cfg.DatabaseDSN)
	assert.Equal(t, "smtp.env", cfg.SMTPHost)
	assert.Equal(t, 2525, cfg.SMTPPort)
}

func TestLoadConfig_BadFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := LoadConfig([]string{"-t", "soon"})
	require.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	cfg := defaults()
	err := parseFlags(cfg, []string{
		"-a", "127.0.0.1:8080", "-g", "", "-d", "memory", "-s", "secret",
		"-t", "5", "-e", "production", "-o", "https://a.example, https://b.example",
		"-x", "ignored",
	})
	require.NoError(t, err)

	want := defaults()
	want.EndpointAddrHTTP = "127.0.0.1:8080"
	want.EndpointAddrGRPC = ""
	want.DatabaseDSN = "memory"
	want.SecretKey = "secret"
	want.AccessTokenValidityDuration = 5 * time.Minute
	want.Environment = "production"
	want.CORSAllowedOrigins = []string{"https://a.example", "https://b.example"}

	assert.Empty(t, cmp.Diff(want, cfg))
	assert.True(t, cfg.UseMemoryStorage())
}

func TestParseFlags_NoArgsKeepsValues(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseFlags(cfg, nil))
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}
