// Package config handles configuration for the ImuneTrack server: defaults,
// then a .env file and the process environment, then an optional JSON file,
// then command-line flags. Later sources win.
package config

import (
	"time"
)

// MemoryDSN selects the in-memory storage backend instead of PostgreSQL.
const MemoryDSN = "memory"

// Config holds runtime settings for the ImuneTrack server.
type Config struct {
	EndpointAddrHTTP string
	// EndpointAddrGRPC is the health service address; empty disables it.
	EndpointAddrGRPC string

	DatabaseDSN            string
	DatabaseConnectRetries uint64
	DatabaseConnectDelay   time.Duration

	// SecretKey signs login tokens (HS256). Override the default in production.
	SecretKey                   string
	AccessTokenValidityDuration time.Duration

	Environment        string
	CORSAllowedOrigins []string

	// When SMTPHost is empty dose confirmations are not sent.
	SMTPHost            string
	SMTPPort            int
	SMTPUser            string
	SMTPPassword        string
	EmailFrom           string
	NotificationTimeout time.Duration

	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "postgres://imunetrack_user:imunetrack_pass@db:5432/imunetrack?sslmode=disable"
	c.DatabaseConnectRetries = 10
	c.DatabaseConnectDelay = 3 * time.Second
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.Environment = "development"
	c.CORSAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:5173"}
	c.SMTPPort = 587
	c.NotificationTimeout = 10 * time.Second
	c.ShutdownTimeout = 15 * time.Second
}

// UseMemoryStorage reports whether the in-memory backend is selected.
func (c *Config) UseMemoryStorage() bool {
	return c.DatabaseDSN == MemoryDSN
}

// LoadConfig builds a Config from defaults, the environment, an optional
// JSON file and command-line flags. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
