package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/imunetrack/internal/flagx"
	"github.com/dmitrijs2005/imunetrack/internal/timex"
)

// JsonConfig is the JSON file layout. Durations accept "90s" style strings
// or integer nanoseconds. Absent fields leave the current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string        `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	DatabaseConnectRetries      *uint64        `json:"database_connect_retries"`
	DatabaseConnectDelay        timex.Duration `json:"database_connect_delay"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	Environment                 string         `json:"environment"`
	CORSAllowedOrigins          []string       `json:"cors_allowed_origins"`
	SMTPHost                    string         `json:"smtp_host"`
	SMTPPort                    int            `json:"smtp_port"`
	SMTPUser                    string         `json:"smtp_user"`
	SMTPPassword                string         `json:"smtp_password"`
	EmailFrom                   string         `json:"email_from"`
	NotificationTimeout         timex.Duration `json:"notification_timeout"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setDur := func(dst *time.Duration, v timex.Duration) {
		if v.Duration > 0 {
			*dst = v.Duration
		}
	}

	setStr(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	setStr(&config.DatabaseDSN, c.DatabaseDSN)
	if c.DatabaseConnectRetries != nil {
		config.DatabaseConnectRetries = *c.DatabaseConnectRetries
	}
	setStr(&config.SecretKey, c.SecretKey)
	setStr(&config.Environment, c.Environment)
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	setStr(&config.SMTPHost, c.SMTPHost)
	if c.SMTPPort > 0 {
		config.SMTPPort = c.SMTPPort
	}
	setStr(&config.SMTPUser, c.SMTPUser)
	setStr(&config.SMTPPassword, c.SMTPPassword)
	setStr(&config.EmailFrom, c.EmailFrom)

	setDur(&config.DatabaseConnectDelay, c.DatabaseConnectDelay)
	setDur(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDur(&config.NotificationTimeout, c.NotificationTimeout)
	setDur(&config.ShutdownTimeout, c.ShutdownTimeout)
}
