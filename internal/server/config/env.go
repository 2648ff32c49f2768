package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv loads envFile into the process environment (existing variables
// are kept) and copies the recognized variables into config. A missing
// envFile is not an error.
func parseEnv(config *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	str("HTTP_ADDR", &config.EndpointAddrHTTP)
	str("GRPC_ADDR", &config.EndpointAddrGRPC)
	str("DATABASE_URL", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	str("ENV", &config.Environment)
	str("EMAIL_HOST", &config.SMTPHost)
	str("EMAIL_USER", &config.SMTPUser)
	str("EMAIL_PASS", &config.SMTPPassword)
	str("EMAIL_FROM", &config.EmailFrom)

	if v := os.Getenv("EMAIL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EMAIL_PORT: %w", err)
		}
		config.SMTPPort = port
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = splitList(v)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
