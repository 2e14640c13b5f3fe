// Package config builds runtime configuration from environment variables so
// main stays lean. Every value has a development default; production
// deployments override the secrets.
package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// API-key gate (first authentication layer).
	APIKeyGateEnabled bool
	APIKeyHeader      string
	APIKeyValue       string

	// Token gate (second authentication layer).
	TokenGateEnabled bool
	JWTSigningKey    string
	JWTPrincipal     string
	JWTTTL           time.Duration

	// PostgresDSN selects the document-store backend; empty means the
	// in-memory store.
	PostgresDSN string
}

// FromEnv reads CARETRACK_* environment variables. Gates are enabled unless
// explicitly set to "false", matching the deployed default.
func FromEnv() Server {
	ttl := time.Hour
	if raw := os.Getenv("CARETRACK_JWT_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			ttl = parsed
		}
	}
	return Server{
		Addr:              envOr("CARETRACK_ADDR", ":8080"),
		APIKeyGateEnabled: os.Getenv("CARETRACK_API_KEY_GATE") != "false",
		APIKeyHeader:      envOr("CARETRACK_API_KEY_HEADER", "api-key"),
		APIKeyValue:       envOr("CARETRACK_API_KEY_VALUE", "dev-api-key-change-in-production"),
		TokenGateEnabled:  os.Getenv("CARETRACK_TOKEN_GATE") != "false",
		JWTSigningKey:     envOr("CARETRACK_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTPrincipal:      envOr("CARETRACK_JWT_PRINCIPAL", "caretrack-backend"),
		JWTTTL:            ttl,
		PostgresDSN:       os.Getenv("CARETRACK_POSTGRES_DSN"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
