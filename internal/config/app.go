package config

import (
	"fmt"
	"os"
	"time"
)

const (
	defaultPort       = "8080"
	defaultSessionTTL = 30 * time.Minute
)

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return defaultPort
	}
	return port
}

func Addr() string {
	return ":" + Port()
}

// SessionTTL is how long an idle game stays in memory.
func SessionTTL() (time.Duration, error) {
	ttlStr, ok := os.LookupEnv("SESSION_TTL")
	if !ok {
		return defaultSessionTTL, nil
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}
	return ttl, nil
}
