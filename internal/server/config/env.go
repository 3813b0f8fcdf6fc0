package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvConfig    = "FLOCK_SERVER_CONFIG"
	EnvAddress   = "FLOCK_SERVER_ADDRESS"
	EnvSecretKey = "FLOCK_SERVER_SECRET_KEY"
	EnvTokenTTL  = "FLOCK_SERVER_TOKEN_TTL"
	EnvLogLevel  = "FLOCK_SERVER_LOG_LEVEL"
)

// loadDotEnv reads .env (or $FLOCK_ENV_FILE) without overriding variables
// that are already set.
func loadDotEnv() {
	path := os.Getenv("FLOCK_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)
}

// parseEnv overlays config with FLOCK_SERVER_* variables. Panics on a
// malformed TTL.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return v, ok && v != ""
	}

	if v, ok := get(EnvAddress); ok {
		config.Address = v
	}
	if v, ok := get(EnvSecretKey); ok {
		config.SecretKey = v
	}
	if v, ok := get(EnvTokenTTL); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenTTL = d
	}
	if v, ok := get(EnvLogLevel); ok {
		config.LogLevel = v
	}
}
