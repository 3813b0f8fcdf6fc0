package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvConfig            = "FLOCK_CONFIG"
	EnvAPIURL            = "FLOCK_API_URL"
	EnvDBPath            = "FLOCK_DB_PATH"
	EnvRequestTimeout    = "FLOCK_REQUEST_TIMEOUT"
	EnvRequestsPerSecond = "FLOCK_REQUESTS_PER_SECOND"
	EnvLogLevel          = "FLOCK_LOG_LEVEL"
)

// loadDotEnv reads .env from the working directory, or the file named by
// FLOCK_ENV_FILE. Variables already set in the process win. A missing file
// is not an error.
func loadDotEnv() {
	path := os.Getenv("FLOCK_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)
}

// parseEnv overlays cfg with FLOCK_* variables. Unset or empty variables
// leave the current value. Panics on values that cannot be parsed.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return v, ok && v != ""
	}

	if v, ok := get(EnvAPIURL); ok {
		cfg.APIURL = v
	}
	if v, ok := get(EnvDBPath); ok {
		cfg.DBPath = v
	}
	if v, ok := get(EnvRequestTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := get(EnvRequestsPerSecond); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		cfg.RequestsPerSecond = rps
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
}
