package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the flock terminal client.
//
// Fields:
//   - APIURL: base URL of the church backend, scheme://host[:port].
//   - DBPath: SQLite file holding the persisted session.
//   - RequestTimeout: upper bound for a single API request.
//   - RequestsPerSecond: client-side request rate limit; 0 disables it.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIURL            string
	DBPath            string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	LogLevel          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8080"
	c.DBPath = "flock.db"
	c.RequestTimeout = 10 * time.Second
	c.RequestsPerSecond = 5
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones. The .env file is read first so it may
// name the JSON file through FLOCK_CONFIG.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotEnv()
	parseJson(cfg)
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg)
	return cfg
}
