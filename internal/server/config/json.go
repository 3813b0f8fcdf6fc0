package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/flock/internal/flagx"
	"github.com/dmitrijs2005/flock/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. TokenTTL
// accepts "24h" style strings or integer nanoseconds.
type JsonConfig struct {
	Address   string         `json:"address"`
	SecretKey string         `json:"secret_key"`
	TokenTTL  timex.Duration `json:"token_ttl"`
	LogLevel  string         `json:"log_level"`
}

// parseJson overlays config with the JSON file named by -c / -config or
// $FLOCK_SERVER_CONFIG. Keys missing from the file keep their current
// values. Panics on read or unmarshal errors.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(EnvConfig)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.Address != "" {
		config.Address = c.Address
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenTTL.Duration > 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
