// Package config loads runtime configuration for the flock terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config, or $FLOCK_CONFIG.
//  3. Environment: FLOCK_* variables, after loading .env (or $FLOCK_ENV_FILE)
//     with godotenv. Variables already exported are not overridden by .env.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     backend base URL
//	-d string     local session database path
//	-t duration   per-request timeout
//	-r float      requests per second (0 = unlimited)
//	-l string     log level
//
// # JSON schema
//
//	{
//	  "api_url": "http://192.168.0.195:8080",
//	  "db_path": "flock.db",
//	  "request_timeout": "10s",
//	  "requests_per_second": 5,
//	  "log_level": "info"
//	}
//
// # Environment
//
//	FLOCK_API_URL, FLOCK_DB_PATH, FLOCK_REQUEST_TIMEOUT,
//	FLOCK_REQUESTS_PER_SECOND, FLOCK_LOG_LEVEL
//
// Malformed values in any source cause a panic at startup.
package config
