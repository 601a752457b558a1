// Package config loads service configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything the server binary needs to wire itself up.
type Config struct {
	// Addr is the listen address, default ":8080".
	Addr string
	// LogLevel is debug|info|warn|error, default info.
	LogLevel string
	// LogFormat is json|text, default json.
	LogFormat string
	// DatabaseURL selects the postgres store when set.
	DatabaseURL string
	// SQLitePath selects the sqlite store when set (and DatabaseURL is not).
	SQLitePath string
	// AccountsFile optionally points at a YAML chart-of-accounts override.
	AccountsFile string
	// APIToken enables bearer-token auth on the v1 API when set.
	APIToken string
	// BaseCurrency anchors portfolio reporting, default USD.
	BaseCurrency string
}

// Load reads the environment, after best-effort loading a .env file from
// the working directory.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:         getenv("ADDR", ":8080"),
		LogLevel:     strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:    strings.ToLower(getenv("LOG_FORMAT", "json")),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:   strings.TrimSpace(os.Getenv("SQLITE_PATH")),
		AccountsFile: strings.TrimSpace(os.Getenv("ACCOUNTS_FILE")),
		APIToken:     strings.TrimSpace(os.Getenv("API_TOKEN")),
		BaseCurrency: strings.ToUpper(getenv("BASE_CURRENCY", "USD")),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
