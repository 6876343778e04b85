// Package core provides shared configuration and collaborator interfaces
// for the Lucy generation node backend.
package core

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultBaseURL is the Decart generation endpoint prefix. Model names are
// appended directly, so the trailing slash is significant.
const DefaultBaseURL = "https://api.decart.ai/v1/generate/"

// APIKeyEnvVar is the environment variable holding the Decart API key.
const APIKeyEnvVar = "DECART_API_KEY"

// Config holds all configuration values for the node backend.
type Config struct {
	// Provider configuration
	DecartBaseURL string

	// Static file persistence
	StaticFilesDir string // Directory where output artifacts are written
	StaticBaseURL  string // Public URL prefix for persisted artifacts
	StaticDBPath   string // SQLite artifact index path ("" disables the index)

	// Generation behavior
	// GenerationTimeout bounds a single provider round trip. Zero means no
	// timeout, which matches the provider's own behavior and is the default;
	// generations can take tens of seconds.
	GenerationTimeout time.Duration

	// Transport
	AllowSelfSignedCerts bool

	// Logging
	LogFile string
	DevMode bool
}

// LoadConfig reads configuration from environment variables.
// Call godotenv.Load (or equivalent) before this if a .env file is used.
//
// The API key itself is deliberately not part of Config; it is resolved
// per-execution through a SecretResolver so hosts can substitute their own
// secret storage.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DecartBaseURL:        GetEnvOrDefault("DECART_BASE_URL", DefaultBaseURL),
		StaticFilesDir:       GetEnvOrDefault("STATIC_FILES_DIR", "static"),
		StaticBaseURL:        GetEnvOrDefault("STATIC_BASE_URL", "http://localhost:8088/static"),
		StaticDBPath:         GetEnvOrDefault("STATIC_DB_PATH", ""),
		GenerationTimeout:    ParseSecondsEnv("GENERATION_TIMEOUT_SECONDS", 0),
		AllowSelfSignedCerts: ParseBoolEnv("ALLOW_SELF_SIGNED_CERTS", false),
		LogFile:              GetEnvOrDefault("LOG_FILE", "lucy_nodes.log"),
		DevMode:              ParseBoolEnv("DEV_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants and returns an actionable
// ConfigError for the first violation found.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.DecartBaseURL)
	if err != nil {
		return ErrInvalidBaseURL(c.DecartBaseURL, err.Error())
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidBaseURL(c.DecartBaseURL, "scheme must be http or https")
	}
	if !strings.HasSuffix(c.DecartBaseURL, "/") {
		return ErrInvalidBaseURL(c.DecartBaseURL, "missing trailing slash")
	}

	if c.StaticFilesDir == "" {
		return ErrInvalidDir("STATIC_FILES_DIR", c.StaticFilesDir, "empty path")
	}
	if info, err := os.Stat(c.StaticFilesDir); err == nil && !info.IsDir() {
		return ErrInvalidDir("STATIC_FILES_DIR", c.StaticFilesDir, "path exists but is not a directory")
	}

	return nil
}

// GetHTTPClient returns an HTTP client configured from this Config.
//
// The timeout parameter bounds the full request/response cycle. A zero
// timeout produces a client with no deadline, which is the provider
// client's documented default.
func (c *Config) GetHTTPClient(timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}
	if c.AllowSelfSignedCerts {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit opt-in
		}
	}
	return client
}
