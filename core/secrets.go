package core

import "os"

// SecretResolver is the interface for fetching API credentials by name.
//
// The node runner resolves the provider key through this interface instead of
// reading the environment directly, so hosts with their own secret storage
// (and tests) can substitute implementations.
type SecretResolver interface {
	// GetSecret returns the secret value for the given key name.
	// The second return value is false when the secret is absent or empty.
	GetSecret(name string) (string, bool)
}

// EnvSecretResolver resolves secrets from process environment variables.
type EnvSecretResolver struct{}

// GetSecret returns the environment variable value, treating empty as absent.
func (EnvSecretResolver) GetSecret(name string) (string, bool) {
	value := os.Getenv(name)
	return value, value != ""
}

// StaticSecretResolver resolves secrets from a fixed map. Intended for tests
// and embedded hosts that manage credentials themselves.
type StaticSecretResolver map[string]string

// GetSecret returns the mapped value, treating empty as absent.
func (s StaticSecretResolver) GetSecret(name string) (string, bool) {
	value, ok := s[name]
	return value, ok && value != ""
}

// Compile-time interface checks.
var (
	_ SecretResolver = EnvSecretResolver{}
	_ SecretResolver = StaticSecretResolver(nil)
)
