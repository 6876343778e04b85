package nodes

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LibraryName identifies this node library to hosts.
const LibraryName = "decart-lucy"

// LibraryVersion is bumped when node declarations change shape.
const LibraryVersion = "1.0.0"

// Manifest is the node-library document a graph host consumes to discover
// the available nodes without loading the library itself.
type Manifest struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	// APIKeyEnvVar names the secret every node in this library requires.
	APIKeyEnvVar string     `yaml:"api_key_env_var"`
	Nodes        []NodeSpec `yaml:"nodes"`
}

// NewManifest builds the manifest from the operation table.
func NewManifest(apiKeyEnvVar string) Manifest {
	return Manifest{
		Name:         LibraryName,
		Version:      LibraryVersion,
		APIKeyEnvVar: apiKeyEnvVar,
		Nodes:        NodeSpecs(),
	}
}

// WriteManifest serializes the manifest as YAML to w.
func WriteManifest(w io.Writer, m Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("nodes: failed to encode manifest: %w", err)
	}
	return enc.Close()
}

// ReadManifest parses a YAML manifest, for hosts that persist one.
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("nodes: failed to decode manifest: %w", err)
	}
	return m, nil
}
