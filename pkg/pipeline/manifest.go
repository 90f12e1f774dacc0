package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFileName is the JSON manifest mapping logical component names
// to their bundle filename and import list.
const ManifestFileName = "components.manifest.json"

// ManifestEntry describes one bundled component.
type ManifestEntry struct {
	Bundle  string   `json:"bundle"`
	Imports []string `json:"imports"`
}

// Manifest maps component names to their bundle metadata.
type Manifest struct {
	Components map[string]ManifestEntry `json:"components"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{Components: make(map[string]ManifestEntry)}
}

// Add records a component bundle.
func (m *Manifest) Add(name, bundle string, imports []string) {
	if imports == nil {
		imports = []string{}
	}
	m.Components[name] = ManifestEntry{Bundle: bundle, Imports: imports}
}

// Write persists the manifest into dir.
func (m *Manifest) Write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a previously written manifest from dir.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
