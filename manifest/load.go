package manifest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the canonical name of a bundle manifest within a package
// directory.
const FileName = "bundle.yml"

// maxManifestSize bounds how much of a manifest file we will read.
const maxManifestSize = 1 * 1024 * 1024 // 1MB

// Load reads and parses a bundle manifest from disk. The parsed manifest
// remembers its path for later workspace reporting.
func Load(path string) (*Manifest, error) {
	cleanPath := filepath.Clean(path)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest: %w", err)
	}
	if fileInfo.Size() > maxManifestSize {
		return nil, fmt.Errorf("manifest too large: %d bytes (max %d)", fileInfo.Size(), maxManifestSize)
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	m.path = cleanPath
	return m, nil
}

// Parse decodes a bundle manifest from r. Unknown top-level or nested keys
// are rejected so typos surface early.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}
	if m.Package.Name == "" {
		return nil, fmt.Errorf("manifest missing package name")
	}
	if m.Package.Version == "" {
		return nil, fmt.Errorf("manifest %q missing package version", m.Package.Name)
	}
	return &m, nil
}
