package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// PackageInfo is one package discovered in a workspace tree.
type PackageInfo struct {
	Manifest *Manifest

	// Dir is the absolute path of the package directory.
	Dir string

	// RelDir is the package directory relative to the workspace root, using
	// forward slashes. The root package has RelDir ".".
	RelDir string
}

// ManifestPath returns the absolute path of the package's manifest file.
func (p *PackageInfo) ManifestPath() string {
	return filepath.Join(p.Dir, FileName)
}

// RelManifestPath returns the manifest path relative to the workspace root.
func (p *PackageInfo) RelManifestPath() string {
	if p.RelDir == "." {
		return FileName
	}
	return p.RelDir + "/" + FileName
}

// Discover walks root looking for bundle manifests and returns the parsed
// packages sorted by name. Hidden directories, testdata and node_modules are
// skipped. A manifest that fails to parse aborts discovery with an error
// naming the file.
func Discover(root string) ([]*PackageInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	var packages []*PackageInfo
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != absRoot && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
				name == "testdata" || name == "node_modules" || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != FileName {
			return nil
		}

		m, loadErr := Load(path)
		if loadErr != nil {
			return loadErr
		}
		dir := filepath.Dir(path)
		rel, relErr := filepath.Rel(absRoot, dir)
		if relErr != nil {
			return relErr
		}
		packages = append(packages, &PackageInfo{
			Manifest: m,
			Dir:      dir,
			RelDir:   filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("workspace discovery failed: %w", err)
	}

	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Manifest.Package.Name < packages[j].Manifest.Package.Name
	})
	return packages, nil
}

// ValidateAll runs Validate on every package and returns a map of package
// name to validation error for those that failed.
func ValidateAll(packages []*PackageInfo) map[string]error {
	failures := make(map[string]error)
	for _, p := range packages {
		if err := p.Manifest.Validate(); err != nil {
			failures[p.Manifest.Package.Name] = err
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return failures
}
