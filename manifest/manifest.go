// Package manifest models bundle manifests: packages that aggregate optional
// dependencies behind named feature flags. A feature maps to a list of
// activations which may turn on optional dependencies, enable sub-features of
// dependencies, or pull in sibling features of the same package.
package manifest

import (
	"fmt"
	"strings"
)

// Package holds the identity block of a bundle manifest.
type Package struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
	Categories  []string `yaml:"categories,omitempty"`
}

// Dependency describes a single declared dependency of a bundle.
type Dependency struct {
	// Path is the workspace-relative location of the dependency, if it is a
	// sibling package rather than a registry one.
	Path string `yaml:"path,omitempty"`

	// Version is the semantic version constraint.
	Version string `yaml:"version,omitempty"`

	// Optional dependencies are only built when a feature activates them.
	Optional bool `yaml:"optional,omitempty"`

	// DefaultFeatures controls whether the dependency's own "default" feature
	// is enabled. Nil means true.
	DefaultFeatures *bool `yaml:"default-features,omitempty"`
}

// Manifest is a parsed bundle manifest.
type Manifest struct {
	Package      Package               `yaml:"package"`
	Dependencies map[string]Dependency `yaml:"dependencies,omitempty"`
	Features     map[string][]string   `yaml:"features,omitempty"`

	// path records where the manifest was loaded from, if it came from disk.
	path string
}

// Path returns the file path the manifest was loaded from, or "" for
// manifests parsed from a reader.
func (m *Manifest) Path() string { return m.path }

// ActivationKind discriminates the four forms a feature entry can take.
type ActivationKind int

const (
	// ActivateFeature enables another feature of the same package ("feat").
	ActivateFeature ActivationKind = iota

	// ActivateDep turns on an optional dependency ("dep:name").
	ActivateDep

	// ActivateDepFeature turns on a dependency (activating it if optional)
	// and enables one of its features ("name/feat").
	ActivateDepFeature

	// ActivateWeakDepFeature enables a feature of a dependency only if the
	// dependency is already active ("name?/feat").
	ActivateWeakDepFeature
)

// Activation is a single parsed entry from a feature's activation list.
type Activation struct {
	Kind    ActivationKind
	Dep     string // dependency name, empty for ActivateFeature
	Feature string // feature name; for ActivateDep this is empty
}

// String renders the activation back in manifest syntax.
func (a Activation) String() string {
	switch a.Kind {
	case ActivateDep:
		return "dep:" + a.Dep
	case ActivateDepFeature:
		return a.Dep + "/" + a.Feature
	case ActivateWeakDepFeature:
		return a.Dep + "?/" + a.Feature
	default:
		return a.Feature
	}
}

// ParseActivation parses one feature-list entry. The accepted forms are
// "feat", "dep:name", "name/feat" and "name?/feat".
func ParseActivation(s string) (Activation, error) {
	if s == "" {
		return Activation{}, fmt.Errorf("empty activation")
	}
	if rest, ok := strings.CutPrefix(s, "dep:"); ok {
		if rest == "" || strings.ContainsAny(rest, "/?") {
			return Activation{}, fmt.Errorf("invalid dependency activation %q", s)
		}
		return Activation{Kind: ActivateDep, Dep: rest}, nil
	}
	if dep, feat, ok := strings.Cut(s, "/"); ok {
		if feat == "" || strings.Contains(feat, "/") {
			return Activation{}, fmt.Errorf("invalid dependency feature activation %q", s)
		}
		if weak, ok := strings.CutSuffix(dep, "?"); ok {
			if weak == "" {
				return Activation{}, fmt.Errorf("invalid weak activation %q", s)
			}
			return Activation{Kind: ActivateWeakDepFeature, Dep: weak, Feature: feat}, nil
		}
		if dep == "" {
			return Activation{}, fmt.Errorf("invalid dependency feature activation %q", s)
		}
		return Activation{Kind: ActivateDepFeature, Dep: dep, Feature: feat}, nil
	}
	if strings.Contains(s, "?") {
		return Activation{}, fmt.Errorf("invalid activation %q", s)
	}
	return Activation{Kind: ActivateFeature, Feature: s}, nil
}

// activations parses and returns the activation list for a named feature.
func (m *Manifest) activations(feature string) ([]Activation, error) {
	entries, ok := m.Features[feature]
	if !ok {
		return nil, fmt.Errorf("feature %q: %w", feature, ErrUnknownFeature)
	}
	out := make([]Activation, 0, len(entries))
	for _, e := range entries {
		a, err := ParseActivation(e)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", feature, err)
		}
		out = append(out, a)
	}
	return out, nil
}
