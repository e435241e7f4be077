package manifest

import (
	"fmt"
	"sort"
)

// Resolution is the result of resolving a set of enabled features: which
// features of the package ended up active, which dependencies are built, and
// which sub-features each dependency gets.
type Resolution struct {
	// Features holds the activated features of the package, sorted.
	Features []string

	// Dependencies maps each active dependency to the sorted list of
	// sub-features enabled on it. Non-optional dependencies are always
	// present; optional ones appear only when a feature activated them.
	Dependencies map[string][]string
}

// HasDependency reports whether dep is active in the resolution.
func (r *Resolution) HasDependency(dep string) bool {
	_, ok := r.Dependencies[dep]
	return ok
}

// DependencyFeatures returns the sub-features enabled on dep, or nil if the
// dependency is not active.
func (r *Resolution) DependencyFeatures(dep string) []string {
	return r.Dependencies[dep]
}

// Resolve computes the transitive closure of the given enabled features.
// Resolution iterates to a fixpoint, so the order of the enabled list does
// not matter. Weak activations ("name?/feat") only take effect when the
// dependency was activated by some other edge.
func (m *Manifest) Resolve(enabled ...string) (*Resolution, error) {
	type weakEdge struct {
		dep, feature string
	}

	activeFeatures := make(map[string]bool, len(m.Features))
	activeDeps := make(map[string]bool, len(m.Dependencies))
	depFeatures := make(map[string]map[string]bool)
	var weak []weakEdge

	// Non-optional dependencies are always built.
	for name, dep := range m.Dependencies {
		if !dep.Optional {
			activeDeps[name] = true
		}
	}

	enableDepFeature := func(dep, feature string) {
		set, ok := depFeatures[dep]
		if !ok {
			set = make(map[string]bool)
			depFeatures[dep] = set
		}
		set[feature] = true
	}

	queue := make([]string, 0, len(enabled))
	push := func(feature string) error {
		if activeFeatures[feature] {
			return nil
		}
		if _, ok := m.Features[feature]; !ok {
			return fmt.Errorf("feature %q: %w", feature, ErrUnknownFeature)
		}
		activeFeatures[feature] = true
		queue = append(queue, feature)
		return nil
	}

	for _, feature := range enabled {
		if err := push(feature); err != nil {
			return nil, err
		}
	}

	for len(queue) > 0 {
		feature := queue[0]
		queue = queue[1:]

		acts, err := m.activations(feature)
		if err != nil {
			return nil, err
		}
		for _, a := range acts {
			switch a.Kind {
			case ActivateFeature:
				if err := push(a.Feature); err != nil {
					return nil, fmt.Errorf("feature %q: %w", feature, err)
				}
			case ActivateDep:
				if _, ok := m.Dependencies[a.Dep]; !ok {
					return nil, fmt.Errorf("feature %q: dependency %q: %w", feature, a.Dep, ErrUnknownDependency)
				}
				activeDeps[a.Dep] = true
			case ActivateDepFeature:
				if _, ok := m.Dependencies[a.Dep]; !ok {
					return nil, fmt.Errorf("feature %q: dependency %q: %w", feature, a.Dep, ErrUnknownDependency)
				}
				activeDeps[a.Dep] = true
				enableDepFeature(a.Dep, a.Feature)
			case ActivateWeakDepFeature:
				if _, ok := m.Dependencies[a.Dep]; !ok {
					return nil, fmt.Errorf("feature %q: dependency %q: %w", feature, a.Dep, ErrUnknownDependency)
				}
				weak = append(weak, weakEdge{dep: a.Dep, feature: a.Feature})
			}
		}
	}

	// Weak edges cannot activate a dependency themselves, so a single pass
	// after the fixpoint is sufficient.
	for _, w := range weak {
		if activeDeps[w.dep] {
			enableDepFeature(w.dep, w.feature)
		}
	}

	res := &Resolution{
		Features:     make([]string, 0, len(activeFeatures)),
		Dependencies: make(map[string][]string, len(activeDeps)),
	}
	for feature := range activeFeatures {
		res.Features = append(res.Features, feature)
	}
	sort.Strings(res.Features)
	for dep := range activeDeps {
		feats := make([]string, 0, len(depFeatures[dep]))
		for f := range depFeatures[dep] {
			feats = append(feats, f)
		}
		sort.Strings(feats)
		res.Dependencies[dep] = feats
	}
	return res, nil
}

// ResolveWithDefaults resolves the given features plus the package's
// "default" feature, when one is declared.
func (m *Manifest) ResolveWithDefaults(enabled ...string) (*Resolution, error) {
	if _, ok := m.Features["default"]; ok {
		enabled = append([]string{"default"}, enabled...)
	}
	return m.Resolve(enabled...)
}
