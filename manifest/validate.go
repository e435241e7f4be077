package manifest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors reported by Validate and Resolve. They are always wrapped
// with the feature or dependency name involved.
var (
	ErrUnknownFeature    = errors.New("unknown feature")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrNotOptional       = errors.New("dependency is not optional")
	ErrFeatureCycle      = errors.New("feature cycle")
)

// Validate checks the configuration-consistency rules of the manifest:
//
//   - every "dep:name" activation references a declared, optional dependency
//   - every "name/feat" or "name?/feat" activation references a declared
//     dependency
//   - every bare feature activation references a declared feature
//   - the feature graph is acyclic
//
// All problems found are returned joined, not just the first.
func (m *Manifest) Validate() error {
	var problems []error

	for _, feature := range m.featureNames() {
		acts, err := m.activations(feature)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		for _, a := range acts {
			switch a.Kind {
			case ActivateFeature:
				if _, ok := m.Features[a.Feature]; !ok {
					problems = append(problems, fmt.Errorf("feature %q references feature %q: %w", feature, a.Feature, ErrUnknownFeature))
				}
			case ActivateDep:
				dep, ok := m.Dependencies[a.Dep]
				if !ok {
					problems = append(problems, fmt.Errorf("feature %q references dependency %q: %w", feature, a.Dep, ErrUnknownDependency))
				} else if !dep.Optional {
					problems = append(problems, fmt.Errorf("feature %q activates dependency %q: %w", feature, a.Dep, ErrNotOptional))
				}
			case ActivateDepFeature, ActivateWeakDepFeature:
				if _, ok := m.Dependencies[a.Dep]; !ok {
					problems = append(problems, fmt.Errorf("feature %q references dependency %q: %w", feature, a.Dep, ErrUnknownDependency))
				}
			}
		}
	}

	if cycle := m.findFeatureCycle(); cycle != nil {
		problems = append(problems, fmt.Errorf("%w: %s", ErrFeatureCycle, strings.Join(cycle, " -> ")))
	}

	return errors.Join(problems...)
}

// featureNames returns the declared feature names in sorted order so
// validation output is deterministic.
func (m *Manifest) featureNames() []string {
	names := make([]string, 0, len(m.Features))
	for name := range m.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// findFeatureCycle walks the bare feature-to-feature edges and returns the
// first cycle found as a path of feature names, or nil.
func (m *Manifest) findFeatureCycle() []string {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(m.Features))

	var cycle []string
	var visit func(name string, path []string) bool
	visit = func(name string, path []string) bool {
		state[name] = visiting
		path = append(path, name)
		for _, entry := range m.Features[name] {
			a, err := ParseActivation(entry)
			if err != nil || a.Kind != ActivateFeature {
				continue
			}
			next := a.Feature
			switch state[next] {
			case visiting:
				// Trim the path to start at the repeated node.
				for i, p := range path {
					if p == next {
						cycle = append(append([]string{}, path[i:]...), next)
						return true
					}
				}
			case unvisited:
				if _, ok := m.Features[next]; ok {
					if visit(next, path) {
						return true
					}
				}
			}
		}
		state[name] = done
		return false
	}

	for _, name := range m.featureNames() {
		if state[name] == unvisited {
			if visit(name, nil) {
				return cycle
			}
		}
	}
	return nil
}
