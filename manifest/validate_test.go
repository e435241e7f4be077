package manifest

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateUmbrella(t *testing.T) {
	m := loadUmbrella(t)
	if err := m.Validate(); err != nil {
		t.Fatalf("umbrella manifest failed validation: %v", err)
	}

	// Every feature that activates a dependency must reference an optional
	// one; Validate enforces it, but check the declarations directly too so
	// a future manifest edit cannot weaken both sides at once.
	for feature, entries := range m.Features {
		for _, entry := range entries {
			a, err := ParseActivation(entry)
			if err != nil {
				t.Fatalf("feature %q entry %q: %v", feature, entry, err)
			}
			if a.Kind != ActivateDep {
				continue
			}
			dep, ok := m.Dependencies[a.Dep]
			if !ok {
				t.Errorf("feature %q activates undeclared dependency %q", feature, a.Dep)
			} else if !dep.Optional {
				t.Errorf("feature %q activates non-optional dependency %q", feature, a.Dep)
			}
		}
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "dep activation on non-optional dependency",
			doc: `
package: {name: bad, version: 0.0.1}
dependencies:
  core: {version: "1"}
features:
  core: [dep:core]
`,
			want: ErrNotOptional,
		},
		{
			name: "undeclared dependency",
			doc: `
package: {name: bad, version: 0.0.1}
features:
  remote: [dep:client]
`,
			want: ErrUnknownDependency,
		},
		{
			name: "undeclared dependency in weak edge",
			doc: `
package: {name: bad, version: 0.0.1}
features:
  std: ["client?/std"]
`,
			want: ErrUnknownDependency,
		},
		{
			name: "undeclared feature reference",
			doc: `
package: {name: bad, version: 0.0.1}
features:
  full: [parsing]
`,
			want: ErrUnknownFeature,
		},
		{
			name: "feature cycle",
			doc: `
package: {name: bad, version: 0.0.1}
features:
  a: [b]
  b: [c]
  c: [a]
`,
			want: ErrFeatureCycle,
		},
		{
			name: "self cycle",
			doc: `
package: {name: bad, version: 0.0.1}
features:
  a: [a]
`,
			want: ErrFeatureCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := parseManifest(t, tt.doc)
			err := m.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	m := parseManifest(t, `
package: {name: bad, version: 0.0.1}
dependencies:
  core: {version: "1"}
features:
  a: [dep:core]
  b: [dep:missing]
  c: [ghost]
`)
	err := m.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want errors")
	}
	for _, want := range []error{ErrNotOptional, ErrUnknownDependency, ErrUnknownFeature} {
		if !errors.Is(err, want) {
			t.Errorf("Validate() missing %v in %v", want, err)
		}
	}
}

func TestValidateCyclePath(t *testing.T) {
	m := parseManifest(t, `
package: {name: bad, version: 0.0.1}
features:
  a: [b]
  b: [a]
`)
	err := m.Validate()
	if !errors.Is(err, ErrFeatureCycle) {
		t.Fatalf("Validate() error = %v, want cycle", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "a -> b") && !strings.Contains(msg, "b -> a") {
		t.Errorf("cycle error %q does not show the path", msg)
	}
}

func TestValidateAcceptsValidGraph(t *testing.T) {
	m := parseManifest(t, syntheticDoc)
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
