package main

import (
	"fmt"
	"strings"

	"github.com/meridian-nav/meridian/manifest"
)

// Field identifies one reportable column of a discovered package.
type Field string

const (
	FieldName                 Field = "name"
	FieldVersion              Field = "version"
	FieldModuleRelativePath   Field = "module-relative-path"
	FieldModuleAbsolutePath   Field = "module-absolute-path"
	FieldManifestRelativePath Field = "manifest-relative-path"
	FieldManifestAbsolutePath Field = "manifest-absolute-path"
)

// AllFields lists every field in display order.
var AllFields = []Field{
	FieldName,
	FieldVersion,
	FieldModuleRelativePath,
	FieldModuleAbsolutePath,
	FieldManifestRelativePath,
	FieldManifestAbsolutePath,
}

// Title returns the human-readable column header for the field.
func (f Field) Title() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldVersion:
		return "Version"
	case FieldModuleRelativePath:
		return "Module Relative Path"
	case FieldModuleAbsolutePath:
		return "Module Absolute Path"
	case FieldManifestRelativePath:
		return "Manifest Relative Path"
	case FieldManifestAbsolutePath:
		return "Manifest Absolute Path"
	default:
		return string(f)
	}
}

// Value extracts the field's value from a discovered package.
func (f Field) Value(p *manifest.PackageInfo) string {
	switch f {
	case FieldName:
		return p.Manifest.Package.Name
	case FieldVersion:
		return p.Manifest.Package.Version
	case FieldModuleRelativePath:
		return p.RelDir
	case FieldModuleAbsolutePath:
		return p.Dir
	case FieldManifestRelativePath:
		return p.RelManifestPath()
	case FieldManifestAbsolutePath:
		return p.ManifestPath()
	default:
		return ""
	}
}

// ParseFields parses a comma-separated field list. An empty spec selects
// all fields.
func ParseFields(spec string) ([]Field, error) {
	if strings.TrimSpace(spec) == "" {
		return AllFields, nil
	}
	known := make(map[Field]bool, len(AllFields))
	for _, f := range AllFields {
		known[f] = true
	}
	var out []Field
	for _, part := range strings.Split(spec, ",") {
		f := Field(strings.TrimSpace(part))
		if f == "" {
			continue
		}
		if !known[f] {
			return nil, fmt.Errorf("unknown field %q (available: %s)", f, fieldNames())
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return AllFields, nil
	}
	return out, nil
}

func fieldNames() string {
	names := make([]string, len(AllFields))
	for i, f := range AllFields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
