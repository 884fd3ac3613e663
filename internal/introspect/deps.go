package introspect

import "strings"

var versionOperators = []string{"==", ">=", "<=", ">", "<"}

// splitSpecifier splits a raw dependency specifier like "click>=8.0.0" into
// the package name and the operator-prefixed version spec (nil if none).
func splitSpecifier(spec string) (string, *string) {
	cut := len(spec)
	for _, op := range versionOperators {
		if i := strings.Index(spec, op); i >= 0 && i < cut {
			cut = i
		}
	}
	name := strings.TrimSpace(spec[:cut])
	if cut == len(spec) {
		return name, nil
	}
	version := strings.TrimSpace(spec[cut:])
	return name, &version
}

// ResolveDependencies merges the two candidate sources: specifiers declared
// in the inline metadata block (tagged Declared, authoritative) followed by
// top-level import names (tagged Inferred, heuristic). Inferred candidates
// deliberately include standard-library modules — nothing filters against a
// known-stdlib list. No deduplication is performed across provenance.
func ResolveDependencies(block *InlineMetadataBlock, imports []ImportInfo) []DependencyInfo {
	deps := []DependencyInfo{}

	if block != nil {
		for _, spec := range block.Dependencies {
			name, version := splitSpecifier(spec)
			deps = append(deps, DependencyInfo{
				Name:        name,
				VersionSpec: version,
				Provenance:  ProvenanceDeclared,
			})
		}
	}

	for _, imp := range imports {
		m := imp.Module
		// Only undotted, non-relative module names look like installable
		// top-level packages.
		if m == "" || strings.HasPrefix(m, ".") || strings.Contains(m, ".") {
			continue
		}
		deps = append(deps, DependencyInfo{
			Name:       m,
			Provenance: ProvenanceInferred,
		})
	}

	return deps
}
