package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// artifactKey matches dependency refs against published artifacts. The
// extension is deliberately absent: resolution considers only name and
// organization.
type artifactKey struct {
	name string
	org  string
}

func keyOf(r ArtifactRef) artifactKey {
	return artifactKey{name: r.Name, org: r.Organization}
}

// ResolveDependencies computes the names of the projects in the same run
// that satisfy self's extracted dependencies. A dependency no project
// publishes stays unresolved (it may be satisfied externally) and is not an
// error. A dependency published by more than one project means the
// configuration is ambiguous and resolution fails with
// ErrAmbiguousDependency rather than silently picking one match. A project
// never satisfies its own dependencies.
//
// The result is sorted and free of duplicates.
func ResolveDependencies(self ProjectExtraction, all []ProjectExtraction) ([]string, error) {
	publishers := make(map[artifactKey][]string)
	for _, other := range all {
		if other.Config.Name == self.Config.Name {
			continue
		}
		for _, ref := range other.Meta.PublishedArtifacts() {
			k := keyOf(ref)
			if !slices.Contains(publishers[k], other.Config.Name) {
				publishers[k] = append(publishers[k], other.Config.Name)
			}
		}
	}

	depSet := make(map[string]struct{})
	for _, ref := range self.Meta.DependencyArtifacts() {
		candidates := publishers[keyOf(ref)]
		switch len(candidates) {
		case 0:
			// Unresolved; possibly satisfied outside this build.
		case 1:
			depSet[candidates[0]] = struct{}{}
		default:
			sorted := slices.Clone(candidates)
			slices.Sort(sorted)
			err := zerr.With(ErrAmbiguousDependency, "project", self.Config.Name)
			err = zerr.With(err, "artifact", ref.String())
			return nil, zerr.With(err, "candidates", strings.Join(sorted, ", "))
		}
	}

	resolved := make([]string, 0, len(depSet))
	for name := range depSet {
		resolved = append(resolved, name)
	}
	slices.Sort(resolved)
	return resolved, nil
}
