// Package script implements the default build system. A project carries a
// weft.yaml manifest describing what it publishes, what it consumes, and
// the shell commands that build it. Commands deposit one entry per
// publishable unit into the directory named by WEFT_ARTIFACTS_DIR and find
// dependency artifacts through WEFT_DEP_DIR_<NAME>.
package script

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/weft-build/weft/internal/core/domain"
)

// ManifestFile is the manifest filename at a module root.
const ManifestFile = "weft.yaml"

// Manifest is the on-disk description of one module.
type Manifest struct {
	Version  string            `yaml:"version"`
	Projects []ManifestProject `yaml:"projects"`
	// Modules lists relative directories containing nested modules, each
	// with its own manifest.
	Modules []string  `yaml:"modules"`
	Build   BuildSpec `yaml:"build"`
}

// ManifestProject declares one publishable project of a module.
type ManifestProject struct {
	Name         string             `yaml:"name"`
	Organization string             `yaml:"organization"`
	Artifacts    []ManifestArtifact `yaml:"artifacts"`
	Dependencies []ManifestArtifact `yaml:"dependencies"`
}

// ManifestArtifact names an artifact, as published or as consumed.
type ManifestArtifact struct {
	Name         string `yaml:"name"`
	Organization string `yaml:"organization"`
	Extension    string `yaml:"extension"`
}

// BuildSpec carries the module's build commands. TestCommands run after
// Commands unless the project disables tests.
type BuildSpec struct {
	Commands     []string          `yaml:"commands"`
	TestCommands []string          `yaml:"test-commands"`
	Env          map[string]string `yaml:"env"`
}

// LoadManifest reads and parses dir/weft.yaml.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path) //nolint:gosec // path is rooted in a scoped working directory
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return m, nil
}

// ParseManifest decodes and validates a manifest. Unknown keys are
// rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Projects) == 0 {
		return zerr.New("manifest declares no projects")
	}
	for _, p := range m.Projects {
		if p.Name == "" {
			return zerr.New("manifest project without a name")
		}
	}
	for _, sub := range m.Modules {
		if !isCleanRelative(sub) {
			return zerr.With(zerr.New("manifest module path must be a clean relative path"), "module", sub)
		}
	}
	return nil
}

// isCleanRelative reports whether path stays below the directory it is
// resolved against. Manifests come from fetched sources and must not be
// able to address anything outside their checkout.
func isCleanRelative(path string) bool {
	if path == "" || path == "." || path == ".." || filepath.IsAbs(path) {
		return false
	}
	if path != filepath.Clean(path) {
		return false
	}
	return !strings.HasPrefix(path, ".."+string(filepath.Separator))
}

// Module maps the manifest onto the domain form. Artifact lists default to
// a single artifact named after the project, in the project's organization.
func (m *Manifest) Module() domain.ModuleMeta {
	meta := domain.ModuleMeta{
		Version:     m.Version,
		Projects:    make([]domain.ExtractedProject, len(m.Projects)),
		Subprojects: make([]string, len(m.Projects)),
	}
	for i, p := range m.Projects {
		meta.Projects[i] = domain.ExtractedProject{
			Name:         p.Name,
			Organization: p.Organization,
			Artifacts:    artifactRefs(p.Artifacts, p),
			Dependencies: artifactRefs(p.Dependencies, ManifestProject{}),
		}
		meta.Subprojects[i] = p.Name
	}
	return meta
}

func artifactRefs(list []ManifestArtifact, defaults ManifestProject) []domain.ArtifactRef {
	if len(list) == 0 && defaults.Name != "" {
		return []domain.ArtifactRef{{Name: defaults.Name, Organization: defaults.Organization}}
	}
	refs := make([]domain.ArtifactRef, len(list))
	for i, a := range list {
		org := a.Organization
		if org == "" {
			org = defaults.Organization
		}
		refs[i] = domain.ArtifactRef{Name: a.Name, Organization: org, Extension: a.Extension}
	}
	return refs
}
