package domain

// ArtifactRef identifies a published artifact by name and organization.
// Equality is structural; the extension is informational and never
// participates in dependency resolution.
type ArtifactRef struct {
	Name         string `yaml:"name"`
	Organization string `yaml:"organization"`
	Extension    string `yaml:"extension,omitempty"`
}

// String renders the ref in "organization:name" form for diagnostics.
func (r ArtifactRef) String() string {
	return r.Organization + ":" + r.Name
}

// ExtractedProject is one publishable unit discovered inside a project's
// checkout: the artifacts it publishes and the artifacts it depends on.
type ExtractedProject struct {
	Name         string        `yaml:"name"`
	Organization string        `yaml:"organization"`
	Artifacts    []ArtifactRef `yaml:"artifacts,omitempty"`
	Dependencies []ArtifactRef `yaml:"dependencies,omitempty"`
}

// ModuleMeta is the metadata extracted from one build-system module:
// its version, the publishable units it contains, and its sub-project names.
type ModuleMeta struct {
	Version     string             `yaml:"version"`
	Projects    []ExtractedProject `yaml:"projects,omitempty"`
	Subprojects []string           `yaml:"subprojects,omitempty"`
}

// ExtractedMeta is the full extraction result for one project.
type ExtractedMeta struct {
	Modules []ModuleMeta `yaml:"modules,omitempty"`
}

// PublishedArtifacts flattens every artifact the project publishes, in
// declaration order.
func (m ExtractedMeta) PublishedArtifacts() []ArtifactRef {
	var refs []ArtifactRef
	for _, mod := range m.Modules {
		for _, p := range mod.Projects {
			refs = append(refs, p.Artifacts...)
		}
	}
	return refs
}

// DependencyArtifacts flattens every artifact the project depends on, in
// declaration order.
func (m ExtractedMeta) DependencyArtifacts() []ArtifactRef {
	var refs []ArtifactRef
	for _, mod := range m.Modules {
		for _, p := range mod.Projects {
			refs = append(refs, p.Dependencies...)
		}
	}
	return refs
}

// ProjectExtraction pairs a project's configuration with its extracted
// metadata. Produced once per project by the extraction phase and immutable
// thereafter.
type ProjectExtraction struct {
	Config ProjectConfig `yaml:"config"`
	Meta   ExtractedMeta `yaml:"meta"`
}
