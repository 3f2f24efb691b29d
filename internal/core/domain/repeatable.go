package domain

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ProjectBuild is one project of a repeatable build: its configuration, the
// names of the in-run projects it depends on (resolved from extracted
// metadata, sorted, unique), and its content-derived identity. It is the
// dependency-graph node payload.
//
// DependencyUUIDs holds the identities of the builds named in Dependencies,
// index-aligned. They are derivable and therefore excluded from identity
// hashing, but serialized so a builder worker can locate its dependencies'
// artifacts without seeing the rest of the build.
type ProjectBuild struct {
	Config          ProjectConfig `yaml:"config"`
	Dependencies    []string      `yaml:"dependencies,omitempty"`
	DependencyUUIDs []string      `yaml:"dependency-uuids,omitempty"`
	UUID            string        `yaml:"uuid"`
}

// Name returns the configured project name.
func (b ProjectBuild) Name() string { return b.Config.Name }

// RepeatableBuild is the fully analyzed form of a distributed build: every
// project with resolved dependency edges and identity, in input-config
// order, plus the overall build identity. The derived graph and name index
// are rebuilt on parse and never serialized.
type RepeatableBuild struct {
	UUID   string         `yaml:"uuid"`
	Builds []ProjectBuild `yaml:"builds"`

	graph  *Graph
	byName map[string]*ProjectBuild
}

// AssembleRepeatable turns the extraction results of every project into a
// RepeatableBuild: it resolves cross-project dependencies, derives each
// project's identity and the overall identity, and validates the dependency
// graph. A duplicate name, an ambiguous dependency, or a dependency cycle
// fails assembly; nothing is built after a failed assembly.
func AssembleRepeatable(extractions []ProjectExtraction) (*RepeatableBuild, error) {
	seen := make(map[string]struct{}, len(extractions))
	for _, ex := range extractions {
		if _, dup := seen[ex.Config.Name]; dup {
			return nil, zerr.With(ErrDuplicateProject, "project", ex.Config.Name)
		}
		seen[ex.Config.Name] = struct{}{}
	}

	builds := make([]ProjectBuild, len(extractions))
	uuidByName := make(map[string]string, len(extractions))
	for i, ex := range extractions {
		deps, err := ResolveDependencies(ex, extractions)
		if err != nil {
			return nil, err
		}
		uuid, err := projectUUID(ex.Config, deps)
		if err != nil {
			return nil, zerr.With(err, "project", ex.Config.Name)
		}
		builds[i] = ProjectBuild{Config: ex.Config, Dependencies: deps, UUID: uuid}
		uuidByName[ex.Config.Name] = uuid
	}

	// Second pass: every project identity is known now, so the dependency
	// identities can be filled in.
	for i := range builds {
		if len(builds[i].Dependencies) == 0 {
			continue
		}
		ids := make([]string, len(builds[i].Dependencies))
		for j, dep := range builds[i].Dependencies {
			ids[j] = uuidByName[dep]
		}
		builds[i].DependencyUUIDs = ids
	}

	uuid, err := repeatableUUID(builds)
	if err != nil {
		return nil, err
	}

	rb := &RepeatableBuild{UUID: uuid, Builds: builds}
	if err := rb.index(); err != nil {
		return nil, err
	}
	return rb, nil
}

// index rebuilds the name map and the validated dependency graph.
func (b *RepeatableBuild) index() error {
	b.byName = make(map[string]*ProjectBuild, len(b.Builds))
	g := NewGraph()
	for i := range b.Builds {
		pb := &b.Builds[i]
		if err := g.AddNode(pb); err != nil {
			return err
		}
		b.byName[pb.Name()] = pb
	}
	if err := g.Validate(); err != nil {
		return err
	}
	b.graph = g
	return nil
}

// Graph returns the validated dependency graph over the constituent builds.
func (b *RepeatableBuild) Graph() *Graph { return b.graph }

// BuildFor returns the constituent build for name.
func (b *RepeatableBuild) BuildFor(name string) (*ProjectBuild, bool) {
	pb, ok := b.byName[name]
	return pb, ok
}

// Canonical returns the deterministic serialization of the build, used for
// publishing, logging, and replay. ParseRepeatable inverts it.
func (b *RepeatableBuild) Canonical() ([]byte, error) {
	data, err := yaml.Marshal(b)
	if err != nil {
		return nil, zerr.Wrap(err, "encoding repeatable build")
	}
	return data, nil
}

// ParseRepeatable decodes a canonical serialization produced by Canonical
// and revalidates the derived graph.
func ParseRepeatable(data []byte) (*RepeatableBuild, error) {
	var rb RepeatableBuild
	if err := yaml.Unmarshal(data, &rb); err != nil {
		return nil, zerr.Wrap(err, "decoding repeatable build")
	}
	if err := rb.index(); err != nil {
		return nil, err
	}
	return &rb, nil
}
