// Package buildsys routes extraction and build requests to the build system
// selected by each project's system tag.
package buildsys

import (
	"context"

	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports"
)

// System is one pluggable build system: it knows how to extract a project's
// metadata and how to build it.
type System interface {
	ports.Extractor
	ports.Builder
	// Name is the system tag projects select in their configuration.
	Name() string
}

// Registry implements ports.Extractor and ports.Builder by dispatching on
// the project's effective system tag. An unknown tag surfaces at extraction
// time, before anything is built.
type Registry struct {
	systems map[string]System
}

// NewRegistry creates a Registry over systems.
func NewRegistry(systems ...System) (*Registry, error) {
	r := &Registry{systems: make(map[string]System, len(systems))}
	for _, s := range systems {
		if _, dup := r.systems[s.Name()]; dup {
			return nil, zerr.With(zerr.New("build system registered twice"), "system", s.Name())
		}
		r.systems[s.Name()] = s
	}
	return r, nil
}

// Extract dispatches to the project's build system.
func (r *Registry) Extract(ctx context.Context, cfg domain.ProjectConfig, dir string, log ports.Logger) (domain.ExtractedMeta, error) {
	sys, err := r.lookup(cfg.EffectiveSystem())
	if err != nil {
		return domain.ExtractedMeta{}, err
	}
	return sys.Extract(ctx, cfg, dir, log)
}

// Build dispatches to the project's build system.
func (r *Registry) Build(ctx context.Context, dir string, build domain.ProjectBuild, expected []string, log ports.Logger) (domain.Outcome, error) {
	sys, err := r.lookup(build.Config.EffectiveSystem())
	if err != nil {
		return nil, err
	}
	return sys.Build(ctx, dir, build, expected, log)
}

func (r *Registry) lookup(name string) (System, error) {
	sys, ok := r.systems[name]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownBuildSystem, "system", name)
	}
	return sys, nil
}
