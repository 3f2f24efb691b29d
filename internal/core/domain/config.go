// Package domain contains the core data model and business logic for
// distributed multi-project builds: project configuration, extracted build
// metadata, dependency resolution, the repeatable-build identity scheme, and
// the per-project outcome model.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// DefaultSystem is the build-system tag assumed when a project does not name one.
const DefaultSystem = "script"

// ProjectConfig describes one project of a distributed build: where its
// source lives, which build system drives it, and system-specific options.
// Values are immutable once loaded; identity is the content hash of the
// whole value.
type ProjectConfig struct {
	Name   string       `yaml:"name"`
	System string       `yaml:"system"`
	URI    string       `yaml:"uri"`
	Extra  *ExtraConfig `yaml:"extra,omitempty"`
}

// ExtraConfig carries the build-system-specific options of a project.
type ExtraConfig struct {
	// BuildToolVersion selects a specific build-tool release; empty means
	// the system default.
	BuildToolVersion string `yaml:"build-tool-version,omitempty"`
	// Directory is the subpath within the checkout that holds the project.
	Directory string `yaml:"directory,omitempty"`
	// MeasurePerformance asks the build system to record timing data.
	MeasurePerformance bool `yaml:"measure-performance,omitempty"`
	// RunTests controls whether the project's tests run after a build.
	RunTests bool `yaml:"run-tests"`
	// Options are opaque strings handed to the build system in order.
	Options []string `yaml:"options,omitempty"`
	// Projects restricts the build to a subset of sub-modules; empty means all.
	Projects []string `yaml:"projects,omitempty"`
}

// DefaultExtra returns the option set used when a project declares none.
func DefaultExtra() *ExtraConfig {
	return &ExtraConfig{RunTests: true}
}

// EffectiveExtra returns the project's options with defaults applied for a
// missing extra section. The receiver is never mutated.
func (c ProjectConfig) EffectiveExtra() ExtraConfig {
	if c.Extra == nil {
		return *DefaultExtra()
	}
	return *c.Extra
}

// EffectiveSystem returns the project's build-system tag, falling back to
// DefaultSystem when unset.
func (c ProjectConfig) EffectiveSystem() string {
	if c.System == "" {
		return DefaultSystem
	}
	return c.System
}

// DeployTarget names a location the finished build record is delivered to.
type DeployTarget struct {
	URI string `yaml:"uri"`
}

// BuildConfig is the full input of one distributed build: the ordered
// project list (order is significant only for reporting, never for
// scheduling), optional deploy targets, and opaque global options passed
// through to the build systems.
type BuildConfig struct {
	Projects []ProjectConfig   `yaml:"projects"`
	Deploy   []DeployTarget    `yaml:"deploy,omitempty"`
	Options  map[string]string `yaml:"options,omitempty"`
}

// Validate checks the structural invariants of the configuration: at least
// one project, non-empty names and URIs, and name uniqueness.
func (c *BuildConfig) Validate() error {
	if len(c.Projects) == 0 {
		return zerr.With(ErrInvalidConfig, "reason", "no projects configured")
	}
	seen := make(map[string]struct{}, len(c.Projects))
	for _, p := range c.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return zerr.With(ErrInvalidConfig, "reason", "project with empty name")
		}
		if strings.TrimSpace(p.URI) == "" {
			return zerr.With(zerr.With(ErrInvalidConfig, "reason", "project with empty uri"), "project", p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return zerr.With(ErrDuplicateProject, "project", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// ProjectNames returns the configured project names in input order.
func (c *BuildConfig) ProjectNames() []string {
	names := make([]string, len(c.Projects))
	for i, p := range c.Projects {
		names[i] = p.Name
	}
	return names
}
