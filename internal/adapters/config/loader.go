// Package config provides the configuration loader for weft.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports"
)

// FileLoader implements ports.ConfigLoader for YAML configuration files.
type FileLoader struct {
	log ports.Logger
}

// NewLoader creates a FileLoader.
func NewLoader(log ports.Logger) *FileLoader {
	return &FileLoader{log: log}
}

// Load reads, parses and validates the configuration file at path. Unknown
// keys are rejected so typos surface as configuration errors instead of
// silently changing build identity.
func (l *FileLoader) Load(path string) (*domain.BuildConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	l.log.Info("configuration loaded", "path", path, "projects", len(cfg.Projects))
	return cfg, nil
}

// Parse decodes a configuration document and maps it onto the domain model,
// materializing defaults so that omitted keys and explicit default values
// produce identical configurations.
func Parse(data []byte) (*domain.BuildConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(domain.ErrInvalidConfig, zerr.Wrap(err, "failed to parse config file"))
	}

	cfg := &domain.BuildConfig{
		Options: doc.Options,
	}
	for _, p := range doc.Projects {
		cfg.Projects = append(cfg.Projects, projectFromDTO(p))
	}
	for _, d := range doc.Deploy {
		cfg.Deploy = append(cfg.Deploy, domain.DeployTarget{URI: d.URI})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func projectFromDTO(p ProjectDTO) domain.ProjectConfig {
	system := p.System
	if system == "" {
		system = domain.DefaultSystem
	}

	extra := domain.DefaultExtra()
	if p.Extra != nil {
		extra.BuildToolVersion = p.Extra.BuildToolVersion
		extra.Directory = p.Extra.Directory
		extra.MeasurePerformance = p.Extra.MeasurePerformance
		if p.Extra.RunTests != nil {
			extra.RunTests = *p.Extra.RunTests
		}
		extra.Options = p.Extra.Options
		extra.Projects = p.Extra.Projects
	}

	return domain.ProjectConfig{
		Name:   p.Name,
		System: system,
		URI:    p.URI,
		Extra:  extra,
	}
}
