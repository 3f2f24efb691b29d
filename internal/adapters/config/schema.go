package config

// Document is the on-disk shape of a build configuration file. Field names
// are kebab-case in the file; defaultable values use pointers so an omitted
// key and an explicit default collapse to the same domain value.
type Document struct {
	Projects []ProjectDTO      `yaml:"projects"`
	Options  map[string]string `yaml:"options"`
	Deploy   []DeployDTO       `yaml:"deploy"`
}

// ProjectDTO is one project entry in the configuration file.
type ProjectDTO struct {
	Name   string    `yaml:"name"`
	System string    `yaml:"system"`
	URI    string    `yaml:"uri"`
	Extra  *ExtraDTO `yaml:"extra"`
}

// ExtraDTO carries the optional per-project build parameters.
type ExtraDTO struct {
	BuildToolVersion   string   `yaml:"build-tool-version"`
	Directory          string   `yaml:"directory"`
	MeasurePerformance bool     `yaml:"measure-performance"`
	RunTests           *bool    `yaml:"run-tests"`
	Options            []string `yaml:"options"`
	Projects           []string `yaml:"projects"`
}

// DeployDTO is one deploy target entry.
type DeployDTO struct {
	URI string `yaml:"uri"`
}
