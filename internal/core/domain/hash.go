package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"slices"
	"strings"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// The identity scheme is canonicalize-then-digest: values are copied into
// canonical structs (struct fields encode in declaration order, unordered
// collections sorted, defaults materialized) and the yaml encoding is
// digested. Two structurally-equal values therefore always share a digest,
// regardless of incidental ordering in their unordered fields. Collisions
// are treated as operationally impossible.

// HashBytes returns the lowercase hex digest of b.
func HashBytes(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// HashValue digests the canonical yaml encoding of v. Callers are
// responsible for passing a canonical value (sorted unordered collections,
// defaults applied); the helpers in this file do that for the data model.
func HashValue(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", zerr.Wrap(err, "canonical encoding failed")
	}
	return HashBytes(data), nil
}

// shortHashLen is the truncation used wherever a full identity hash would
// drown the surrounding text: log scopes, graph listings, bundle names.
const shortHashLen = 12

// ShortHash truncates an identity hash to its display form.
func ShortHash(hash string) string {
	if len(hash) > shortHashLen {
		return hash[:shortHashLen]
	}
	return hash
}

// canonicalConfig is the hashing form of a ProjectConfig: the system tag and
// extra options are materialized so that omitted and explicit defaults hash
// identically.
type canonicalConfig struct {
	Name   string      `yaml:"name"`
	System string      `yaml:"system"`
	URI    string      `yaml:"uri"`
	Extra  ExtraConfig `yaml:"extra"`
}

func canonicalizeConfig(c ProjectConfig) canonicalConfig {
	return canonicalConfig{
		Name:   c.Name,
		System: c.EffectiveSystem(),
		URI:    c.URI,
		Extra:  c.EffectiveExtra(),
	}
}

// ConfigHash identifies one project configuration.
func ConfigHash(c ProjectConfig) (string, error) {
	return HashValue(canonicalizeConfig(c))
}

// BuildConfigHash identifies the whole input configuration. It namespaces
// the run's working directory tree and the run's log scope. The project
// list is an ordered field and hashes in input order; the global options
// map is unordered and encodes with sorted keys.
func BuildConfigHash(c *BuildConfig) (string, error) {
	type canonical struct {
		Projects []canonicalConfig `yaml:"projects"`
		Deploy   []DeployTarget    `yaml:"deploy"`
		Options  map[string]string `yaml:"options"`
	}
	cc := canonical{
		Projects: make([]canonicalConfig, len(c.Projects)),
		Deploy:   c.Deploy,
		Options:  c.Options,
	}
	for i, p := range c.Projects {
		cc.Projects[i] = canonicalizeConfig(p)
	}
	return HashValue(cc)
}

type canonicalProjectBuild struct {
	Config       canonicalConfig `yaml:"config"`
	Dependencies []string        `yaml:"dependencies"`
	UUID         string          `yaml:"uuid,omitempty"`
}

// projectUUID computes the identity of one repeatable project build from its
// canonical config and its resolved dependency names (an unordered set).
func projectUUID(c ProjectConfig, deps []string) (string, error) {
	sorted := slices.Clone(deps)
	slices.Sort(sorted)
	return HashValue(canonicalProjectBuild{
		Config:       canonicalizeConfig(c),
		Dependencies: sorted,
	})
}

// repeatableUUID computes the overall build identity from the name-sorted
// serialization of all constituent builds.
func repeatableUUID(builds []ProjectBuild) (string, error) {
	list := make([]canonicalProjectBuild, len(builds))
	for i, b := range builds {
		deps := slices.Clone(b.Dependencies)
		slices.Sort(deps)
		list[i] = canonicalProjectBuild{
			Config:       canonicalizeConfig(b.Config),
			Dependencies: deps,
			UUID:         b.UUID,
		}
	}
	slices.SortFunc(list, func(a, b canonicalProjectBuild) int {
		return strings.Compare(a.Config.Name, b.Config.Name)
	})
	return HashValue(list)
}
