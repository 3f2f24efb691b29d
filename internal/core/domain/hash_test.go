package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weft-build/weft/internal/core/domain"
)

func TestConfigHash_Deterministic(t *testing.T) {
	cfg := domain.ProjectConfig{
		Name:   "core",
		System: "script",
		URI:    "git://example.com/core.git",
		Extra:  &domain.ExtraConfig{RunTests: true, Options: []string{"-J-Xmx2g"}},
	}

	first, err := domain.ConfigHash(cfg)
	require.NoError(t, err)
	second, err := domain.ConfigHash(cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 40) // hex sha1
}

func TestConfigHash_DefaultsMaterialized(t *testing.T) {
	// A project with no extra section hashes identically to one that spells
	// out the defaults: omitted and explicit defaults are the same identity.
	implicit := domain.ProjectConfig{Name: "core", URI: "git://example.com/core.git"}
	explicit := domain.ProjectConfig{
		Name:   "core",
		System: domain.DefaultSystem,
		URI:    "git://example.com/core.git",
		Extra:  domain.DefaultExtra(),
	}

	hImplicit, err := domain.ConfigHash(implicit)
	require.NoError(t, err)
	hExplicit, err := domain.ConfigHash(explicit)
	require.NoError(t, err)

	assert.Equal(t, hImplicit, hExplicit)
}

func TestConfigHash_SensitiveToOptions(t *testing.T) {
	base := domain.ProjectConfig{Name: "core", URI: "git://example.com/core.git"}

	withTests := base
	withTests.Extra = &domain.ExtraConfig{RunTests: true}
	withoutTests := base
	withoutTests.Extra = &domain.ExtraConfig{RunTests: false}

	hWith, err := domain.ConfigHash(withTests)
	require.NoError(t, err)
	hWithout, err := domain.ConfigHash(withoutTests)
	require.NoError(t, err)

	// Disabling tests changes what the build does, so it changes identity.
	assert.NotEqual(t, hWith, hWithout)
}

func TestBuildConfigHash_OptionOrderInsensitive(t *testing.T) {
	// Global options form an unordered map; insertion order must not leak
	// into the identity.
	mkConfig := func(opts map[string]string) *domain.BuildConfig {
		return &domain.BuildConfig{
			Projects: []domain.ProjectConfig{{Name: "core", URI: "git://example.com/core.git"}},
			Options:  opts,
		}
	}

	a := map[string]string{"sbt-version": "1.9.0", "cross-version": "disabled", "timeout": "1h"}
	b := map[string]string{"timeout": "1h", "cross-version": "disabled", "sbt-version": "1.9.0"}

	hashA, err := domain.BuildConfigHash(mkConfig(a))
	require.NoError(t, err)
	hashB, err := domain.BuildConfigHash(mkConfig(b))
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB)
}

func TestBuildConfigHash_ProjectOrderSignificant(t *testing.T) {
	// The project list is an ordered field of the input configuration.
	p1 := domain.ProjectConfig{Name: "a", URI: "git://example.com/a.git"}
	p2 := domain.ProjectConfig{Name: "b", URI: "git://example.com/b.git"}

	hashAB, err := domain.BuildConfigHash(&domain.BuildConfig{Projects: []domain.ProjectConfig{p1, p2}})
	require.NoError(t, err)
	hashBA, err := domain.BuildConfigHash(&domain.BuildConfig{Projects: []domain.ProjectConfig{p2, p1}})
	require.NoError(t, err)

	assert.NotEqual(t, hashAB, hashBA)
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t, domain.HashBytes([]byte("abc")), domain.HashBytes([]byte("abc")))
	assert.NotEqual(t, domain.HashBytes([]byte("abc")), domain.HashBytes([]byte("abd")))
	// Known vector.
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", domain.HashBytes([]byte("abc")))
}

func TestShortHash(t *testing.T) {
	full := "a9993e364706816aba3e25717850c26c9cd0d89d"
	assert.Equal(t, "a9993e364706", domain.ShortHash(full))
	assert.Equal(t, "abc", domain.ShortHash("abc"))
	assert.Equal(t, "", domain.ShortHash(""))
}
