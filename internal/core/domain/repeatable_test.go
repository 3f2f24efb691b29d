package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weft-build/weft/internal/core/domain"
)

func TestAssembleRepeatable_ResolvesEdges(t *testing.T) {
	a := extraction("a", []string{"util"}, nil)
	b := extraction("b", []string{"app"}, []string{"util"})

	rb, err := domain.AssembleRepeatable([]domain.ProjectExtraction{a, b})
	require.NoError(t, err)
	require.Len(t, rb.Builds, 2)
	require.NotEmpty(t, rb.UUID)

	buildA, ok := rb.BuildFor("a")
	require.True(t, ok)
	assert.Empty(t, buildA.Dependencies)
	assert.NotEmpty(t, buildA.UUID)

	buildB, ok := rb.BuildFor("b")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, buildB.Dependencies)
	require.Len(t, buildB.DependencyUUIDs, 1)
	assert.Equal(t, buildA.UUID, buildB.DependencyUUIDs[0])
	assert.NotEqual(t, buildA.UUID, buildB.UUID)
}

func TestAssembleRepeatable_InputOrderPreserved(t *testing.T) {
	// Builds stay in configuration order even though identity sorts by name.
	z := extraction("zeta", nil, nil)
	a := extraction("alpha", nil, nil)

	rb, err := domain.AssembleRepeatable([]domain.ProjectExtraction{z, a})
	require.NoError(t, err)
	require.Len(t, rb.Builds, 2)
	assert.Equal(t, "zeta", rb.Builds[0].Name())
	assert.Equal(t, "alpha", rb.Builds[1].Name())
}

func TestAssembleRepeatable_UUIDOrderInsensitive(t *testing.T) {
	// The overall identity is computed over the name-sorted serialization:
	// shuffling the extraction order does not change it.
	a := extraction("a", []string{"util"}, nil)
	b := extraction("b", nil, []string{"util"})
	c := extraction("c", nil, []string{"util"})

	first, err := domain.AssembleRepeatable([]domain.ProjectExtraction{a, b, c})
	require.NoError(t, err)
	second, err := domain.AssembleRepeatable([]domain.ProjectExtraction{c, a, b})
	require.NoError(t, err)

	assert.Equal(t, first.UUID, second.UUID)

	// Per-project identities match as well.
	for _, name := range []string{"a", "b", "c"} {
		fb, ok := first.BuildFor(name)
		require.True(t, ok)
		sb, ok := second.BuildFor(name)
		require.True(t, ok)
		assert.Equal(t, fb.UUID, sb.UUID, "uuid of %s", name)
	}
}

func TestAssembleRepeatable_DuplicateName(t *testing.T) {
	a1 := extraction("a", []string{"one"}, nil)
	a2 := extraction("a", []string{"two"}, nil)

	_, err := domain.AssembleRepeatable([]domain.ProjectExtraction{a1, a2})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrDuplicateProject)
}

func TestAssembleRepeatable_Cycle(t *testing.T) {
	// a publishes x and needs y; b publishes y and needs x.
	a := extraction("a", []string{"x"}, []string{"y"})
	b := extraction("b", []string{"y"}, []string{"x"})

	_, err := domain.AssembleRepeatable([]domain.ProjectExtraction{a, b})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrDependencyCycle)
}

func TestAssembleRepeatable_AmbiguousDependency(t *testing.T) {
	a := extraction("a", []string{"util"}, nil)
	b := extraction("b", []string{"util"}, nil)
	c := extraction("c", nil, []string{"util"})

	_, err := domain.AssembleRepeatable([]domain.ProjectExtraction{a, b, c})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrAmbiguousDependency)
}

func TestRepeatableBuild_CanonicalRoundTrip(t *testing.T) {
	a := extraction("a", []string{"util"}, nil)
	b := extraction("b", nil, []string{"util"})

	rb, err := domain.AssembleRepeatable([]domain.ProjectExtraction{a, b})
	require.NoError(t, err)

	data, err := rb.Canonical()
	require.NoError(t, err)

	parsed, err := domain.ParseRepeatable(data)
	require.NoError(t, err)
	assert.Equal(t, rb.UUID, parsed.UUID)
	require.Len(t, parsed.Builds, 2)
	assert.Equal(t, rb.Builds, parsed.Builds)

	// The derived graph is rebuilt on parse.
	require.NotNil(t, parsed.Graph())
	assert.Equal(t, 2, parsed.Graph().Len())
	pb, ok := parsed.BuildFor("b")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, pb.Dependencies)
}

func TestRepeatableBuild_CanonicalDeterministic(t *testing.T) {
	a := extraction("a", []string{"util"}, nil)
	b := extraction("b", nil, []string{"util"})

	rb1, err := domain.AssembleRepeatable([]domain.ProjectExtraction{a, b})
	require.NoError(t, err)
	rb2, err := domain.AssembleRepeatable([]domain.ProjectExtraction{a, b})
	require.NoError(t, err)

	data1, err := rb1.Canonical()
	require.NoError(t, err)
	data2, err := rb2.Canonical()
	require.NoError(t, err)

	assert.Equal(t, data1, data2)
}

func TestParseRepeatable_RejectsCorruptGraph(t *testing.T) {
	// A serialization naming a dependency outside the build fails the
	// revalidation on parse.
	data := []byte(`uuid: deadbeef
builds:
  - config:
      name: a
      uri: git://example.com/a
    dependencies: [ghost]
    uuid: aaaa
`)
	_, err := domain.ParseRepeatable(data)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrUnknownDependency)
}

func TestParseRepeatable_Garbage(t *testing.T) {
	_, err := domain.ParseRepeatable([]byte("\tnot yaml"))
	require.Error(t, err)
}
