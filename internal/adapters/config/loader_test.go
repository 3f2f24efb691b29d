package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weft-build/weft/internal/adapters/config"
	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestParse_Defaults(t *testing.T) {
	doc := []byte(`
projects:
  - name: core
    uri: git://example.com/core.git
`)

	cfg, err := config.Parse(doc)
	require.NoError(t, err)
	require.Len(t, cfg.Projects, 1)

	p := cfg.Projects[0]
	assert.Equal(t, "core", p.Name)
	assert.Equal(t, domain.DefaultSystem, p.System)
	require.NotNil(t, p.Extra)
	assert.True(t, p.Extra.RunTests)
}

func TestParse_RunTestsPointerSemantics(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{
			name: "Omitted Defaults To True",
			doc: `
projects:
  - name: core
    uri: git://x
    extra:
      directory: sub
`,
			want: true,
		},
		{
			name: "Explicit False Preserved",
			doc: `
projects:
  - name: core
    uri: git://x
    extra:
      run-tests: false
`,
			want: false,
		},
		{
			name: "Explicit True Preserved",
			doc: `
projects:
  - name: core
    uri: git://x
    extra:
      run-tests: true
`,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.doc))
			require.NoError(t, err)
			require.Len(t, cfg.Projects, 1)
			require.NotNil(t, cfg.Projects[0].Extra)
			assert.Equal(t, tt.want, cfg.Projects[0].Extra.RunTests)
		})
	}
}

func TestParse_DefaultsMatchExplicitDefaults(t *testing.T) {
	// An omitted extra section and a spelled-out default produce equal
	// identities, so re-running an untouched config hits the same record.
	implicit := []byte(`
projects:
  - name: core
    uri: git://x
`)
	explicit := []byte(`
projects:
  - name: core
    system: script
    uri: git://x
    extra:
      run-tests: true
`)

	cfgA, err := config.Parse(implicit)
	require.NoError(t, err)
	cfgB, err := config.Parse(explicit)
	require.NoError(t, err)

	hashA, err := domain.BuildConfigHash(cfgA)
	require.NoError(t, err)
	hashB, err := domain.BuildConfigHash(cfgB)
	require.NoError(t, err)
	assert.Equal(t, hashA, hashB)
}

func TestParse_FullDocument(t *testing.T) {
	doc := []byte(`
projects:
  - name: core
    system: sbt
    uri: git://example.com/core.git#v1.2
    extra:
      build-tool-version: "1.9.0"
      directory: modules/core
      measure-performance: true
      run-tests: false
      options: ["-J-Xmx2g"]
      projects: [core-lib]
  - name: app
    uri: git://example.com/app.git
deploy:
  - uri: file:///var/weft/records
options:
  cross-version: disabled
`)

	cfg, err := config.Parse(doc)
	require.NoError(t, err)
	require.Len(t, cfg.Projects, 2)

	core := cfg.Projects[0]
	assert.Equal(t, "sbt", core.System)
	assert.Equal(t, "git://example.com/core.git#v1.2", core.URI)
	require.NotNil(t, core.Extra)
	assert.Equal(t, "1.9.0", core.Extra.BuildToolVersion)
	assert.Equal(t, "modules/core", core.Extra.Directory)
	assert.True(t, core.Extra.MeasurePerformance)
	assert.False(t, core.Extra.RunTests)
	assert.Equal(t, []string{"-J-Xmx2g"}, core.Extra.Options)
	assert.Equal(t, []string{"core-lib"}, core.Extra.Projects)

	require.Len(t, cfg.Deploy, 1)
	assert.Equal(t, "file:///var/weft/records", cfg.Deploy[0].URI)
	assert.Equal(t, map[string]string{"cross-version": "disabled"}, cfg.Options)
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	doc := []byte(`
projects:
  - name: core
    uri: git://x
    sytem: sbt
`)

	_, err := config.Parse(doc)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"Empty Document", "", domain.ErrInvalidConfig},
		{
			name: "Duplicate Project",
			doc: `
projects:
  - name: core
    uri: git://a
  - name: core
    uri: git://b
`,
			wantErr: domain.ErrDuplicateProject,
		},
		{
			name: "Missing URI",
			doc: `
projects:
  - name: core
`,
			wantErr: domain.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.doc))
			require.Error(t, err)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileLoader_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	loader := config.NewLoader(mockLogger)

	dir := t.TempDir()
	path := filepath.Join(dir, "weft-build.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
projects:
  - name: core
    uri: git://example.com/core.git
`), 0o600))

	cfg, err := loader.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Projects, 1)
	assert.Equal(t, "core", cfg.Projects[0].Name)
}

func TestFileLoader_LoadMissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	_, err := loader.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
