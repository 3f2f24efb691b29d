package deploy_test

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weft-build/weft/internal/adapters/deploy"
	"github.com/weft-build/weft/internal/adapters/logger"
	"github.com/weft-build/weft/internal/core/domain"
)

func sampleBuild(t *testing.T) (*domain.RepeatableBuild, []domain.ProjectOutcome) {
	t.Helper()
	util := domain.ProjectExtraction{
		Config: domain.ProjectConfig{Name: "util", URI: "git://example.com/util"},
		Meta: domain.ExtractedMeta{Modules: []domain.ModuleMeta{{
			Projects: []domain.ExtractedProject{{
				Name:         "util",
				Organization: "com.example",
				Artifacts:    []domain.ArtifactRef{{Name: "util", Organization: "com.example"}},
			}},
		}}},
	}
	app := domain.ProjectExtraction{
		Config: domain.ProjectConfig{Name: "app", URI: "git://example.com/app"},
		Meta: domain.ExtractedMeta{Modules: []domain.ModuleMeta{{
			Projects: []domain.ExtractedProject{{
				Name:         "app",
				Organization: "com.example",
				Dependencies: []domain.ArtifactRef{{Name: "util", Organization: "com.example"}},
			}},
		}}},
	}
	rec, err := domain.AssembleRepeatable([]domain.ProjectExtraction{util, app})
	require.NoError(t, err)

	outcomes := []domain.ProjectOutcome{
		{Build: rec.Builds[0], Outcome: domain.BuildSuccess{}},
		{Build: rec.Builds[1], Outcome: domain.BuildFailed{Cause: "boom"}},
	}
	return rec, outcomes
}

// readBundle decompresses a bundle and returns its entries by name.
func readBundle(t *testing.T, r io.Reader) map[string]string {
	t.Helper()
	zr, err := zstd.NewReader(r)
	require.NoError(t, err)
	defer zr.Close()

	entries := make(map[string]string)
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = string(data)
	}
	return entries
}

func TestBundler_Deploy(t *testing.T) {
	rec, outcomes := sampleBuild(t)
	dir := t.TempDir()

	b := deploy.NewBundler()
	location, err := b.Deploy(context.Background(), domain.DeployTarget{URI: dir}, rec, outcomes, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, deploy.BundleName(rec.UUID)), location)

	f, err := os.Open(location)
	require.NoError(t, err)
	defer f.Close()

	entries := readBundle(t, f)
	require.Len(t, entries, 2)

	parsed, err := domain.ParseRepeatable([]byte(entries["build.yaml"]))
	require.NoError(t, err)
	assert.Equal(t, rec.UUID, parsed.UUID)

	assert.Equal(t, domain.RenderReport(outcomes), entries["report.txt"])
}

func TestBundler_DeployFileScheme(t *testing.T) {
	rec, outcomes := sampleBuild(t)
	dir := filepath.Join(t.TempDir(), "records")

	b := deploy.NewBundler()
	location, err := b.Deploy(context.Background(), domain.DeployTarget{URI: "file://" + dir}, rec, outcomes, logger.Discard())
	require.NoError(t, err)

	// The target directory is created on demand.
	assert.Equal(t, filepath.Join(dir, deploy.BundleName(rec.UUID)), location)
	_, err = os.Stat(location)
	assert.NoError(t, err)
}

func TestBundler_RejectsUnsupportedTargets(t *testing.T) {
	rec, outcomes := sampleBuild(t)
	b := deploy.NewBundler()

	for _, uri := range []string{"s3://bucket/records", "ftp://host/records", ""} {
		_, err := b.Deploy(context.Background(), domain.DeployTarget{URI: uri}, rec, outcomes, logger.Discard())
		assert.Error(t, err, "uri %q", uri)
	}
}

func TestWriteBundle_Deterministic(t *testing.T) {
	rec, outcomes := sampleBuild(t)

	var first, second bytes.Buffer
	require.NoError(t, deploy.WriteBundle(&first, rec, outcomes))
	require.NoError(t, deploy.WriteBundle(&second, rec, outcomes))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestWriteBundle_RecordOnly(t *testing.T) {
	rec, _ := sampleBuild(t)

	var buf bytes.Buffer
	require.NoError(t, deploy.WriteBundle(&buf, rec, nil))

	entries := readBundle(t, &buf)
	require.Len(t, entries, 1)
	assert.Contains(t, entries, "build.yaml")
}

func TestBundleName(t *testing.T) {
	assert.Equal(t, "weft-a9993e364706.tar.zst", deploy.BundleName("a9993e364706816aba3e25717850c26c9cd0d89d"))
}
