// Package deploy delivers finished build records to configured deploy
// targets as tar+zstd bundles. A bundle holds the canonical build record
// and the rendered outcome report; identical records produce byte-identical
// bundles.
package deploy

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports"
)

const (
	recordEntry = "build.yaml"
	reportEntry = "report.txt"
)

// Bundler implements the deployer port by dropping a bundle file into a
// filesystem deploy target. Targets are plain directory paths or file://
// URIs; anything else is rejected.
type Bundler struct{}

// NewBundler creates a bundle deployer.
func NewBundler() *Bundler {
	return &Bundler{}
}

// Deploy writes the bundle for rec into the target directory and returns
// the bundle path. The target directory is created if missing.
func (b *Bundler) Deploy(_ context.Context, target domain.DeployTarget, rec *domain.RepeatableBuild, outcomes []domain.ProjectOutcome, log ports.Logger) (string, error) {
	dir, err := targetDir(target.URI)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", zerr.Wrap(err, "creating deploy target directory")
	}

	path := filepath.Join(dir, BundleName(rec.UUID))
	f, err := os.Create(path) //nolint:gosec // Deploy targets are operator configuration.
	if err != nil {
		return "", zerr.Wrap(err, "creating bundle file")
	}
	if err := WriteBundle(f, rec, outcomes); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", zerr.Wrap(err, "closing bundle file")
	}

	log.Info("bundle deployed", "target", target.URI, "location", path)
	return path, nil
}

// BundleName returns the file name for a build identity, "weft-<key>.tar.zst"
// with the identity truncated to the usual short form.
func BundleName(uuid string) string {
	return fmt.Sprintf("weft-%s.tar.zst", domain.ShortHash(uuid))
}

// WriteBundle writes the tar+zstd bundle for rec and its outcomes to w.
// The report entry is omitted when there are no outcomes (record-only
// export). Entry headers are fixed so two bundles of the same record are
// byte-identical.
func WriteBundle(w io.Writer, rec *domain.RepeatableBuild, outcomes []domain.ProjectOutcome) error {
	canonical, err := rec.Canonical()
	if err != nil {
		return err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return zerr.Wrap(err, "creating zstd writer")
	}
	tw := tar.NewWriter(zw)

	if err := addEntry(tw, recordEntry, canonical); err != nil {
		return err
	}
	if len(outcomes) > 0 {
		if err := addEntry(tw, reportEntry, []byte(domain.RenderReport(outcomes))); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return zerr.Wrap(err, "closing tar writer")
	}
	if err := zw.Close(); err != nil {
		return zerr.Wrap(err, "closing zstd writer")
	}
	return nil
}

func addEntry(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Name:  name,
		Mode:  0o644,
		Size:  int64(len(data)),
		Uname: "root",
		Gname: "root",
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return zerr.With(zerr.Wrap(err, "writing bundle entry header"), "entry", name)
	}
	if _, err := tw.Write(data); err != nil {
		return zerr.With(zerr.Wrap(err, "writing bundle entry"), "entry", name)
	}
	return nil
}

// targetDir resolves a deploy target URI to a local directory. file:// URIs
// and bare paths are supported; other schemes are rejected.
func targetDir(uri string) (string, error) {
	switch {
	case strings.HasPrefix(uri, "file://"):
		return strings.TrimPrefix(uri, "file://"), nil
	case strings.Contains(uri, "://"):
		return "", zerr.With(zerr.New("unsupported deploy target scheme"), "uri", uri)
	case uri == "":
		return "", zerr.New("empty deploy target uri")
	default:
		return uri, nil
	}
}
