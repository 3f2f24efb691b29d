// Package git fetches project sources. Remote URIs are cloned with go-git;
// plain local paths are copied, which keeps tests and single-machine runs
// free of network access.
package git

import (
	"context"
	"os"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/core/ports"
)

// Fetcher implements ports.SourceFetcher.
type Fetcher struct{}

// NewFetcher creates a Fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// Fetch materializes the source tree behind uri into dest. A "#fragment"
// suffix selects a branch, tag or commit. dest is emptied first so a fetch
// always produces exactly the referenced tree.
func (f *Fetcher) Fetch(ctx context.Context, uri, dest string, log ports.Logger) error {
	base, ref := splitRef(uri)

	if err := os.RemoveAll(dest); err != nil {
		return zerr.Wrap(err, "failed to clear fetch destination")
	}

	if isLocal(base) {
		return copyLocal(base, dest, log)
	}
	return clone(ctx, base, ref, dest, log)
}

func clone(ctx context.Context, url, ref, dest string, log ports.Logger) error {
	log.Info("cloning repository", "url", url, "ref", ref)

	repo, err := gogit.PlainCloneContext(ctx, dest, false, &gogit.CloneOptions{
		URL: url,
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clone repository"), "url", url)
	}

	if ref == "" {
		return nil
	}

	// ResolveRevision accepts branches, tags and commit hashes uniformly.
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve ref"), "ref", ref)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return zerr.Wrap(err, "failed to open worktree")
	}
	if err := wt.Checkout(&gogit.CheckoutOptions{Hash: *hash}); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to checkout ref"), "ref", ref)
	}
	return nil
}

func copyLocal(path, dest string, log ports.Logger) error {
	log.Info("copying local sources", "path", path)

	if err := os.MkdirAll(dest, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create fetch destination")
	}
	if err := os.CopyFS(dest, os.DirFS(path)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to copy local sources"), "path", path)
	}
	return nil
}

func splitRef(uri string) (base, ref string) {
	base, ref, _ = strings.Cut(uri, "#")
	return base, ref
}

func isLocal(base string) bool {
	if strings.HasPrefix(base, "file://") {
		return false
	}
	return !strings.Contains(base, "://") && !strings.HasPrefix(base, "git@")
}
