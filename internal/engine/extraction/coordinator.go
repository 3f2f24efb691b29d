// Package extraction drives the concurrent metadata-extraction phase: one
// extractor request per configured project, no ordering between them, and
// no partial results.
package extraction

import (
	"context"
	"errors"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports"
)

// Coordinator fans extraction requests out to the extractor worker.
type Coordinator struct {
	extractor ports.Extractor
	workspace ports.Workspace
	limit     int
}

// NewCoordinator creates a Coordinator. limit caps concurrent extractions;
// zero or negative means one in-flight request per project.
func NewCoordinator(extractor ports.Extractor, workspace ports.Workspace, limit int) *Coordinator {
	return &Coordinator{extractor: extractor, workspace: workspace, limit: limit}
}

// ExtractAll extracts build metadata for every configured project
// concurrently and returns the results in input order. Dependency
// resolution needs global visibility into every project's published
// artifacts, so any single failure fails the whole phase: the first error
// cancels the remaining requests, their results are discarded, and the
// returned error names the offending project and the underlying cause.
//
// scope keys the run's working-directory namespace; each project extracts
// in its own subdirectory with a nested logger keyed by its name.
func (c *Coordinator) ExtractAll(ctx context.Context, scope string, configs []domain.ProjectConfig, log ports.Logger) ([]domain.ProjectExtraction, error) {
	results := make([]domain.ProjectExtraction, len(configs))

	g, gctx := errgroup.WithContext(ctx)
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}

	for i, cfg := range configs {
		g.Go(func() error {
			dir, err := c.workspace.ScopedDir(scope, "extract", cfg.Name)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "allocating extraction directory"), "project", cfg.Name)
			}

			plog := log.Nested(cfg.Name)
			plog.Info("extracting build metadata", "uri", cfg.URI, "system", cfg.EffectiveSystem())

			meta, err := c.extractor.Extract(gctx, cfg, dir, plog)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "extraction failed"), "project", cfg.Name)
			}

			results[i] = domain.ProjectExtraction{Config: cfg, Meta: meta}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Join(domain.ErrExtractionFailed, err)
	}
	return results, nil
}
