// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"github.com/weft-build/weft/internal/core/domain"
)

// Extractor is the worker that turns a raw project configuration into
// extracted build metadata.
//
//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type Extractor interface {
	// Extract materializes the project's source under dir and returns the
	// metadata describing what the project publishes and depends on.
	//
	// dir is a scoped working directory exclusively usable for this
	// project; log is a nested logger keyed by the project name.
	Extract(ctx context.Context, cfg domain.ProjectConfig, dir string, log Logger) (domain.ExtractedMeta, error)
}
