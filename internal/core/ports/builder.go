package ports

import (
	"context"

	"github.com/weft-build/weft/internal/core/domain"
)

// Builder is the worker that builds one project of a repeatable build.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type Builder interface {
	// Build runs the project's build inside dir and returns BuildSuccess or
	// BuildFailed. BuildDidNotRun is never produced here; dependency-failure
	// propagation belongs to the orchestrator. Retry policy, if any, also
	// lives inside the worker.
	//
	// expected lists the publishable units the build must produce. A
	// non-context error return is adopted by the orchestrator as a
	// BuildFailed outcome for the project.
	Build(ctx context.Context, dir string, build domain.ProjectBuild, expected []string, log Logger) (domain.Outcome, error)
}
