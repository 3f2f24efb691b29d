package ports

import (
	"context"

	"github.com/weft-build/weft/internal/core/domain"
)

// Deployer delivers the finished build record to a configured target.
// Invoked only after the full outcome set is known.
//
//go:generate mockgen -source=deployer.go -destination=mocks/mock_deployer.go -package=mocks
type Deployer interface {
	// Deploy delivers rec and its outcomes to target and returns the
	// delivered location.
	Deploy(ctx context.Context, target domain.DeployTarget, rec *domain.RepeatableBuild, outcomes []domain.ProjectOutcome, log Logger) (string, error)
}
