package ports

import (
	"context"

	"github.com/weft-build/weft/internal/core/domain"
)

// MetadataRepository stores repeatable-build records addressed by their
// identity hash.
//
//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks
type MetadataRepository interface {
	// Publish persists the record's canonical serialization keyed by its
	// UUID. Publishing identical content twice is a no-op; publishing
	// different content under an existing UUID fails with
	// domain.ErrRecordConflict.
	Publish(ctx context.Context, rec *domain.RepeatableBuild) error

	// Get retrieves a previously published record.
	// Returns domain.ErrRecordNotFound if no record exists for uuid.
	Get(ctx context.Context, uuid string) (*domain.RepeatableBuild, error)
}
