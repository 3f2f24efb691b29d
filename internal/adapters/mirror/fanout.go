package mirror

import (
	"context"
	"errors"

	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports"
)

// Fanout composes several repositories into one: Publish writes to every
// store, Get reads them in order. The first store is the primary; mirrors
// follow.
type Fanout struct {
	stores []ports.MetadataRepository
}

// NewFanout creates a Fanout over stores, primary first.
func NewFanout(stores ...ports.MetadataRepository) *Fanout {
	return &Fanout{stores: stores}
}

// Publish writes rec to every store. A repeatable-build record backs
// repeatability guarantees, so a failing mirror fails the publish rather
// than degrading silently.
func (f *Fanout) Publish(ctx context.Context, rec *domain.RepeatableBuild) error {
	var errs error
	for _, store := range f.stores {
		errs = errors.Join(errs, store.Publish(ctx, rec))
	}
	return errs
}

// Get returns the record from the first store that has it.
func (f *Fanout) Get(ctx context.Context, uuid string) (*domain.RepeatableBuild, error) {
	var errs error
	for _, store := range f.stores {
		rec, err := store.Get(ctx, uuid)
		if err == nil {
			return rec, nil
		}
		errs = errors.Join(errs, err)
	}
	return nil, errs
}
