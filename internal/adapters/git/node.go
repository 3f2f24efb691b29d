package git

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/core/ports"
)

const NodeID graft.ID = "adapter.git"

func init() {
	graft.Register(graft.Node[ports.SourceFetcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.SourceFetcher, error) {
			return NewFetcher(), nil
		},
	})
}
