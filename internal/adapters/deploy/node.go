package deploy

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/core/ports"
)

// NodeID is the unique identifier for the deploy adapter Graft node.
const NodeID graft.ID = "adapter.deploy"

func init() {
	graft.Register(graft.Node[ports.Deployer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Deployer, error) {
			return NewBundler(), nil
		},
	})
}
