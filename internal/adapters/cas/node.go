package cas

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/workdir"
	"github.com/weft-build/weft/internal/core/ports"
)

const NodeID graft.ID = "adapter.cas"

func init() {
	// Registered as the concrete type: the repository node composes it with
	// the optional mirror into the ports.MetadataRepository the engine sees.
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{workdir.NodeID},
		Run: func(ctx context.Context) (*Store, error) {
			ws, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			dir, err := ws.ScopedDir("repository")
			if err != nil {
				return nil, err
			}
			return NewStore(dir), nil
		},
	})
}
