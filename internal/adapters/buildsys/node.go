package buildsys

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/buildsys/script"
)

const NodeID graft.ID = "adapter.buildsys"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{script.NodeID},
		Run: func(ctx context.Context) (*Registry, error) {
			sys, err := graft.Dep[*script.System](ctx)
			if err != nil {
				return nil, err
			}
			return NewRegistry(sys)
		},
	})
}
