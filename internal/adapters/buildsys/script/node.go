package script

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/git"
	"github.com/weft-build/weft/internal/adapters/workdir"
	"github.com/weft-build/weft/internal/core/ports"
)

const NodeID graft.ID = "adapter.buildsys.script"

func init() {
	graft.Register(graft.Node[*System]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{git.NodeID, workdir.NodeID},
		Run: func(ctx context.Context) (*System, error) {
			fetcher, err := graft.Dep[ports.SourceFetcher](ctx)
			if err != nil {
				return nil, err
			}
			ws, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			return New(fetcher, ws), nil
		},
	})
}
