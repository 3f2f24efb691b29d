package extraction

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/buildsys" //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/adapters/config"   //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/adapters/workdir"  //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/core/ports"
)

// NodeID is the unique identifier for the extraction coordinator Graft node.
const NodeID graft.ID = "engine.extraction"

func init() {
	graft.Register(graft.Node[*Coordinator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			buildsys.NodeID,
			workdir.NodeID,
			config.SettingsNodeID,
		},
		Run: func(ctx context.Context) (*Coordinator, error) {
			registry, err := graft.Dep[*buildsys.Registry](ctx)
			if err != nil {
				return nil, err
			}

			workspace, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}

			return NewCoordinator(registry, workspace, settings.ExtractParallelism), nil
		},
	})
}
