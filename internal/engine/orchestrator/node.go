package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/announce"  //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/adapters/buildsys"  //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/adapters/deploy"    //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/adapters/journal"   //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/adapters/mirror"    //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/adapters/workdir"   //nolint:depguard // Wired in engine wiring
	"github.com/weft-build/weft/internal/core/ports"
	"github.com/weft-build/weft/internal/engine/extraction"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			extraction.NodeID,
			buildsys.NodeID,
			mirror.NodeID,
			workdir.NodeID,
			deploy.NodeID,
			telemetry.TracerNodeID,
			metrics.NodeID,
			journal.NodeID,
			announce.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			coordinator, err := graft.Dep[*extraction.Coordinator](ctx)
			if err != nil {
				return nil, err
			}

			registry, err := graft.Dep[*buildsys.Registry](ctx)
			if err != nil {
				return nil, err
			}

			repo, err := graft.Dep[ports.MetadataRepository](ctx)
			if err != nil {
				return nil, err
			}

			workspace, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}

			deployer, err := graft.Dep[ports.Deployer](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			svc, err := graft.Dep[*metrics.Service](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[*journal.Store](ctx)
			if err != nil {
				return nil, err
			}

			publisher, err := graft.Dep[*announce.Publisher](ctx)
			if err != nil {
				return nil, err
			}

			sinks := []ports.EventSink{store, publisher}

			return New(
				coordinator,
				registry,
				repo,
				workspace,
				deployer,
				tracer,
				svc,
				sinks,
			), nil
		},
	})
}
