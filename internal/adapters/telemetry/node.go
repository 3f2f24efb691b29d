package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/config"
	"github.com/weft-build/weft/internal/adapters/telemetry/progrock"
	"github.com/weft-build/weft/internal/core/ports"
)

// TracerNodeID is the unique identifier for the telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			if settings.Progress {
				return progrock.NewTracer(progrock.NewConsoleWriter(os.Stderr)), nil
			}
			return NewNoOpTracer(), nil
		},
	})
}
