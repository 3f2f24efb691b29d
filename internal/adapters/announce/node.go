package announce

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/config"
)

const NodeID graft.ID = "adapter.announce"

func init() {
	graft.Register(graft.Node[*Publisher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (*Publisher, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewPublisher(settings.NATSURL, settings.NATSSubject)
		},
	})
}
