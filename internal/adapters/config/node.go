package config

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/logger"
	"github.com/weft-build/weft/internal/core/ports"
)

const (
	SettingsNodeID graft.ID = "adapter.config.settings"
	LoaderNodeID   graft.ID = "adapter.config.loader"
)

func init() {
	// Settings Node (environment, resolved once per process)
	graft.Register(graft.Node[*Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Settings, error) {
			return LoadSettings(), nil
		},
	})

	// Loader Node
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
