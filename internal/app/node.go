package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/announce" //nolint:depguard // Wired in app layer
	"github.com/weft-build/weft/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"github.com/weft-build/weft/internal/adapters/journal"  //nolint:depguard // Wired in app layer
	"github.com/weft-build/weft/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"github.com/weft-build/weft/internal/adapters/metrics"  //nolint:depguard // Wired in app layer
	"github.com/weft-build/weft/internal/adapters/mirror"   //nolint:depguard // Wired in app layer
	"github.com/weft-build/weft/internal/core/ports"
	"github.com/weft-build/weft/internal/engine/extraction"
	"github.com/weft-build/weft/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.LoaderNodeID,
			config.SettingsNodeID,
			orchestrator.NodeID,
			extraction.NodeID,
			mirror.NodeID,
			journal.NodeID,
			metrics.NodeID,
			announce.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(application, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	coordinator, err := graft.Dep[*extraction.Coordinator](ctx)
	if err != nil {
		return nil, err
	}

	repo, err := graft.Dep[ports.MetadataRepository](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[*journal.Store](ctx)
	if err != nil {
		return nil, err
	}

	svc, err := graft.Dep[*metrics.Service](ctx)
	if err != nil {
		return nil, err
	}

	announcer, err := graft.Dep[*announce.Publisher](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[*config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, orch, coordinator, repo, store, svc, announcer, settings, log), nil
}
