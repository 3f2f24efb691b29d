package journal

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/config"
	"github.com/weft-build/weft/internal/adapters/workdir"
	"github.com/weft-build/weft/internal/core/ports"
)

const NodeID graft.ID = "adapter.journal"

func init() {
	// Registered as the concrete type so the show command can reach the
	// query API; the app wires it into the sink list.
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, workdir.NodeID},
		Run: func(ctx context.Context) (*Store, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}

			path := settings.JournalPath
			if path == "" {
				ws, err := graft.Dep[ports.Workspace](ctx)
				if err != nil {
					return nil, err
				}
				dir, err := ws.ScopedDir("journal")
				if err != nil {
					return nil, err
				}
				path = filepath.Join(dir, "journal.db")
			}
			return NewStore(path)
		},
	})
}
