package mirror

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/internal/adapters/cas"
	"github.com/weft-build/weft/internal/adapters/config"
	"github.com/weft-build/weft/internal/core/ports"
)

const NodeID graft.ID = "adapter.repository"

func init() {
	graft.Register(graft.Node[ports.MetadataRepository]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.NodeID, config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.MetadataRepository, error) {
			store, err := graft.Dep[*cas.Store](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}

			if settings.MirrorBucket == "" {
				return store, nil
			}

			remote, err := NewS3Store(ctx, S3Options{
				Bucket:    settings.MirrorBucket,
				Region:    settings.MirrorRegion,
				Endpoint:  settings.MirrorEndpoint,
				AccessKey: settings.MirrorAccessKey,
				SecretKey: settings.MirrorSecretKey,
			})
			if err != nil {
				return nil, err
			}
			return NewFanout(store, remote), nil
		},
	})
}
