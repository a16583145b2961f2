package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cfgcache/internal/adapters/config"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
)

// NodeID is the unique identifier for the entry store Graft node.
const NodeID graft.ID = "adapter.entry_store"

func init() {
	graft.Register(graft.Node[ports.EntryStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (ports.EntryStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(cfg.CacheDir, cfg.Compression), nil
		},
	})
}
