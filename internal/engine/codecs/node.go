package codecs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cfgcache/internal/engine/codec"
)

// NodeID is the unique identifier for the codec registry Graft node.
const NodeID graft.ID = "engine.codecs"

func init() {
	graft.Register(graft.Node[*codec.Registry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*codec.Registry, error) {
			return Default(), nil
		},
	})
}
