package scopes

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cfgcache/internal/engine/codec"
)

// NodeID is the unique identifier for the scope registry Graft node.
const NodeID graft.ID = "adapter.scopes"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Registry, error) {
			return NewRegistry(codec.KnownTypes()), nil
		},
	})
}
