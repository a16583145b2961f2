package problems

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cfgcache/internal/adapters/logger"
	"go.trai.ch/cfgcache/internal/core/ports"
)

// NodeID is the unique identifier for the problems collector factory Graft node.
const NodeID graft.ID = "adapter.problems"

// Factory creates one Collector per cache pass.
type Factory func() *Collector

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func() *Collector { return NewCollector(log) }, nil
		},
	})
}
