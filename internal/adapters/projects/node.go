package projects

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the project provider Graft node.
const NodeID graft.ID = "adapter.projects"

func init() {
	graft.Register(graft.Node[ports.ProjectProvider]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProjectProvider, error) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, zerr.Wrap(err, "failed to get working directory")
			}
			return NewRegistry(&domain.Project{
				Path: domain.RootProjectPath,
				Name: filepath.Base(cwd),
				Dir:  cwd,
			}), nil
		},
	})
}
