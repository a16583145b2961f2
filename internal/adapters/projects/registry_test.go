package projects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cfgcache/internal/adapters/projects"
	"go.trai.ch/cfgcache/internal/core/domain"
)

func TestRegistry_Project(t *testing.T) {
	t.Parallel()

	root := &domain.Project{Path: domain.RootProjectPath, Name: "root"}
	app := &domain.Project{Path: ":app", Name: "app"}
	r := projects.NewRegistry(root, app)

	got, err := r.Project(":app")
	require.NoError(t, err)
	assert.Same(t, app, got)

	_, err = r.Project(":lib")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	lib := &domain.Project{Path: ":lib", Name: "lib"}
	r.Add(lib)
	got, err = r.Project(":lib")
	require.NoError(t, err)
	assert.Same(t, lib, got)

	assert.Equal(t, []string{":", ":app", ":lib"}, r.Paths())
}

func TestChildPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		parent, name, want string
	}{
		{parent: ":", name: "app", want: ":app"},
		{parent: ":app", name: "core", want: ":app:core"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, projects.ChildPath(tt.parent, tt.name))
	}
}
