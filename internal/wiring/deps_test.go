package wiring_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cfgcache/internal/app"
	"go.trai.ch/cfgcache/internal/core/domain"
	_ "go.trai.ch/cfgcache/internal/wiring"
)

// TestGraftDependencies ensures that every node declaring a dependency
// actually uses it, and every used dependency is declared.
func TestGraftDependencies(t *testing.T) {
	graft.AssertDepsValid(t, "../../internal")
}

func TestGraftExecute(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(dir)

	components, _, err := graft.ExecuteFor[*app.Components](context.Background(), graft.DisableCache())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)

	assert.Equal(t, filepath.Join(dir, domain.DefaultEntriesPath()), components.Config.CacheDir)
	assert.Equal(t, domain.CompressionZstd, components.Config.Compression)
}
