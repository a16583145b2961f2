package scopes_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cfgcache/internal/adapters/scopes"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/cfgcache/internal/engine/codec"
)

type pluginExtension struct {
	Name string
}

type buildScript struct {
	Name      string
	Extension *pluginExtension
}

type rootModel struct {
	Name string
}

var (
	extType    = reflect.TypeFor[pluginExtension]()
	scriptType = reflect.TypeFor[buildScript]()
	rootType   = reflect.TypeFor[rootModel]()
)

func newRegistry(fallback ports.TypeLoader) *scopes.Registry {
	r := scopes.NewRegistry(fallback)
	r.Define("api.jar", extType)
	r.Define("script.jar", scriptType)
	r.Define("core.jar", rootType)
	return r
}

// buildTree creates root -> settings (export api.jar) -> project (local script.jar).
func buildTree(t *testing.T, r *scopes.Registry) (settings, project ports.ClassLoaderScope) {
	t.Helper()
	require.NoError(t, r.Root().Local([]string{"core.jar"}))
	settings = r.Root().CreateChild("settings")
	require.NoError(t, settings.Export([]string{"api.jar"}))
	settings.Lock()
	project = settings.CreateChild("project")
	require.NoError(t, project.Local([]string{"script.jar"}))
	project.Lock()
	return settings, project
}

func TestScope_Visibility(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	settings, project := buildTree(t, r)

	got, err := project.LocalLoader().LoadType(codec.ClassName(scriptType))
	require.NoError(t, err)
	assert.Equal(t, scriptType, got)

	got, err = project.LocalLoader().LoadType(codec.ClassName(extType))
	require.NoError(t, err)
	assert.Equal(t, extType, got)

	_, err = project.ExportLoader().LoadType(codec.ClassName(scriptType))
	assert.ErrorIs(t, err, domain.ErrTypeNotFound)

	_, err = settings.LocalLoader().LoadType(codec.ClassName(scriptType))
	assert.ErrorIs(t, err, domain.ErrTypeNotFound)

	// The root's local class path is not exported to children.
	_, err = settings.LocalLoader().LoadType(codec.ClassName(rootType))
	assert.ErrorIs(t, err, domain.ErrTypeNotFound)
}

func TestScope_Fallback(t *testing.T) {
	t.Parallel()

	codec.RegisterTypes(rootType)
	r := newRegistry(codec.KnownTypes())
	_, project := buildTree(t, r)

	got, err := project.LocalLoader().LoadType(codec.ClassName(rootType))
	require.NoError(t, err)
	assert.Equal(t, rootType, got)
}

func TestScope_Locked(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	_, project := buildTree(t, r)

	assert.ErrorIs(t, project.Local([]string{"more.jar"}), domain.ErrScopeLocked)
	assert.ErrorIs(t, project.Export([]string{"more.jar"}), domain.ErrScopeLocked)

	locked := r.Root().CreateLockedChild("plugin", []string{"script.jar"}, "feed", nil)
	assert.ErrorIs(t, locked.Local([]string{"x.jar"}), domain.ErrScopeLocked)
}

func TestScope_LockedChildDelegate(t *testing.T) {
	t.Parallel()

	other := newRegistry(nil)
	require.NoError(t, other.Root().Export([]string{"core.jar"}))

	r := scopes.NewRegistry(nil)
	child := r.Root().CreateLockedChild("isolated", nil, "feed", other.Root().ExportLoader())

	got, err := child.LocalLoader().LoadType(codec.ClassName(rootType))
	require.NoError(t, err)
	assert.Equal(t, rootType, got)
}

func TestRegistry_ScopeOf(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	buildTree(t, r)

	spec, role, ok := r.ScopeOf(scriptType)
	require.True(t, ok)
	assert.Equal(t, domain.ScopeLocal, role)
	assert.Equal(t, "settings:project", spec.Path())
	assert.Equal(t, []string{"script.jar"}, spec.LocalClassPath)
	assert.True(t, spec.HasHash())

	spec, role, ok = r.ScopeOf(extType)
	require.True(t, ok)
	assert.Equal(t, domain.ScopeExport, role)
	assert.Nil(t, spec.Parent)
	assert.Equal(t, []string{"api.jar"}, spec.ExportClassPath)
	assert.False(t, spec.HasHash())

	_, _, ok = r.ScopeOf(rootType)
	assert.False(t, ok)

	again, _, _ := r.ScopeOf(scriptType)
	assert.Same(t, spec, again.Parent, "parent specs are shared")
}

func TestScope_ImplementationHashIsStable(t *testing.T) {
	t.Parallel()

	hashOf := func() string {
		r := newRegistry(nil)
		buildTree(t, r)
		spec, _, ok := r.ScopeOf(scriptType)
		require.True(t, ok)
		return spec.ImplementationHash
	}
	assert.Equal(t, hashOf(), hashOf())
}

func TestScope_SpecBeforeLock(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	project, ok := r.Root().CreateChild("project").(*scopes.Scope)
	require.True(t, ok)
	require.NoError(t, project.Local([]string{"script.jar"}))

	early := project.Spec()
	assert.False(t, early.HasHash())

	project.Lock()
	spec, _, ok := r.ScopeOf(scriptType)
	require.True(t, ok)
	assert.Same(t, early, spec)
	assert.True(t, spec.HasHash(), "locking completes a spec handed out earlier")
	assert.Equal(t, []string{"script.jar"}, spec.LocalClassPath)
}

func TestScopes_CodecRoundTrip(t *testing.T) {
	t.Parallel()

	writer := newRegistry(nil)
	buildTree(t, writer)

	var buf bytes.Buffer
	w, err := codec.NewWriter(&buf, codec.WithScopeLookup(writer))
	require.NoError(t, err)
	ext := &pluginExtension{Name: "ext"}
	require.NoError(t, w.Write(&buildScript{Name: "build", Extension: ext}))
	require.NoError(t, w.Write(ext))
	require.NoError(t, w.Close())

	reader := newRegistry(nil)
	r, err := codec.NewReader(&buf, codec.WithScopeFactory(reader), codec.WithTypeLoader(reader.Root().LocalLoader()))
	require.NoError(t, err)
	roots, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, roots, 2)

	script, ok := roots[0].(*buildScript)
	require.True(t, ok)
	assert.Equal(t, "build", script.Name)
	assert.Same(t, script.Extension, roots[1])

	spec, role, ok := reader.ScopeOf(scriptType)
	require.True(t, ok, "decoding rebuilds the scope that provides the class")
	assert.Equal(t, domain.ScopeLocal, role)
	assert.Equal(t, "settings:project", spec.Path())
}
