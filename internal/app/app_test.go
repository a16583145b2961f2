package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cfgcache/internal/adapters/cas"
	"go.trai.ch/cfgcache/internal/adapters/problems"
	"go.trai.ch/cfgcache/internal/adapters/projects"
	"go.trai.ch/cfgcache/internal/app"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/files"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/cfgcache/internal/core/ports/mocks"
	"go.trai.ch/cfgcache/internal/engine/codecs"
	"go.uber.org/mock/gomock"
)

var appProject = &domain.Project{Path: ":app", Name: "app", Dir: "app"}

func newApp(t *testing.T, store ports.EntryStore) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	return app.New(
		store,
		codecs.Default(),
		projects.NewRegistry(appProject),
		func() app.Collector { return problems.NewCollector(nil) },
		log,
	)
}

func buildTasks() (compile, test *domain.Task) {
	compile = &domain.Task{
		Name:    domain.NewInternedString("compile"),
		Project: appProject,
		Command: []string{"go", "build"},
		Inputs:  files.Of("main.go"),
	}
	test = &domain.Task{
		Name:         domain.NewInternedString("test"),
		Project:      appProject,
		Dependencies: []*domain.Task{compile},
		Command:      []string{"go", "test"},
	}
	return compile, test
}

func TestApp_StoreLoad(t *testing.T) {
	t.Parallel()

	a := newApp(t, cas.NewStore(t.TempDir(), domain.CompressionZstd))
	compile, test := buildTasks()

	problemsOut, err := a.Store(context.Background(), "graph", compile, test)
	require.NoError(t, err)
	assert.Empty(t, problemsOut)

	roots, problemsIn, err := a.Load(context.Background(), "graph")
	require.NoError(t, err)
	assert.Empty(t, problemsIn)
	require.Len(t, roots, 2)

	gotCompile := roots[0].(*domain.Task)
	gotTest := roots[1].(*domain.Task)
	assert.Same(t, gotCompile, gotTest.Dependencies[0], "roots share one identity table")
	assert.Same(t, appProject, gotCompile.Project, "projects are resolved, not copied")
	assert.Equal(t, []string{"go", "test"}, gotTest.Command)

	paths, err := gotCompile.Inputs.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, paths)

	infos, err := a.List(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "graph", infos[0].Key)
	assert.Equal(t, 2, infos[0].Roots)
}

func TestApp_Problems(t *testing.T) {
	t.Parallel()

	failing := func() *domain.Task {
		return &domain.Task{
			Name: domain.NewInternedString("gen"),
			Inputs: files.Lazy("generated", func() (domain.FileCollection, error) {
				return nil, errors.New("generator failed")
			}),
		}
	}

	t.Run("reported", func(t *testing.T) {
		t.Parallel()

		a := newApp(t, cas.NewStore(t.TempDir(), domain.CompressionNone))
		got, err := a.Store(context.Background(), "gen", failing())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "field `Inputs` of `domain.Task` of task `:gen` of root `0`", got[0].Trace)

		roots, _, err := a.Load(context.Background(), "gen")
		require.NoError(t, err)
		require.Len(t, roots, 1)
	})

	t.Run("fail on problems", func(t *testing.T) {
		t.Parallel()

		a := newApp(t, cas.NewStore(t.TempDir(), domain.CompressionNone)).WithFailOnProblems(true)
		got, err := a.Store(context.Background(), "gen", failing())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProblemsReported)
		assert.Len(t, got, 1)

		_, _, err = a.Load(context.Background(), "gen")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound, "a failed pass leaves no entry")
	})
}

func TestApp_StoreDiscardsOnFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	store := mocks.NewMockEntryStore(ctrl)
	writer := mocks.NewMockEntryWriter(ctrl)

	store.EXPECT().Create("bad", gomock.Any()).Return(writer, nil)
	writer.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) { return len(p), nil }).AnyTimes()
	writer.EXPECT().Discard().Return(nil)

	a := newApp(t, store)
	_, err := a.Store(context.Background(), "bad", func() {})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestApp_StoreCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newApp(t, cas.NewStore(t.TempDir(), domain.CompressionZstd))
	_, err := a.Store(ctx, "graph", "value")
	require.ErrorIs(t, err, context.Canceled)

	_, _, err = a.Load(context.Background(), "graph")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestApp_IncompatibleProducer(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(t.TempDir(), domain.CompressionZstd)
	_, err := newApp(t, store).WithProducer("1.0.0").Store(context.Background(), "k", "value")
	require.NoError(t, err)

	_, _, err = newApp(t, store).WithProducer("2.0.0").Load(context.Background(), "k")
	assert.ErrorIs(t, err, domain.ErrIncompatibleEntry)
}

func TestApp_StoreAllAndClean(t *testing.T) {
	t.Parallel()

	a := newApp(t, cas.NewStore(t.TempDir(), domain.CompressionZstd)).WithConcurrency(2)
	compile, test := buildTasks()

	report, err := a.StoreAll(context.Background(), map[string][]any{
		"compile": {compile},
		"test":    {test},
		"both":    {compile, test},
		"empty":   nil,
	})
	require.NoError(t, err)
	assert.Empty(t, report)

	infos, err := a.List(context.Background())
	require.NoError(t, err)
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		keys = append(keys, info.Key)
	}
	assert.Equal(t, []string{"both", "compile", "empty", "test"}, keys)

	roots, _, err := a.Load(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, roots)

	n, err := a.Clean(context.Background(), "compile")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = a.Clean(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = a.Clean(context.Background(), "compile")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	assert.Zero(t, n)
}

func TestApp_LoadMissing(t *testing.T) {
	t.Parallel()

	a := newApp(t, cas.NewStore(t.TempDir(), domain.CompressionZstd))
	_, _, err := a.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}
