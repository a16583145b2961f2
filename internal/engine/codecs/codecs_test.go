package codecs_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/files"
	"go.trai.ch/cfgcache/internal/core/ports/mocks"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/cfgcache/internal/engine/codecs"
	"go.uber.org/mock/gomock"
)

type projects map[string]*domain.Project

func (p projects) Project(path string) (*domain.Project, error) {
	if proj, ok := p[path]; ok {
		return proj, nil
	}
	return nil, domain.ErrProjectNotFound
}

func roundTrip(t *testing.T, opts []codec.Option, roots ...any) []any {
	t.Helper()
	opts = append([]codec.Option{codec.WithRegistry(codecs.Default())}, opts...)

	var buf bytes.Buffer
	w, err := codec.NewWriter(&buf, opts...)
	require.NoError(t, err)
	for _, root := range roots {
		require.NoError(t, w.Write(root))
	}
	require.NoError(t, w.Close())

	r, err := codec.NewReader(&buf, opts...)
	require.NoError(t, err)
	got, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, len(roots))
	return got
}

func buildGraph(t *testing.T, root, app *domain.Project) *domain.Graph {
	t.Helper()
	command := []string{"go", "build", "./..."}
	sources := files.Union(
		files.Of("go.mod"),
		files.Filter(files.Tree("src", domain.PatternSet{}), domain.PatternSet{Includes: []string{"*.go"}}),
	)

	compile := &domain.Task{
		Name:        domain.NewInternedString("compile"),
		Project:     app,
		Command:     command,
		Inputs:      sources,
		Outputs:     []domain.InternedString{domain.NewInternedString("bin/app")},
		Environment: map[string]string{"CGO_ENABLED": "0"},
		Action:      domain.NewClosure("echo", app, "compiled"),
	}
	test := &domain.Task{
		Name:         domain.NewInternedString("test"),
		Project:      app,
		Dependencies: []*domain.Task{compile},
		Command:      command,
		Inputs:       sources,
	}
	lint := &domain.Task{
		Name:    domain.NewInternedString("lint"),
		Project: root,
	}

	g := domain.NewGraph()
	for _, task := range []*domain.Task{compile, test, lint} {
		require.NoError(t, g.AddTask(task))
	}
	require.NoError(t, g.Validate())
	return g
}

func TestGraph_RoundTrip(t *testing.T) {
	root := &domain.Project{Path: ":", Name: "root", Dir: "/ws"}
	app := &domain.Project{Path: ":app", Name: "app", Dir: "/ws/app"}
	// The loading build has its own project instances.
	loaded := projects{
		":":    {Path: ":", Name: "root", Dir: "/checkout"},
		":app": {Path: ":app", Name: "app", Dir: "/checkout/app"},
	}

	g := buildGraph(t, root, app)
	got := roundTrip(t, []codec.Option{codec.WithProjects(loaded)}, g)

	out, ok := got[0].(*domain.Graph)
	require.True(t, ok)
	assert.Equal(t, 3, out.Len())

	compile, err := out.Task("compile")
	require.NoError(t, err)
	test, err := out.Task("test")
	require.NoError(t, err)
	lint, err := out.Task("lint")
	require.NoError(t, err)

	assert.Same(t, loaded[":app"], compile.Project, "projects are resolved by path")
	assert.Same(t, loaded[":"], lint.Project)
	require.Len(t, test.Dependencies, 1)
	assert.Same(t, compile, test.Dependencies[0], "tasks are shared across the graph")
	assert.Equal(t, ":app:compile", compile.Path())

	assert.Equal(t, []string{"go", "build", "./..."}, compile.Command)
	assert.Equal(t, compile.Command, test.Command)
	assert.NotSame(t, &compile.Command[0], &test.Command[0], "task state is isolated per task")
	assert.Equal(t, map[string]string{"CGO_ENABLED": "0"}, compile.Environment)
	assert.Equal(t, []domain.InternedString{domain.NewInternedString("bin/app")}, compile.Outputs)

	require.NotNil(t, compile.Action)
	assert.Equal(t, "echo", compile.Action.Body)
	assert.Equal(t, domain.NeutralOwner, compile.Action.Owner())

	var order []string
	for task := range out.Walk() {
		order = append(order, task.Name.String())
	}
	assert.Equal(t, []string{"compile", "lint", "test"}, order)
}

func TestGraph_TaskCapturedByAction(t *testing.T) {
	app := &domain.Project{Path: ":app"}
	b := &domain.Task{Name: domain.NewInternedString("b"), Project: app}
	a := &domain.Task{
		Name:         domain.NewInternedString("a"),
		Project:      app,
		Dependencies: []*domain.Task{b},
		Action:       domain.NewClosure("run", nil, b),
	}

	got := roundTrip(t, []codec.Option{codec.WithProjects(projects{":app": app})}, a, b)

	da, ok := got[0].(*domain.Task)
	require.True(t, ok)
	db, ok := got[1].(*domain.Task)
	require.True(t, ok)
	require.Len(t, da.Dependencies, 1)
	assert.Same(t, db, da.Dependencies[0])
	require.NotNil(t, da.Action)
	require.Len(t, da.Action.Captured, 1)
	assert.Same(t, db, da.Action.Captured[0], "a task reached from another task's state stays shared")
}

func TestGraph_ActionCapturesOwningTask(t *testing.T) {
	app := &domain.Project{Path: ":app"}
	a := &domain.Task{Name: domain.NewInternedString("a"), Project: app}
	a.Action = domain.NewClosure("run", nil, a)

	got := roundTrip(t, []codec.Option{codec.WithProjects(projects{":app": app})}, a, a)

	da, ok := got[0].(*domain.Task)
	require.True(t, ok)
	assert.Same(t, da, got[1])
	require.NotNil(t, da.Action)
	require.Len(t, da.Action.Captured, 1)
	assert.Same(t, da, da.Action.Captured[0])
}

func TestReader_StopsAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	w, err := codec.NewWriter(&buf, codec.WithRegistry(codecs.Default()))
	require.NoError(t, err)
	require.NoError(t, w.Write(&domain.Project{Path: ":gone"}))
	require.NoError(t, w.Write(42))
	require.NoError(t, w.Close())

	r, err := codec.NewReader(&buf, codec.WithRegistry(codecs.Default()), codec.WithProjects(projects{}))
	require.NoError(t, err)
	_, err = r.Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	v, err := r.Read()
	assert.Nil(t, v)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound, "the pass stays failed")

	roots, err := r.ReadAll()
	assert.Empty(t, roots)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestGraph_ProjectNotFound(t *testing.T) {
	app := &domain.Project{Path: ":app"}
	var buf bytes.Buffer
	w, err := codec.NewWriter(&buf, codec.WithRegistry(codecs.Default()))
	require.NoError(t, err)
	require.NoError(t, w.Write(&domain.Task{Name: domain.NewInternedString("x"), Project: app}))
	require.NoError(t, w.Close())

	r, err := codec.NewReader(&buf, codec.WithRegistry(codecs.Default()))
	require.NoError(t, err)
	_, err = r.Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestClosure_RoundTrip(t *testing.T) {
	domain.DefineClosure("greet", func(c *domain.Closure, args ...any) (any, error) {
		return c.Captured[0].(string) + args[0].(string), nil
	})
	owner := &domain.Project{Path: ":"}
	c := domain.NewClosure("greet", owner, "hello, ")
	c.SetDelegate("delegate")

	got := roundTrip(t, []codec.Option{codec.WithProjects(projects{":": owner})}, c, c)

	out, ok := got[0].(*domain.Closure)
	require.True(t, ok)
	assert.Same(t, out, got[1])
	assert.Equal(t, domain.NeutralOwner, out.Owner())
	assert.Equal(t, domain.NeutralOwner, out.Delegate())
	assert.Equal(t, domain.NeutralOwner, out.ThisObject())

	res, err := out.Call("world")
	require.NoError(t, err)
	assert.Equal(t, "hello, world", res)
}

func TestFileCollections_Structure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(filepath.Join(dir, "a.txt")))
	require.NoError(t, writeFile(filepath.Join(dir, "b.log")))
	t.Setenv("CFGCACHE_TEST_PATHS", "x"+string(filepath.ListSeparator)+"y")
	files.RegisterTransform("upper", func(path string) ([]string, error) {
		return []string{strings.ToUpper(path)}, nil
	})

	tests := []struct {
		name string
		fc   domain.FileCollection
		want []string
	}{
		{"literal", files.Of("a", "b"), []string{"a", "b"}},
		{"subtract", files.Subtract(files.Of("a", "b", "c"), files.Of("b")), []string{"a", "c"}},
		{"filter", files.Filter(files.Of("a.go", "b.txt"), domain.PatternSet{Includes: []string{"*.go"}}), []string{"a.go"}},
		{"tree", files.Tree(dir, domain.PatternSet{Includes: []string{"*.txt"}}), []string{filepath.Join(dir, "a.txt")}},
		{"provider", files.FromProvider(&files.EnvProvider{Variable: "CFGCACHE_TEST_PATHS"}), []string{"x", "y"}},
		{"transformed", files.Transform(files.Of("a"), "upper"), []string{"A"}},
		{"union", files.Union(files.Of("a"), files.Of("b", "a")), []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, nil, tt.fc)
			fc, ok := got[0].(domain.FileCollection)
			require.True(t, ok)
			paths, err := fc.Files()
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestFileCollections_BrokenStructure(t *testing.T) {
	ctrl := gomock.NewController(t)
	listener := mocks.NewMockProblemsListener(ctrl)

	failing := files.Lazy("generated", func() (domain.FileCollection, error) {
		return nil, errors.New("generator failed")
	})
	task := &domain.Task{Name: domain.NewInternedString("gen"), Inputs: failing, Command: []string{"gen"}}

	listener.EXPECT().
		OnError(gomock.Any(), gomock.Any(), "cannot visit file collection structure").
		Do(func(trace *domain.PropertyTrace, err error, _ string) {
			assert.Equal(t, "field `Inputs` of `domain.Task` of task `:gen` of root `0`", trace.String())
			assert.ErrorContains(t, err, "generator failed")
		})

	got := roundTrip(t, []codec.Option{codec.WithProblems(listener)}, task)

	out := got[0].(*domain.Task)
	assert.Equal(t, []string{"gen"}, out.Command, "the rest of the task is still written")
	_, err := out.Inputs.Files()
	require.Error(t, err)
	assert.Equal(t, "cannot resolve file collection: generator failed", err.Error())
}

func TestFileCollections_Shared(t *testing.T) {
	shared := files.Of("a")
	got := roundTrip(t, nil, []domain.FileCollection{shared, shared})

	list := got[0].([]domain.FileCollection)
	assert.Same(t, list[0], list[1])
}

func TestRegistry_Bindings(t *testing.T) {
	reg := codecs.Default()
	assert.Same(t, reg, codecs.Default())

	names := reg.Names()
	assert.Contains(t, names, "task")
	assert.Contains(t, names, "file collection")
	assert.Contains(t, names, "serializable")

	name, ok := reg.BindingFor(reflectTypeOf(files.Of()))
	require.True(t, ok)
	assert.Equal(t, "file collection", name)
}
