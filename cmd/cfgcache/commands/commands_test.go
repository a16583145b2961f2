package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cfgcache/cmd/cfgcache/commands"
	"go.trai.ch/cfgcache/internal/build"
	"go.trai.ch/cfgcache/internal/core/domain"
)

type mockApp struct {
	infos    []domain.EntryInfo
	roots    []any
	problems []domain.Problem
	err      error

	loaded  string
	cleaned []string
}

func (m *mockApp) List(context.Context) ([]domain.EntryInfo, error) {
	return m.infos, m.err
}

func (m *mockApp) Load(_ context.Context, key string) ([]any, []domain.Problem, error) {
	m.loaded = key
	return m.roots, m.problems, m.err
}

func (m *mockApp) Clean(_ context.Context, keys ...string) (int, error) {
	m.cleaned = keys
	return len(keys), m.err
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	cli.SetArgs(args)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_List(t *testing.T) {
	t.Run("prints entries", func(t *testing.T) {
		mock := &mockApp{infos: []domain.EntryInfo{{
			Key:       ":app:build",
			Producer:  "1.2.0",
			Roots:     3,
			Size:      512,
			Codec:     "zstd",
			Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}}}

		out, err := execute(t, mock, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "KEY")
		assert.Contains(t, out, ":app:build")
		assert.Contains(t, out, "2024-05-01T12:00:00Z")
		assert.Contains(t, out, "zstd")
	})

	t.Run("empty store", func(t *testing.T) {
		out, err := execute(t, &mockApp{}, "list")
		require.NoError(t, err)
		assert.Equal(t, "no cache entries\n", out)
	})

	t.Run("store failure", func(t *testing.T) {
		_, err := execute(t, &mockApp{err: errors.New("disk gone")}, "list")
		assert.ErrorContains(t, err, "disk gone")
	})
}

func TestCommands_Verify(t *testing.T) {
	t.Run("reports roots and problems", func(t *testing.T) {
		mock := &mockApp{
			roots:    []any{&domain.Task{}, "tail"},
			problems: []domain.Problem{{Trace: "root `0`", Message: "value was skipped"}},
		}

		out, err := execute(t, mock, "verify", "graph")
		require.NoError(t, err)
		assert.Equal(t, "graph", mock.loaded)
		assert.Contains(t, out, "graph: 2 root(s), 1 problem(s)")
		assert.Contains(t, out, "root 0: *domain.Task")
		assert.Contains(t, out, "root 1: string")
		assert.Contains(t, out, "problem: root `0`: value was skipped")
	})

	t.Run("requires a key", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "verify")
		assert.Error(t, err)
	})

	t.Run("load failure", func(t *testing.T) {
		_, err := execute(t, &mockApp{err: domain.ErrIncompatibleEntry}, "verify", "graph")
		assert.ErrorIs(t, err, domain.ErrIncompatibleEntry)
	})
}

func TestCommands_Clean(t *testing.T) {
	mock := &mockApp{}
	out, err := execute(t, mock, "clean", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, mock.cleaned)
	assert.Equal(t, "removed 2 entries\n", out)

	mock = &mockApp{}
	_, err = execute(t, mock, "clean")
	require.NoError(t, err)
	assert.Empty(t, mock.cleaned)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cfgcache version "+build.Version)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "cfgcache version "+build.Version)
}
