package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/cfgcache/internal/adapters/cas"
	"go.trai.ch/cfgcache/internal/adapters/problems"
	"go.trai.ch/cfgcache/internal/adapters/projects"
	"go.trai.ch/cfgcache/internal/app"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports/mocks"
	"go.trai.ch/cfgcache/internal/engine/codecs"
	"go.uber.org/mock/gomock"
)

func TestRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	store := cas.NewStore(t.TempDir(), domain.CompressionZstd)
	a := app.New(store, codecs.Default(), projects.NewRegistry(), func() app.Collector {
		return problems.NewCollector(log)
	}, log)
	_, err := a.Store(context.Background(), "graph", "root value")
	if err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	provider := func(context.Context) (*app.Components, error) {
		return app.NewComponents(a, log, domain.DefaultConfig()), nil
	}

	t.Run("verify", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"verify", "graph"}, &stdout, &stderr, provider)
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout.String(), "graph: 1 root(s), 0 problem(s)")
	})

	t.Run("failure is logged", func(t *testing.T) {
		log.EXPECT().Error(gomock.Any()).Do(func(err error) {
			assert.ErrorIs(t, err, domain.ErrEntryNotFound)
		})
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"verify", "missing"}, &stdout, &stderr, provider)
		assert.Equal(t, 1, code)
	})

	t.Run("initialization failure", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"list"}, &stdout, &stderr, func(context.Context) (*app.Components, error) {
			return nil, errors.New("no config")
		})
		assert.Equal(t, 1, code)
		assert.Equal(t, "Error: no config\n", stderr.String())
	})
}
