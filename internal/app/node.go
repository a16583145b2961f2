package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cfgcache/internal/adapters/cas"      //nolint:depguard // Wired in app layer
	"go.trai.ch/cfgcache/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/cfgcache/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/cfgcache/internal/adapters/problems" //nolint:depguard // Wired in app layer
	"go.trai.ch/cfgcache/internal/adapters/projects" //nolint:depguard // Wired in app layer
	"go.trai.ch/cfgcache/internal/adapters/scopes"   //nolint:depguard // Wired in app layer
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/cfgcache/internal/engine/codecs"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cas.NodeID,
			codecs.NodeID,
			projects.NodeID,
			problems.NodeID,
			scopes.NodeID,
			logger.NodeID,
			config.ConfigNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.ConfigNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	store, err := graft.Dep[ports.EntryStore](ctx)
	if err != nil {
		return nil, err
	}

	registry, err := graft.Dep[*codec.Registry](ctx)
	if err != nil {
		return nil, err
	}

	provider, err := graft.Dep[ports.ProjectProvider](ctx)
	if err != nil {
		return nil, err
	}

	newCollector, err := graft.Dep[problems.Factory](ctx)
	if err != nil {
		return nil, err
	}

	scopeRegistry, err := graft.Dep[*scopes.Registry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	a := New(store, registry, provider, func() Collector { return newCollector() }, log).
		WithScopes(scopeRegistry, scopeRegistry).
		WithFailOnProblems(cfg.FailOnProblems)
	return a, nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	if jl, ok := log.(interface{ SetJSON(bool) }); ok {
		jl.SetJSON(cfg.LogFormat == domain.LogFormatJSON)
	}

	return NewComponents(a, log, cfg), nil
}
