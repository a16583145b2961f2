// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cfgcache/internal/adapters/cas"
	_ "go.trai.ch/cfgcache/internal/adapters/config"
	_ "go.trai.ch/cfgcache/internal/adapters/logger"
	_ "go.trai.ch/cfgcache/internal/adapters/problems"
	_ "go.trai.ch/cfgcache/internal/adapters/projects"
	_ "go.trai.ch/cfgcache/internal/adapters/scopes"
	// Register app and engine nodes.
	_ "go.trai.ch/cfgcache/internal/app"
	_ "go.trai.ch/cfgcache/internal/engine/codecs"
)
