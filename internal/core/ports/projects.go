package ports

import "go.trai.ch/cfgcache/internal/core/domain"

// ProjectProvider resolves project paths to the live project model.
//
//go:generate go run go.uber.org/mock/mockgen -source=projects.go -destination=mocks/mock_projects.go -package=mocks
type ProjectProvider interface {
	// Project returns the project at path or domain.ErrProjectNotFound.
	Project(path string) (*domain.Project, error)
}
