// Package projects resolves project paths against the loaded project hierarchy.
package projects

import (
	"slices"
	"strings"
	"sync"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Registry implements ports.ProjectProvider over the projects added to it.
type Registry struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
}

// NewRegistry creates a registry holding projects.
func NewRegistry(projects ...*domain.Project) *Registry {
	r := &Registry{projects: make(map[string]*domain.Project, len(projects))}
	for _, p := range projects {
		r.projects[p.Path] = p
	}
	return r
}

// Add registers a project under its path. A project with the same path is replaced.
func (r *Registry) Add(p *domain.Project) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.Path] = p
}

// Project returns the project at path.
func (r *Registry) Project(path string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.projects[path]; ok {
		return p, nil
	}
	return nil, zerr.With(zerr.Wrap(domain.ErrProjectNotFound, "cannot resolve project"), "project", path)
}

// Paths returns every registered project path, sorted.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.projects))
	for path := range r.projects {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// ChildPath returns the path of the project named name under parent.
func ChildPath(parent, name string) string {
	if parent == domain.RootProjectPath {
		return ":" + name
	}
	return strings.TrimSuffix(parent, ":") + ":" + name
}
