package ports

import (
	"reflect"

	"go.trai.ch/cfgcache/internal/core/domain"
)

// TypeLoader resolves class names to Go types.
//
//go:generate go run go.uber.org/mock/mockgen -source=scopes.go -destination=mocks/mock_scopes.go -package=mocks
type TypeLoader interface {
	// LoadType returns the type registered under name ("pkg/path.Name").
	// It returns domain.ErrTypeNotFound when the name is not visible to this loader.
	LoadType(name string) (reflect.Type, error)
}

// ClassLoaderScope is one node of the hierarchical type visibility tree.
type ClassLoaderScope interface {
	// Name returns the scope name.
	Name() string

	// CreateChild creates an unlocked child scope.
	CreateChild(name string) ClassLoaderScope

	// CreateLockedChild creates a child that is locked with the given local class path and
	// implementation hash. A nil loader makes the child inherit its parent's export loader.
	CreateLockedChild(name string, localClassPath []string, implementationHash string, loader TypeLoader) ClassLoaderScope

	// Local adds entries to the local class path.
	Local(classPath []string) error

	// Export adds entries to the export class path.
	Export(classPath []string) error

	// Lock freezes the class paths.
	Lock()

	// LocalLoader sees local and exported entries plus everything the parent exports.
	LocalLoader() TypeLoader

	// ExportLoader sees exported entries plus everything the parent exports.
	ExportLoader() TypeLoader
}

// ScopeFactory gives access to the root of the scope tree.
type ScopeFactory interface {
	Root() ClassLoaderScope
}

// ScopeLookup finds the scope a type was loaded from.
type ScopeLookup interface {
	// ScopeOf returns the scope spec and role for t, or false when t belongs to the root scope.
	ScopeOf(t reflect.Type) (*domain.ScopeSpec, domain.ScopeRole, bool)
}
