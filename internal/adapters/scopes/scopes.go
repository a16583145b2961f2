// Package scopes implements the class loader scope tree over a catalog of class path entries.
package scopes

import (
	"reflect"
	"slices"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/zerr"
)

// RootScopeName is the name of the top of the scope tree.
const RootScopeName = "root"

type origin struct {
	scope *Scope
	role  domain.ScopeRole
}

// Registry owns the scope tree and the catalog of types each class path entry provides.
// It implements ports.ScopeFactory and ports.ScopeLookup.
type Registry struct {
	mu       sync.RWMutex
	catalog  map[string][]reflect.Type
	origins  map[reflect.Type]origin
	root     *Scope
	fallback ports.TypeLoader
}

// NewRegistry creates a registry whose root scope resolves through fallback.
func NewRegistry(fallback ports.TypeLoader) *Registry {
	r := &Registry{
		catalog:  make(map[string][]reflect.Type),
		origins:  make(map[reflect.Type]origin),
		fallback: fallback,
	}
	r.root = &Scope{registry: r, name: RootScopeName}
	return r
}

// Define records the types provided by a class path entry.
func (r *Registry) Define(entry string, types ...reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog[entry] = append(r.catalog[entry], types...)
}

// Root returns the top of the scope tree.
func (r *Registry) Root() ports.ClassLoaderScope {
	return r.root
}

// ScopeOf returns the spec of the scope whose class path provided t.
// Types outside every child scope belong to the root.
func (r *Registry) ScopeOf(t reflect.Type) (*domain.ScopeSpec, domain.ScopeRole, bool) {
	r.mu.RLock()
	o, ok := r.origins[t]
	r.mu.RUnlock()
	if !ok || o.scope == r.root {
		return nil, domain.ScopeLocal, false
	}
	return o.scope.Spec(), o.role, true
}

func (r *Registry) claim(s *Scope, entries []string, role domain.ScopeRole) {
	for _, entry := range entries {
		for _, t := range r.catalog[entry] {
			if _, taken := r.origins[t]; !taken {
				r.origins[t] = origin{scope: s, role: role}
			}
		}
	}
}

// find returns the type named name among the types of entries.
func (r *Registry) find(entries []string, name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range entries {
		for _, t := range r.catalog[entry] {
			if codec.ClassName(t) == name {
				return t, true
			}
		}
	}
	return nil, false
}

func (r *Registry) implementationHash(entries []string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d := xxhash.New()
	for _, entry := range entries {
		_, _ = d.WriteString(entry)
		_, _ = d.Write([]byte{0})
		names := make([]string, 0, len(r.catalog[entry]))
		for _, t := range r.catalog[entry] {
			names = append(names, codec.ClassName(t))
		}
		slices.Sort(names)
		for _, n := range names {
			_, _ = d.WriteString(n)
			_, _ = d.Write([]byte{0})
		}
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// Scope is one node of the scope tree.
type Scope struct {
	registry *Registry
	parent   *Scope
	name     string

	mu     sync.RWMutex
	local  []string
	export []string
	hash   string
	locked bool
	// delegate replaces the parent's export loader when set.
	delegate ports.TypeLoader
	spec     *domain.ScopeSpec
}

// Name returns the scope name.
func (s *Scope) Name() string {
	return s.name
}

// CreateChild creates an unlocked child scope.
func (s *Scope) CreateChild(name string) ports.ClassLoaderScope {
	return &Scope{registry: s.registry, parent: s, name: name}
}

// CreateLockedChild creates a child that is already locked with the given local class path.
func (s *Scope) CreateLockedChild(name string, localClassPath []string, implementationHash string, loader ports.TypeLoader) ports.ClassLoaderScope {
	child := &Scope{
		registry: s.registry,
		parent:   s,
		name:     name,
		local:    slices.Clone(localClassPath),
		hash:     implementationHash,
		locked:   true,
		delegate: loader,
	}
	s.registry.mu.Lock()
	s.registry.claim(child, child.local, domain.ScopeLocal)
	s.registry.mu.Unlock()
	return child
}

// Local adds entries to the local class path.
func (s *Scope) Local(classPath []string) error {
	return s.add(classPath, domain.ScopeLocal)
}

// Export adds entries to the export class path.
func (s *Scope) Export(classPath []string) error {
	return s.add(classPath, domain.ScopeExport)
}

func (s *Scope) add(classPath []string, role domain.ScopeRole) error {
	if len(classPath) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrScopeLocked, "cannot change class path"), "scope", s.path()), "role", role.String())
	}
	if role == domain.ScopeExport {
		s.export = append(s.export, classPath...)
	} else {
		s.local = append(s.local, classPath...)
	}

	s.registry.mu.Lock()
	s.registry.claim(s, classPath, role)
	s.registry.mu.Unlock()
	return nil
}

// Lock freezes the class paths. A scope with a local class path gets an implementation
// hash derived from it.
func (s *Scope) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return
	}
	s.locked = true
	if s.hash == "" && len(s.local) > 0 {
		s.hash = s.registry.implementationHash(s.local)
	}
	// A spec handed out before locking keeps its identity and takes the final state.
	if s.spec != nil {
		s.spec.LocalClassPath = slices.Clone(s.local)
		s.spec.ExportClassPath = slices.Clone(s.export)
		s.spec.ImplementationHash = s.hash
	}
}

// Locked reports whether the class paths are frozen.
func (s *Scope) Locked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locked
}

// Spec describes the scope for the cache. The root scope has no spec, so the
// spec of a direct child of the root has no parent.
func (s *Scope) Spec() *domain.ScopeSpec {
	if s.parent == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spec == nil {
		s.spec = &domain.ScopeSpec{
			Parent:             s.parent.Spec(),
			Name:               s.name,
			LocalClassPath:     slices.Clone(s.local),
			ImplementationHash: s.hash,
			ExportClassPath:    slices.Clone(s.export),
		}
	} else if !s.locked {
		s.spec.LocalClassPath = slices.Clone(s.local)
		s.spec.ExportClassPath = slices.Clone(s.export)
	}
	return s.spec
}

func (s *Scope) path() string {
	if s.parent == nil {
		return s.name
	}
	return s.parent.path() + ":" + s.name
}

// LocalLoader sees local and exported entries plus everything the parent exports.
func (s *Scope) LocalLoader() ports.TypeLoader {
	return loader{scope: s, local: true}
}

// ExportLoader sees exported entries plus everything the parent exports.
func (s *Scope) ExportLoader() ports.TypeLoader {
	return loader{scope: s}
}

type loader struct {
	scope *Scope
	local bool
}

func (l loader) LoadType(name string) (reflect.Type, error) {
	s := l.scope
	s.mu.RLock()
	entries := slices.Clone(s.export)
	if l.local {
		entries = append(entries, s.local...)
	}
	delegate := s.delegate
	s.mu.RUnlock()

	if t, ok := s.registry.find(entries, name); ok {
		return t, nil
	}

	switch {
	case delegate != nil:
		return delegate.LoadType(name)
	case s.parent != nil:
		return s.parent.ExportLoader().LoadType(name)
	case s.registry.fallback != nil:
		return s.registry.fallback.LoadType(name)
	}
	return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrTypeNotFound, "cannot load class"), "class", name), "scope", s.path())
}
