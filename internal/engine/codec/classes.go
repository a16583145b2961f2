package codec

import (
	"reflect"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// WriteClass writes a class record for the named type t. Classes are written once per pass;
// the first occurrence carries the class name and, when t was loaded from a non-root
// scope, the scope and whether t came from its local or export class path.
func (c *WriteContext) WriteClass(t reflect.Type) error {
	if !isClass(t) {
		return unsupportedType(t, "only named types have class records")
	}
	return c.encodeShared(c.classes, t, func() error {
		RegisterTypes(t)
		if err := c.WriteString(ClassName(t)); err != nil {
			return err
		}
		var (
			spec  *domain.ScopeSpec
			role  domain.ScopeRole
			found bool
		)
		if c.scopeLookup != nil {
			spec, role, found = c.scopeLookup.ScopeOf(t)
		}
		if err := c.WriteBool(found); err != nil {
			return err
		}
		if !found {
			return nil
		}
		if err := c.writeScope(spec); err != nil {
			return err
		}
		return c.WriteBool(role == domain.ScopeExport)
	})
}

func (c *WriteContext) writeScope(spec *domain.ScopeSpec) error {
	return c.encodeShared(c.scopes, spec, func() error {
		if err := c.WriteBool(spec.Parent != nil); err != nil {
			return err
		}
		if spec.Parent != nil {
			if err := c.writeScope(spec.Parent); err != nil {
				return err
			}
		}
		if err := c.WriteString(spec.Name); err != nil {
			return err
		}
		if err := c.WriteStrings(spec.LocalClassPath); err != nil {
			return err
		}
		if err := c.WriteBool(spec.HasHash()); err != nil {
			return err
		}
		if spec.HasHash() {
			if err := c.WriteString(spec.ImplementationHash); err != nil {
				return err
			}
		}
		return c.WriteStrings(spec.ExportClassPath)
	})
}

// ReadClass reads a class record and resolves the type through the loader of the scope it
// was written with, or the root loader when no scope was written.
func (c *ReadContext) ReadClass() (reflect.Type, error) {
	v, err := c.decodeShared(c.classes, func(int) (any, error) {
		name, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		hasScope, err := c.ReadBool()
		if err != nil {
			return nil, err
		}
		loader := c.rootLoader
		if hasScope {
			scope, err := c.readScope()
			if err != nil {
				return nil, err
			}
			export, err := c.ReadBool()
			if err != nil {
				return nil, err
			}
			if export {
				loader = scope.ExportLoader()
			} else {
				loader = scope.LocalLoader()
			}
		}
		t, err := loader.LoadType(name)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "cannot read class"), "class", name)
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(reflect.Type), nil
}

func (c *ReadContext) readScope() (ports.ClassLoaderScope, error) {
	v, err := c.decodeShared(c.scopes, func(int) (any, error) {
		hasParent, err := c.ReadBool()
		if err != nil {
			return nil, err
		}
		var parent ports.ClassLoaderScope
		if hasParent {
			if parent, err = c.readScope(); err != nil {
				return nil, err
			}
		} else {
			if c.scopeFactory == nil {
				return nil, zerr.Wrap(domain.ErrStreamCorrupted, "scope record without a scope factory")
			}
			parent = c.scopeFactory.Root()
		}
		name, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		local, err := c.ReadStrings()
		if err != nil {
			return nil, err
		}
		hasHash, err := c.ReadBool()
		if err != nil {
			return nil, err
		}
		var hash string
		if hasHash {
			if hash, err = c.ReadString(); err != nil {
				return nil, err
			}
		}
		export, err := c.ReadStrings()
		if err != nil {
			return nil, err
		}
		return rebuildScope(parent, name, local, hash, export)
	})
	if err != nil {
		return nil, err
	}
	return v.(ports.ClassLoaderScope), nil
}

func rebuildScope(parent ports.ClassLoaderScope, name string, local []string, hash string, export []string) (ports.ClassLoaderScope, error) {
	if hash != "" && len(export) == 0 {
		return parent.CreateLockedChild(name, local, hash, nil), nil
	}
	scope := parent.CreateChild(name)
	if err := scope.Local(local); err != nil {
		return nil, err
	}
	if err := scope.Export(export); err != nil {
		return nil, err
	}
	scope.Lock()
	return scope, nil
}
