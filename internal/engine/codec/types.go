package codec

import (
	"reflect"
	"sync"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Type descriptor kinds.
const (
	descClass uint64 = iota + 1
	descBasic
	descPointer
	descSlice
	descArray
	descMap
	descAny
	descError
)

var (
	anyType   = reflect.TypeFor[any]()
	errorType = reflect.TypeFor[error]()
)

var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Bool:       reflect.TypeFor[bool](),
	reflect.Int:        reflect.TypeFor[int](),
	reflect.Int8:       reflect.TypeFor[int8](),
	reflect.Int16:      reflect.TypeFor[int16](),
	reflect.Int32:      reflect.TypeFor[int32](),
	reflect.Int64:      reflect.TypeFor[int64](),
	reflect.Uint:       reflect.TypeFor[uint](),
	reflect.Uint8:      reflect.TypeFor[uint8](),
	reflect.Uint16:     reflect.TypeFor[uint16](),
	reflect.Uint32:     reflect.TypeFor[uint32](),
	reflect.Uint64:     reflect.TypeFor[uint64](),
	reflect.Uintptr:    reflect.TypeFor[uintptr](),
	reflect.Float32:    reflect.TypeFor[float32](),
	reflect.Float64:    reflect.TypeFor[float64](),
	reflect.Complex64:  reflect.TypeFor[complex64](),
	reflect.Complex128: reflect.TypeFor[complex128](),
	reflect.String:     reflect.TypeFor[string](),
}

// ClassName returns the name a named type is written under.
func ClassName(t reflect.Type) string {
	return t.PkgPath() + "." + t.Name()
}

func isClass(t reflect.Type) bool {
	return t.Name() != "" && t.PkgPath() != ""
}

func unsupportedType(t reflect.Type, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrUnsupportedType, reason), "type", t.String())
}

// WriteType writes a type descriptor. Named types become class records; composite
// types are described structurally down to their named leaves.
func (c *WriteContext) WriteType(t reflect.Type) error {
	switch {
	case t == anyType:
		return c.WriteUint(descAny)
	case t == errorType:
		return c.WriteUint(descError)
	case t.Kind() == reflect.UnsafePointer:
		return unsupportedType(t, "unsafe pointers cannot be cached")
	case isClass(t):
		if err := c.WriteUint(descClass); err != nil {
			return err
		}
		return c.WriteClass(t)
	case t.Name() != "":
		if _, ok := basicTypes[t.Kind()]; !ok {
			return unsupportedType(t, "predeclared type cannot be cached")
		}
		if err := c.WriteUint(descBasic); err != nil {
			return err
		}
		return c.WriteUint(uint64(t.Kind()))
	}

	switch t.Kind() {
	case reflect.Pointer:
		if err := c.WriteUint(descPointer); err != nil {
			return err
		}
		return c.WriteType(t.Elem())
	case reflect.Slice:
		if err := c.WriteUint(descSlice); err != nil {
			return err
		}
		return c.WriteType(t.Elem())
	case reflect.Array:
		if err := c.WriteUint(descArray); err != nil {
			return err
		}
		if err := c.WriteSmallInt(t.Len()); err != nil {
			return err
		}
		return c.WriteType(t.Elem())
	case reflect.Map:
		if err := c.WriteUint(descMap); err != nil {
			return err
		}
		if err := c.WriteType(t.Key()); err != nil {
			return err
		}
		return c.WriteType(t.Elem())
	default:
		return unsupportedType(t, "anonymous type cannot be cached")
	}
}

// ReadType reads a type descriptor written by WriteType.
func (c *ReadContext) ReadType() (reflect.Type, error) {
	kind, err := c.ReadUint()
	if err != nil {
		return nil, err
	}
	switch kind {
	case descAny:
		return anyType, nil
	case descError:
		return errorType, nil
	case descClass:
		return c.ReadClass()
	case descBasic:
		k, err := c.ReadUint()
		if err != nil {
			return nil, err
		}
		t, ok := basicTypes[reflect.Kind(k)]
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "unknown basic kind"), "kind", k)
		}
		return t, nil
	case descPointer:
		elem, err := c.ReadType()
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil
	case descSlice:
		elem, err := c.ReadType()
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	case descArray:
		n, err := c.ReadLength()
		if err != nil {
			return nil, err
		}
		elem, err := c.ReadType()
		if err != nil {
			return nil, err
		}
		return reflect.ArrayOf(n, elem), nil
	case descMap:
		key, err := c.ReadType()
		if err != nil {
			return nil, err
		}
		elem, err := c.ReadType()
		if err != nil {
			return nil, err
		}
		if !key.Comparable() {
			return nil, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "map key is not comparable"), "type", key.String())
		}
		return reflect.MapOf(key, elem), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "unknown type descriptor"), "descriptor", kind)
	}
}

var knownTypes sync.Map // string -> reflect.Type

// RegisterTypes makes types resolvable by KnownTypes.
// Every class written by this process is registered automatically.
func RegisterTypes(types ...reflect.Type) {
	for _, t := range types {
		if isClass(t) {
			knownTypes.LoadOrStore(ClassName(t), t)
		}
	}
}

type knownTypeLoader struct{}

// KnownTypes returns the process-wide loader of registered and previously written classes.
func KnownTypes() ports.TypeLoader {
	return knownTypeLoader{}
}

func (knownTypeLoader) LoadType(name string) (reflect.Type, error) {
	if t, ok := knownTypes.Load(name); ok {
		return t.(reflect.Type), nil
	}
	return nil, zerr.With(zerr.Wrap(domain.ErrTypeNotFound, "class is not registered"), "class", name)
}
