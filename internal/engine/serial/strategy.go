package serial

import (
	"reflect"
	"runtime"
	"slices"
	"sync"

	"go.trai.ch/cfgcache/internal/core/objectstream"
	"go.trai.ch/cfgcache/internal/engine/codec"
)

var (
	serializableType   = reflect.TypeFor[objectstream.Serializable]()
	externalizableType = reflect.TypeFor[objectstream.Externalizable]()
	replacerType       = reflect.TypeFor[objectstream.Replacer]()
	resolverType       = reflect.TypeFor[objectstream.Resolver]()
	objectWriterType   = reflect.TypeFor[objectstream.ObjectWriter]()
	objectReaderType   = reflect.TypeFor[objectstream.ObjectReader]()
)

type strategyKind uint8

const (
	kindBean strategyKind = iota
	kindReplace
	kindResolve
	kindExternal
	kindWriteObject
	kindReadObject
)

// level is one struct of a type's embedding chain. The most derived level is the type
// itself; each further level is the first embedded struct of the previous one.
type level struct {
	typ    reflect.Type
	path   []int
	fields []codec.Field
	writes bool
	reads  bool
}

func (l *level) value(root reflect.Value) reflect.Value {
	v := root
	for _, i := range l.path {
		v = codec.FieldValue(v, i)
	}
	return v
}

type strategy struct {
	kind     strategyKind
	levels   []level
	replace  bool
	resolve  bool
	external bool
	hooked   bool
}

// format returns the format the bean part of a value is written in.
func (s *strategy) format() Format {
	if s.external || s.hooked {
		return FormatWriteObject
	}
	return FormatReadObject
}

var strategies sync.Map // reflect.Type -> *strategy

// strategyOf returns the memoized strategy for the pointer-to-struct type t.
func strategyOf(t reflect.Type) *strategy {
	if s, ok := strategies.Load(t); ok {
		return s.(*strategy)
	}
	s := newStrategy(t)
	actual, _ := strategies.LoadOrStore(t, s)
	return actual.(*strategy)
}

func newStrategy(t reflect.Type) *strategy {
	s := &strategy{
		levels:   levelsOf(t.Elem()),
		replace:  t.Implements(replacerType),
		resolve:  t.Implements(resolverType),
		external: t.Implements(externalizableType),
	}
	reads := false
	for _, l := range s.levels {
		s.hooked = s.hooked || l.writes
		reads = reads || l.reads
	}
	switch {
	case s.replace:
		s.kind = kindReplace
	case s.resolve:
		s.kind = kindResolve
	case s.external:
		s.kind = kindExternal
	case s.hooked:
		s.kind = kindWriteObject
	case reads:
		s.kind = kindReadObject
	default:
		s.kind = kindBean
	}
	return s
}

func levelsOf(t reflect.Type) []level {
	var (
		levels []level
		path   []int
	)
	for t != nil {
		fields := codec.StructFields(t)
		own := make([]codec.Field, 0, len(fields))
		var next reflect.Type
		nextIndex := -1
		for _, f := range fields {
			if next == nil && f.Embedded && f.Type.Kind() == reflect.Struct {
				next, nextIndex = f.Type, f.Index
				continue
			}
			own = append(own, f)
		}
		levels = append(levels, level{
			typ:    t,
			path:   path,
			fields: own,
			writes: declares(t, "WriteObject", objectWriterType),
			reads:  declares(t, "ReadObject", objectReaderType),
		})
		if next != nil {
			path = append(slices.Clip(path), nextIndex)
		}
		t = next
	}
	return levels
}

// declares reports whether t itself declares the named hook, as opposed to inheriting
// it from an embedded struct through a compiler-generated wrapper.
func declares(t reflect.Type, name string, iface reflect.Type) bool {
	ptr := reflect.PointerTo(t)
	if !ptr.Implements(iface) {
		return false
	}
	for _, candidate := range []reflect.Type{t, ptr} {
		if m, ok := candidate.MethodByName(name); ok && !generated(m) {
			return true
		}
	}
	return false
}

func generated(m reflect.Method) bool {
	pc := m.Func.Pointer()
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return true
	}
	file, _ := fn.FileLine(pc)
	return file == "<autogenerated>"
}
