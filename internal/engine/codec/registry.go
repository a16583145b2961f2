package codec

import (
	"reflect"
	"sync"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/zerr"
)

const nullTag = 0

// Registry dispatches values to the first binding that matches their dynamic type.
// The binding index is written as a tag in front of every value, so a stream can only be
// read by a registry with the same bindings in the same order.
type Registry struct {
	bindings []Binding
	byType   sync.Map // reflect.Type -> int
}

// NewRegistry creates a registry that tries bindings in order.
func NewRegistry(bindings ...Binding) *Registry {
	return &Registry{bindings: bindings}
}

// NewBaseRegistry creates a registry with the built-in and structural bindings only.
func NewBaseRegistry() *Registry {
	return NewRegistry(append(BuiltinBindings(), StructuralBindings()...)...)
}

// Names returns the binding names in dispatch order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.bindings))
	for i, b := range r.bindings {
		names[i] = b.Name
	}
	return names
}

// BindingFor returns the name of the binding that handles t.
func (r *Registry) BindingFor(t reflect.Type) (string, bool) {
	idx := r.lookup(t)
	if idx < 0 {
		return "", false
	}
	return r.bindings[idx].Name, true
}

func (r *Registry) lookup(t reflect.Type) int {
	if idx, ok := r.byType.Load(t); ok {
		return idx.(int)
	}
	idx := -1
	for i, b := range r.bindings {
		if b.Matches(t) {
			idx = i
			break
		}
	}
	actual, _ := r.byType.LoadOrStore(t, idx)
	return actual.(int)
}

// Encode writes the binding tag of v followed by its encoding.
func (r *Registry) Encode(ctx *WriteContext, v any) error {
	if isNil(v) {
		return ctx.WriteUint(nullTag)
	}
	t := reflect.TypeOf(v)
	idx := r.lookup(t)
	if idx < 0 {
		return zerr.With(zerr.Wrap(domain.ErrUnsupportedType, "no codec for value"), "type", t.String())
	}
	if err := ctx.WriteUint(uint64(idx + 1)); err != nil {
		return err
	}
	return r.bindings[idx].Codec.Encode(ctx, v)
}

// Decode reads a binding tag and decodes the value that follows.
func (r *Registry) Decode(ctx *ReadContext) (any, error) {
	tag, err := ctx.ReadUint()
	if err != nil {
		return nil, err
	}
	if tag == nullTag {
		return nil, nil
	}
	if tag > uint64(len(r.bindings)) {
		return nil, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "unknown codec tag"), "tag", tag)
	}
	return r.bindings[tag-1].Codec.Decode(ctx)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
