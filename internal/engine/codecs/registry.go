// Package codecs binds the configuration model's own types to the graph codec.
package codecs

import (
	"reflect"
	"sync"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/cfgcache/internal/engine/serial"
	"go.trai.ch/zerr"
)

// NewRegistry returns the registry used for cache entries: built-in codecs, the model's
// codecs, the legacy serialization codec and finally the structural codecs.
func NewRegistry() *codec.Registry {
	tasks := &taskCodec{}
	bindings := codec.BuiltinBindings()
	bindings = append(bindings,
		codec.Exact[*domain.Project]("project", projectCodec{}),
		codec.Exact[*domain.Closure]("closure", closureCodec{}),
		codec.Exact[*domain.Task]("task", tasks),
		codec.Implementing[domain.FileCollection]("file collection", fileCollectionCodec{}),
		serial.Binding(),
	)
	reg := codec.NewRegistry(append(bindings, codec.StructuralBindings()...)...)
	tasks.registry = reg
	return reg
}

// Default returns the process-wide registry.
var Default = sync.OnceValue(NewRegistry)

// readAs reads the next value and asserts it to T. Null decodes to T's zero value.
func readAs[T any](ctx *codec.ReadContext) (T, error) {
	var zero T
	v, err := ctx.Read()
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		err := zerr.Wrap(domain.ErrStreamCorrupted, "decoded value has an unexpected type")
		return zero, zerr.With(zerr.With(err, "want", typeName[T]()), "got", typeNameOf(v))
	}
	return t, nil
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

func typeNameOf(v any) string {
	return reflect.TypeOf(v).String()
}
