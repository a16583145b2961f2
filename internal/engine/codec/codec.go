// Package codec implements the identity-preserving object graph codec of the configuration cache.
//
// A pass writes any number of root values to one stream. Values are dispatched through a
// Registry of bindings; reference values (pointers, maps and slices) are written once and
// referred to by id afterwards, so shared and cyclic structures come back with the same shape.
package codec

import (
	"reflect"
)

// Codec encodes and decodes the values of the types it is bound to.
type Codec interface {
	Encode(ctx *WriteContext, v any) error
	Decode(ctx *ReadContext) (any, error)
}

// Binding associates a Codec with the types it accepts.
type Binding struct {
	Name    string
	Matches func(t reflect.Type) bool
	Codec   Codec
}

// Exact binds c to values whose dynamic type is exactly T.
func Exact[T any](name string, c Codec) Binding {
	want := reflect.TypeFor[T]()
	return Binding{
		Name:    name,
		Matches: func(t reflect.Type) bool { return t == want },
		Codec:   c,
	}
}

// Implementing binds c to values whose dynamic type implements the interface I.
func Implementing[I any](name string, c Codec) Binding {
	iface := reflect.TypeFor[I]()
	return Binding{
		Name:    name,
		Matches: func(t reflect.Type) bool { return t.Implements(iface) },
		Codec:   c,
	}
}

// Funcs adapts a pair of functions to a Codec.
type Funcs struct {
	EncodeFunc func(ctx *WriteContext, v any) error
	DecodeFunc func(ctx *ReadContext) (any, error)
}

// Encode calls EncodeFunc.
func (f Funcs) Encode(ctx *WriteContext, v any) error { return f.EncodeFunc(ctx, v) }

// Decode calls DecodeFunc.
func (f Funcs) Decode(ctx *ReadContext) (any, error) { return f.DecodeFunc(ctx) }
