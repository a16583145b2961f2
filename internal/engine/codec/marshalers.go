package codec

import (
	"encoding"
	"reflect"

	"go.trai.ch/zerr"
)

var (
	binaryMarshalerType   = reflect.TypeFor[encoding.BinaryMarshaler]()
	binaryUnmarshalerType = reflect.TypeFor[encoding.BinaryUnmarshaler]()
)

// isBinaryValue reports whether t is a named non-pointer type that marshals itself,
// such as time.Time.
func isBinaryValue(t reflect.Type) bool {
	return isClass(t) && t.Kind() != reflect.Pointer &&
		t.Implements(binaryMarshalerType) && reflect.PointerTo(t).Implements(binaryUnmarshalerType)
}

// binaryCodec encodes values through their own binary marshaling.
type binaryCodec struct{}

func (binaryCodec) Encode(ctx *WriteContext, v any) error {
	if err := ctx.WriteClass(reflect.TypeOf(v)); err != nil {
		return err
	}
	data, err := v.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "cannot marshal value"), "type", reflect.TypeOf(v).String())
	}
	return ctx.WriteBytes(data)
}

func (binaryCodec) Decode(ctx *ReadContext) (any, error) {
	t, err := ctx.ReadClass()
	if err != nil {
		return nil, err
	}
	data, err := ctx.ReadBytes()
	if err != nil {
		return nil, err
	}
	ptr := reflect.New(t)
	if err := ptr.Interface().(encoding.BinaryUnmarshaler).UnmarshalBinary(data); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "cannot unmarshal value"), "type", t.String())
	}
	return ptr.Elem().Interface(), nil
}
