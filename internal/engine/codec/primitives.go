package codec

import (
	"reflect"
	"unique"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/zerr"
)

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

func writeScalar(ctx *WriteContext, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		return ctx.WriteBool(v.Bool())
	case reflect.String:
		return ctx.WriteString(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ctx.WriteInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ctx.WriteUint(v.Uint())
	case reflect.Float32:
		return ctx.WriteFloat32(float32(v.Float()))
	case reflect.Float64:
		return ctx.WriteFloat64(v.Float())
	case reflect.Complex64:
		c := v.Complex()
		if err := ctx.WriteFloat32(float32(real(c))); err != nil {
			return err
		}
		return ctx.WriteFloat32(float32(imag(c)))
	case reflect.Complex128:
		c := v.Complex()
		if err := ctx.WriteFloat64(real(c)); err != nil {
			return err
		}
		return ctx.WriteFloat64(imag(c))
	default:
		return unsupportedType(v.Type(), "not a scalar")
	}
}

func readScalar(ctx *ReadContext, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		b, err := ctx.ReadBool()
		if err != nil {
			return v, err
		}
		v.SetBool(b)
	case reflect.String:
		s, err := ctx.ReadString()
		if err != nil {
			return v, err
		}
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := ctx.ReadInt()
		if err != nil {
			return v, err
		}
		if v.OverflowInt(n) {
			return v, overflow(t, n)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := ctx.ReadUint()
		if err != nil {
			return v, err
		}
		if v.OverflowUint(n) {
			return v, overflow(t, n)
		}
		v.SetUint(n)
	case reflect.Float32:
		f, err := ctx.ReadFloat32()
		if err != nil {
			return v, err
		}
		v.SetFloat(float64(f))
	case reflect.Float64:
		f, err := ctx.ReadFloat64()
		if err != nil {
			return v, err
		}
		v.SetFloat(f)
	case reflect.Complex64:
		re, err := ctx.ReadFloat32()
		if err != nil {
			return v, err
		}
		im, err := ctx.ReadFloat32()
		if err != nil {
			return v, err
		}
		v.SetComplex(complex(float64(re), float64(im)))
	case reflect.Complex128:
		re, err := ctx.ReadFloat64()
		if err != nil {
			return v, err
		}
		im, err := ctx.ReadFloat64()
		if err != nil {
			return v, err
		}
		v.SetComplex(complex(re, im))
	default:
		return v, unsupportedType(t, "not a scalar")
	}
	return v, nil
}

func overflow(t reflect.Type, n any) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "value overflows its type"), "type", t.String()), "value", n)
}

// scalarCodec encodes one predeclared scalar type.
type scalarCodec struct {
	typ reflect.Type
}

func (c scalarCodec) Encode(ctx *WriteContext, v any) error {
	return writeScalar(ctx, reflect.ValueOf(v))
}

func (c scalarCodec) Decode(ctx *ReadContext) (any, error) {
	v, err := readScalar(ctx, c.typ)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func scalarBinding(t reflect.Type) Binding {
	return Binding{
		Name:    t.String(),
		Matches: func(candidate reflect.Type) bool { return candidate == t },
		Codec:   scalarCodec{typ: t},
	}
}

// namedScalarCodec encodes user-defined types whose underlying type is a scalar.
// The class record comes first so the value decodes to the named type.
type namedScalarCodec struct{}

func isNamedScalar(t reflect.Type) bool {
	return isClass(t) && isScalarKind(t.Kind())
}

func (namedScalarCodec) Encode(ctx *WriteContext, v any) error {
	rv := reflect.ValueOf(v)
	if err := ctx.WriteClass(rv.Type()); err != nil {
		return err
	}
	return writeScalar(ctx, rv)
}

func (namedScalarCodec) Decode(ctx *ReadContext) (any, error) {
	t, err := ctx.ReadClass()
	if err != nil {
		return nil, err
	}
	v, err := readScalar(ctx, t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// handleCodec writes interned strings through the string table and re-interns them on read.
type handleCodec struct{}

func (handleCodec) Encode(ctx *WriteContext, v any) error {
	h := v.(unique.Handle[string])
	var zero unique.Handle[string]
	if err := ctx.WriteBool(h != zero); err != nil || h == zero {
		return err
	}
	return ctx.WriteString(h.Value())
}

func (handleCodec) Decode(ctx *ReadContext) (any, error) {
	present, err := ctx.ReadBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return unique.Handle[string]{}, nil
	}
	s, err := ctx.ReadString()
	if err != nil {
		return nil, err
	}
	return unique.Make(s), nil
}

// classCodec encodes reflect.Type values as type descriptors.
type classCodec struct{}

func (classCodec) Encode(ctx *WriteContext, v any) error {
	return ctx.WriteType(v.(reflect.Type))
}

func (classCodec) Decode(ctx *ReadContext) (any, error) {
	return ctx.ReadType()
}
