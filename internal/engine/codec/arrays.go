package codec

import (
	"reflect"
	"strconv"

	"go.trai.ch/cfgcache/internal/core/domain"
)

// primitiveSliceCodec encodes a slice of one predeclared scalar type without per-element tags.
type primitiveSliceCodec[T any] struct {
	write func(ctx *WriteContext, v T) error
	read  func(ctx *ReadContext) (T, error)
}

func (c primitiveSliceCodec[T]) Encode(ctx *WriteContext, v any) error {
	return ctx.EncodePreservingIdentityOf(v, func() error {
		s := v.([]T)
		if err := ctx.WriteSmallInt(len(s)); err != nil {
			return err
		}
		for _, e := range s {
			if err := c.write(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c primitiveSliceCodec[T]) Decode(ctx *ReadContext) (any, error) {
	return ctx.DecodePreservingIdentity(func(id int) (any, error) {
		n, err := ctx.ReadLength()
		if err != nil {
			return nil, err
		}
		s := make([]T, n)
		ctx.RegisterInstance(id, s)
		for i := range s {
			if s[i], err = c.read(ctx); err != nil {
				return nil, err
			}
		}
		return s, nil
	})
}

func intSlice[T ~int | ~int8 | ~int16 | ~int32 | ~int64]() primitiveSliceCodec[T] {
	return primitiveSliceCodec[T]{
		write: func(ctx *WriteContext, v T) error { return ctx.WriteInt(int64(v)) },
		read: func(ctx *ReadContext) (T, error) {
			n, err := ctx.ReadInt()
			return T(n), err
		},
	}
}

func uintSlice[T ~uint | ~uint16 | ~uint32 | ~uint64]() primitiveSliceCodec[T] {
	return primitiveSliceCodec[T]{
		write: func(ctx *WriteContext, v T) error { return ctx.WriteUint(uint64(v)) },
		read: func(ctx *ReadContext) (T, error) {
			n, err := ctx.ReadUint()
			return T(n), err
		},
	}
}

var (
	boolSlice = primitiveSliceCodec[bool]{
		write: (*WriteContext).WriteBool,
		read:  (*ReadContext).ReadBool,
	}
	float32Slice = primitiveSliceCodec[float32]{
		write: (*WriteContext).WriteFloat32,
		read:  (*ReadContext).ReadFloat32,
	}
	float64Slice = primitiveSliceCodec[float64]{
		write: (*WriteContext).WriteFloat64,
		read:  (*ReadContext).ReadFloat64,
	}
	complex64Slice = primitiveSliceCodec[complex64]{
		write: func(ctx *WriteContext, v complex64) error {
			if err := ctx.WriteFloat32(real(v)); err != nil {
				return err
			}
			return ctx.WriteFloat32(imag(v))
		},
		read: func(ctx *ReadContext) (complex64, error) {
			re, err := ctx.ReadFloat32()
			if err != nil {
				return 0, err
			}
			im, err := ctx.ReadFloat32()
			return complex(re, im), err
		},
	}
	complex128Slice = primitiveSliceCodec[complex128]{
		write: func(ctx *WriteContext, v complex128) error {
			if err := ctx.WriteFloat64(real(v)); err != nil {
				return err
			}
			return ctx.WriteFloat64(imag(v))
		},
		read: func(ctx *ReadContext) (complex128, error) {
			re, err := ctx.ReadFloat64()
			if err != nil {
				return 0, err
			}
			im, err := ctx.ReadFloat64()
			return complex(re, im), err
		},
	}
)

// bytesCodec writes byte slices as one byte string.
type bytesCodec struct{}

func (bytesCodec) Encode(ctx *WriteContext, v any) error {
	return ctx.EncodePreservingIdentityOf(v, func() error {
		return ctx.WriteBytes(v.([]byte))
	})
}

func (bytesCodec) Decode(ctx *ReadContext) (any, error) {
	return ctx.DecodePreservingIdentity(func(int) (any, error) {
		b, err := ctx.ReadBytes()
		if err != nil {
			return nil, err
		}
		if b == nil {
			b = []byte{}
		}
		return b, nil
	})
}

// sliceCodec encodes slices of any other element type; elements go through the active codec.
type sliceCodec struct{}

func (sliceCodec) Encode(ctx *WriteContext, v any) error {
	return ctx.EncodePreservingIdentityOf(v, func() error {
		rv := reflect.ValueOf(v)
		if err := ctx.WriteType(rv.Type()); err != nil {
			return err
		}
		return encodeElements(ctx, rv)
	})
}

func (sliceCodec) Decode(ctx *ReadContext) (any, error) {
	return ctx.DecodePreservingIdentity(func(id int) (any, error) {
		t, err := ctx.ReadType()
		if err != nil {
			return nil, err
		}
		n, err := ctx.ReadLength()
		if err != nil {
			return nil, err
		}
		s := reflect.MakeSlice(t, n, n)
		ctx.RegisterInstance(id, s.Interface())
		if err := decodeElements(ctx, s); err != nil {
			return nil, err
		}
		return s.Interface(), nil
	})
}

// arrayCodec encodes fixed-size arrays, which are values and carry no identity.
type arrayCodec struct{}

func (arrayCodec) Encode(ctx *WriteContext, v any) error {
	rv := reflect.ValueOf(v)
	if err := ctx.WriteType(rv.Type()); err != nil {
		return err
	}
	return encodeElements(ctx, rv)
}

func (arrayCodec) Decode(ctx *ReadContext) (any, error) {
	t, err := ctx.ReadType()
	if err != nil {
		return nil, err
	}
	n, err := ctx.ReadLength()
	if err != nil {
		return nil, err
	}
	if n != t.Len() {
		return nil, overflow(t, n)
	}
	a := reflect.New(t).Elem()
	if err := decodeElements(ctx, a); err != nil {
		return nil, err
	}
	return a.Interface(), nil
}

func encodeElements(ctx *WriteContext, rv reflect.Value) error {
	n := rv.Len()
	if err := ctx.WriteSmallInt(n); err != nil {
		return err
	}
	for i := range n {
		elem := rv.Index(i)
		if err := ctx.WithProperty(domain.TraceElement, strconv.Itoa(i), "", func() error {
			return ctx.encodeReflected(elem)
		}); err != nil {
			return err
		}
	}
	return nil
}

func decodeElements(ctx *ReadContext, rv reflect.Value) error {
	for i := range rv.Len() {
		dst := rv.Index(i)
		if err := ctx.WithProperty(domain.TraceElement, strconv.Itoa(i), "", func() error {
			value, err := ctx.Read()
			if err != nil {
				return err
			}
			return Assign(dst, value)
		}); err != nil {
			return err
		}
	}
	return nil
}
