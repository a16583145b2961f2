package codec

import (
	"reflect"
)

// beanCodec encodes pointers to named structs field by field, preserving identity.
type beanCodec struct{}

func isBean(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}

func (beanCodec) Encode(ctx *WriteContext, v any) error {
	return ctx.EncodePreservingIdentityOf(v, func() error {
		elem := reflect.ValueOf(v).Elem()
		if err := ctx.WriteType(elem.Type()); err != nil {
			return err
		}
		return EncodeFields(ctx, elem, StructFields(elem.Type()))
	})
}

func (beanCodec) Decode(ctx *ReadContext) (any, error) {
	return ctx.DecodePreservingIdentity(func(id int) (any, error) {
		t, err := ctx.ReadType()
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(t)
		bean := ptr.Interface()
		ctx.RegisterInstance(id, bean)
		if err := DecodeFields(ctx, ptr.Elem(), StructFields(t)); err != nil {
			return nil, err
		}
		return bean, nil
	})
}

// structCodec encodes struct values. Values have no identity.
type structCodec struct{}

func (structCodec) Encode(ctx *WriteContext, v any) error {
	rv := Addressable(reflect.ValueOf(v))
	if err := ctx.WriteType(rv.Type()); err != nil {
		return err
	}
	return EncodeFields(ctx, rv, StructFields(rv.Type()))
}

func (structCodec) Decode(ctx *ReadContext) (any, error) {
	t, err := ctx.ReadType()
	if err != nil {
		return nil, err
	}
	rv := reflect.New(t).Elem()
	if err := DecodeFields(ctx, rv, StructFields(t)); err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

// pointerCodec encodes pointers to anything but structs as an identity plus the pointee.
type pointerCodec struct{}

func (pointerCodec) Encode(ctx *WriteContext, v any) error {
	return ctx.EncodePreservingIdentityOf(v, func() error {
		elem := reflect.ValueOf(v).Elem()
		if err := ctx.WriteType(elem.Type()); err != nil {
			return err
		}
		return ctx.encodeReflected(elem)
	})
}

func (pointerCodec) Decode(ctx *ReadContext) (any, error) {
	return ctx.DecodePreservingIdentity(func(id int) (any, error) {
		t, err := ctx.ReadType()
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(t)
		ctx.RegisterInstance(id, ptr.Interface())
		value, err := ctx.Read()
		if err != nil {
			return nil, err
		}
		if err := Assign(ptr.Elem(), value); err != nil {
			return nil, err
		}
		return ptr.Interface(), nil
	})
}
