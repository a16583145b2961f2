package codec

import (
	"cmp"
	"reflect"
	"slices"

	"go.trai.ch/cfgcache/internal/core/domain"
)

// mapCodec encodes maps with identity. Maps keyed by strings or numbers are written in
// key order so equal maps produce equal bytes.
type mapCodec struct{}

func (mapCodec) Encode(ctx *WriteContext, v any) error {
	return ctx.EncodePreservingIdentityOf(v, func() error {
		rv := reflect.ValueOf(v)
		if err := ctx.WriteType(rv.Type()); err != nil {
			return err
		}
		keys := sortedKeys(rv)
		if err := ctx.WriteSmallInt(len(keys)); err != nil {
			return err
		}
		for _, k := range keys {
			if err := ctx.WithProperty(domain.TraceElement, "key", "", func() error {
				return ctx.encodeReflected(k)
			}); err != nil {
				return err
			}
			value := rv.MapIndex(k)
			if err := ctx.WithProperty(domain.TraceElement, "value", "", func() error {
				return ctx.encodeReflected(value)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (mapCodec) Decode(ctx *ReadContext) (any, error) {
	return ctx.DecodePreservingIdentity(func(id int) (any, error) {
		t, err := ctx.ReadType()
		if err != nil {
			return nil, err
		}
		n, err := ctx.ReadLength()
		if err != nil {
			return nil, err
		}
		m := reflect.MakeMapWithSize(t, n)
		ctx.RegisterInstance(id, m.Interface())
		for range n {
			k := reflect.New(t.Key()).Elem()
			if err := readInto(ctx, k); err != nil {
				return nil, err
			}
			value := reflect.New(t.Elem()).Elem()
			if err := readInto(ctx, value); err != nil {
				return nil, err
			}
			m.SetMapIndex(k, value)
		}
		return m.Interface(), nil
	})
}

func readInto(ctx *ReadContext, dst reflect.Value) error {
	value, err := ctx.Read()
	if err != nil {
		return err
	}
	return Assign(dst, value)
}

func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	switch m.Type().Key().Kind() {
	case reflect.String:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) })
	case reflect.Float32, reflect.Float64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) })
	}
	return keys
}
