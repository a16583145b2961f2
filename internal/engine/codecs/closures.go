package codecs

import (
	"go/token"
	"reflect"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/engine/codec"
)

var closureFields = func() []codec.Field {
	var fields []codec.Field
	for _, f := range codec.StructFields(reflect.TypeFor[domain.Closure]()) {
		if token.IsExported(f.Name) {
			fields = append(fields, f)
		}
	}
	return fields
}()

// closureCodec writes closures without their owner, delegate and this-object. Decoded
// closures are bound to domain.NeutralOwner.
type closureCodec struct{}

func (closureCodec) Encode(ctx *codec.WriteContext, v any) error {
	c := v.(*domain.Closure)
	return ctx.EncodePreservingIdentityOf(c, func() error {
		return codec.EncodeFields(ctx, reflect.ValueOf(c.Dehydrate()).Elem(), closureFields)
	})
}

func (closureCodec) Decode(ctx *codec.ReadContext) (any, error) {
	return ctx.DecodePreservingIdentity(func(id int) (any, error) {
		c := &domain.Closure{}
		ctx.RegisterInstance(id, c)
		if err := codec.DecodeFields(ctx, reflect.ValueOf(c).Elem(), closureFields); err != nil {
			return nil, err
		}
		c.Attach(domain.NeutralOwner, domain.NeutralOwner, domain.NeutralOwner)
		return c, nil
	})
}
