// Package serial emulates the legacy object serialization protocol on top of the graph codec.
//
// Types opt in by implementing objectstream.Serializable on their pointer type. Their hooks
// are detected once per type: writeReplace wins over readResolve, which wins over
// externalizable, then writeObject and readObject hierarchies. Hooks never see a native
// stream; what they write is recorded and replayed to the matching read hooks.
package serial

import (
	"reflect"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/objectstream"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/zerr"
	"go.uber.org/multierr"
)

// Claims reports whether t is handled by the legacy codec: a pointer to a named struct that
// implements objectstream.Serializable and declares at least one hook.
func Claims(t reflect.Type) bool {
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct || t.Elem().Name() == "" {
		return false
	}
	return t.Implements(serializableType) && strategyOf(t).kind != kindBean
}

// Binding returns the registry binding for legacy serializable types. It must precede the
// structural bindings so that it is tried before the plain bean codec.
func Binding() codec.Binding {
	return codec.Binding{Name: "serializable", Matches: Claims, Codec: Codec{}}
}

// Codec encodes legacy serializable values.
type Codec struct{}

// Encode writes v with the strategy of its type.
func (Codec) Encode(ctx *codec.WriteContext, v any) error {
	ptr := reflect.ValueOf(v)
	s := strategyOf(ptr.Type())
	return ctx.EncodePreservingIdentityOf(v, func() error {
		switch s.kind {
		case kindReplace:
			return writeReplaced(ctx, v, s)
		case kindResolve:
			if err := writeFormat(ctx, FormatReadResolveBean); err != nil {
				return err
			}
			return writeBean(ctx, ptr, s)
		default:
			return writeBean(ctx, ptr, s)
		}
	})
}

func writeReplaced(ctx *codec.WriteContext, v any, s *strategy) error {
	replacement, err := v.(objectstream.Replacer).WriteReplace()
	if err != nil {
		return hookFailed(err, domain.ErrReplaceFailed, "writeReplace", reflect.TypeOf(v))
	}
	if lambda, ok := replacement.(*objectstream.SerializedLambda); ok && lambda != nil {
		if err := writeFormat(ctx, FormatSerializedLambda); err != nil {
			return err
		}
		return writeLambda(ctx, lambda)
	}
	if replacement != nil && reflect.TypeOf(replacement) == reflect.TypeOf(v) {
		// Replacing with the same type would dispatch back here forever.
		if s.resolve {
			if err := writeFormat(ctx, FormatReadResolveBean); err != nil {
				return err
			}
		}
		return writeBean(ctx, reflect.ValueOf(replacement), s)
	}
	if err := writeFormat(ctx, FormatReadResolveAny); err != nil {
		return err
	}
	return ctx.Write(replacement)
}

// writeBean writes the bean part of ptr: its format, type and levels. ptr's identity has
// already been written by the caller.
func writeBean(ctx *codec.WriteContext, ptr reflect.Value, s *strategy) error {
	f := s.format()
	if err := writeFormat(ctx, f); err != nil {
		return err
	}
	root := ptr.Elem()
	if err := ctx.WriteType(root.Type()); err != nil {
		return err
	}
	if f == FormatWriteObject {
		if err := ctx.WriteBool(s.external); err != nil {
			return err
		}
		if s.external {
			rec := newRecorder(nil, root)
			if err := ptr.Interface().(objectstream.Externalizable).WriteExternal(rec); err != nil {
				return hookFailed(err, nil, "writeExternal", ptr.Type())
			}
			return writeLog(ctx, nil, rec.ops)
		}
	}
	if err := ctx.WriteSmallInt(len(s.levels)); err != nil {
		return err
	}
	for i := range s.levels {
		l := &s.levels[i]
		if err := ctx.WithProperty(domain.TraceLevel, l.typ.String(), "", func() error {
			return writeLevel(ctx, f, l, root)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeLevel(ctx *codec.WriteContext, f Format, l *level, root reflect.Value) error {
	if f == FormatWriteObject {
		if err := ctx.WriteBool(l.writes); err != nil {
			return err
		}
		if l.writes {
			rec := newRecorder(l, root)
			hook := l.value(root).Addr().Interface().(objectstream.ObjectWriter)
			if err := hook.WriteObject(rec); err != nil {
				return hookFailed(err, nil, "writeObject", l.typ)
			}
			return writeLog(ctx, l, rec.ops)
		}
	}
	return codec.EncodeFields(ctx, l.value(root), l.fields)
}

// Decode reads a legacy value and registers the instance that stands for it.
func (Codec) Decode(ctx *codec.ReadContext) (any, error) {
	return ctx.DecodePreservingIdentity(func(id int) (any, error) {
		f, err := readFormat(ctx)
		if err != nil {
			return nil, err
		}
		switch f {
		case FormatWriteObject, FormatReadObject:
			return readBean(ctx, f, func(v any) { ctx.RegisterInstance(id, v) })
		case FormatReadResolveBean:
			inner, err := readFormat(ctx)
			if err != nil {
				return nil, err
			}
			if inner != FormatWriteObject && inner != FormatReadObject {
				return nil, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "readResolve wraps a non-bean format"), "format", inner.String())
			}
			bean, err := readBean(ctx, inner, func(any) {})
			if err != nil {
				return nil, err
			}
			resolved, err := resolve(bean)
			if err != nil {
				return nil, err
			}
			ctx.RegisterInstance(id, resolved)
			return resolved, nil
		case FormatReadResolveAny:
			replacement, err := ctx.Read()
			if err != nil {
				return nil, err
			}
			if replacement != nil && !Claims(reflect.TypeOf(replacement)) {
				if replacement, err = resolve(replacement); err != nil {
					return nil, err
				}
			}
			ctx.RegisterInstance(id, replacement)
			return replacement, nil
		default:
			v, err := readLambda(ctx)
			if err != nil {
				return nil, err
			}
			ctx.RegisterInstance(id, v)
			return v, nil
		}
	})
}

// resolve applies readResolve when v implements it.
func resolve(v any) (any, error) {
	r, ok := v.(objectstream.Resolver)
	if !ok {
		return v, nil
	}
	resolved, err := r.ReadResolve()
	if err != nil {
		return nil, hookFailed(err, domain.ErrResolveFailed, "readResolve", reflect.TypeOf(v))
	}
	return resolved, nil
}

// readBean allocates the bean, hands it to register and then fills it level by level.
func readBean(ctx *codec.ReadContext, f Format, register func(any)) (any, error) {
	t, err := ctx.ReadType()
	if err != nil {
		return nil, err
	}
	if t.Kind() != reflect.Struct {
		return nil, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "serializable type is not a struct"), "type", t.String())
	}
	ptr := reflect.New(t)
	bean := ptr.Interface()
	register(bean)
	root := ptr.Elem()
	s := strategyOf(ptr.Type())

	if f == FormatWriteObject {
		external, err := ctx.ReadBool()
		if err != nil {
			return nil, err
		}
		if external {
			ops, err := readLog(ctx, nil)
			if err != nil {
				return nil, err
			}
			ext, ok := bean.(objectstream.Externalizable)
			if !ok {
				return nil, zerr.With(zerr.Wrap(domain.ErrIncompatibleEntry, "type is no longer externalizable"), "type", t.String())
			}
			if err := ext.ReadExternal(newReplayer(nil, root, ops)); err != nil {
				return nil, hookFailed(err, nil, "readExternal", ptr.Type())
			}
			return bean, nil
		}
	}

	n, err := ctx.ReadLength()
	if err != nil {
		return nil, err
	}
	if n != len(s.levels) {
		err := zerr.Wrap(domain.ErrIncompatibleEntry, "serializable hierarchy changed")
		return nil, zerr.With(zerr.With(err, "type", t.String()), "levels", n)
	}
	for i := range s.levels {
		l := &s.levels[i]
		if err := ctx.WithProperty(domain.TraceLevel, l.typ.String(), "", func() error {
			return readLevel(ctx, f, l, root)
		}); err != nil {
			return nil, err
		}
	}
	return bean, nil
}

func readLevel(ctx *codec.ReadContext, f Format, l *level, root reflect.Value) error {
	var ops []op
	hooked := false
	if f == FormatWriteObject {
		var err error
		if hooked, err = ctx.ReadBool(); err != nil {
			return err
		}
		if hooked {
			if ops, err = readLog(ctx, l); err != nil {
				return err
			}
		}
	}
	if !hooked {
		values, err := readFieldValues(ctx, l)
		if err != nil {
			return err
		}
		ops = []op{{kind: opDefault, fields: values}}
	}

	target := l.value(root)
	if !l.reads {
		return applyDefaults(l, target, ops)
	}
	hook := target.Addr().Interface().(objectstream.ObjectReader)
	if err := hook.ReadObject(newReplayer(l, target, ops)); err != nil {
		return hookFailed(err, nil, "readObject", l.typ)
	}
	return nil
}

func hookFailed(err, kind error, hook string, t reflect.Type) error {
	if kind != nil {
		err = multierr.Combine(kind, err)
	}
	return zerr.With(zerr.With(zerr.Wrap(err, hook+" failed"), "hook", hook), "type", t.String())
}
