package serial

import (
	"reflect"
	"slices"
	"strconv"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/objectstream"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/zerr"
)

type opKind uint8

const (
	opBool opKind = iota + 1
	opByte
	opInt16
	opInt32
	opInt64
	opFloat32
	opFloat64
	opUTF
	opBytes
	opObject
	opDefault
)

func (k opKind) String() string {
	switch k {
	case opBool:
		return "bool"
	case opByte:
		return "byte"
	case opInt16:
		return "int16"
	case opInt32:
		return "int32"
	case opInt64:
		return "int64"
	case opFloat32:
		return "float32"
	case opFloat64:
		return "float64"
	case opUTF:
		return "utf"
	case opBytes:
		return "bytes"
	case opObject:
		return "object"
	case opDefault:
		return "default fields"
	default:
		return "unknown"
	}
}

// op is one recorded stream call.
type op struct {
	kind   opKind
	value  any
	data   []byte
	fields []any
}

// recorder is the ObjectOutputStream handed to writeObject and writeExternal hooks.
// It only records; the log is written once the hook returns.
type recorder struct {
	level        *level
	root         reflect.Value
	ops          []op
	wroteDefault bool
}

var _ objectstream.ObjectOutputStream = (*recorder)(nil)

// newRecorder records the output of the hook of level l. root is the addressable struct
// value of the whole object; l is nil for externalizable objects.
func newRecorder(l *level, root reflect.Value) *recorder {
	return &recorder{level: l, root: root}
}

func (r *recorder) add(o op) error {
	r.ops = append(r.ops, o)
	return nil
}

func (r *recorder) WriteBool(v bool) error { return r.add(op{kind: opBool, value: v}) }
func (r *recorder) WriteByte(v byte) error { return r.add(op{kind: opByte, value: v}) }
func (r *recorder) WriteInt16(v int16) error { return r.add(op{kind: opInt16, value: v}) }
func (r *recorder) WriteInt32(v int32) error { return r.add(op{kind: opInt32, value: v}) }
func (r *recorder) WriteInt64(v int64) error { return r.add(op{kind: opInt64, value: v}) }
func (r *recorder) WriteFloat32(v float32) error { return r.add(op{kind: opFloat32, value: v}) }
func (r *recorder) WriteFloat64(v float64) error { return r.add(op{kind: opFloat64, value: v}) }
func (r *recorder) WriteUTF(v string) error { return r.add(op{kind: opUTF, value: v}) }
func (r *recorder) WriteObject(v any) error { return r.add(op{kind: opObject, value: v}) }
func (r *recorder) Flush() error { return nil }

func (r *recorder) Write(p []byte) error {
	return r.add(op{kind: opBytes, data: slices.Clone(p)})
}

// DefaultWriteObject captures the current values of the level's own fields.
func (r *recorder) DefaultWriteObject() error {
	if r.level == nil {
		return unsupported("DefaultWriteObject")
	}
	if r.wroteDefault {
		return zerr.Wrap(domain.ErrUnsupportedStreamOperation, "default fields written twice")
	}
	r.wroteDefault = true
	v := r.level.value(r.root)
	values := make([]any, len(r.level.fields))
	for i, f := range r.level.fields {
		fv := codec.FieldValue(v, f.Index)
		if fv.IsValid() {
			values[i] = fv.Interface()
		}
	}
	return r.add(op{kind: opDefault, fields: values})
}

func (r *recorder) PutFields() error { return unsupported("PutFields") }
func (r *recorder) WriteFields() error { return unsupported("WriteFields") }
func (r *recorder) WriteUnshared(any) error { return unsupported("WriteUnshared") }
func (r *recorder) Reset() error { return unsupported("Reset") }

func unsupported(operation string) error {
	return zerr.With(zerr.Wrap(domain.ErrUnsupportedStreamOperation, "stream operation is not supported"), "operation", operation)
}

// writeLog writes the recorded calls. Objects and default fields go through the active codec.
func writeLog(ctx *codec.WriteContext, l *level, ops []op) error {
	if err := ctx.WriteSmallInt(len(ops)); err != nil {
		return err
	}
	for i, o := range ops {
		if err := ctx.WriteSmallInt(int(o.kind)); err != nil {
			return err
		}
		if err := writeOp(ctx, l, i, o); err != nil {
			return err
		}
	}
	return nil
}

func writeOp(ctx *codec.WriteContext, l *level, i int, o op) error {
	switch o.kind {
	case opBool:
		return ctx.WriteBool(o.value.(bool))
	case opByte:
		return ctx.WriteUint(uint64(o.value.(byte)))
	case opInt16:
		return ctx.WriteInt(int64(o.value.(int16)))
	case opInt32:
		return ctx.WriteInt(int64(o.value.(int32)))
	case opInt64:
		return ctx.WriteInt(o.value.(int64))
	case opFloat32:
		return ctx.WriteFloat32(o.value.(float32))
	case opFloat64:
		return ctx.WriteFloat64(o.value.(float64))
	case opUTF:
		return ctx.WriteString(o.value.(string))
	case opBytes:
		return ctx.WriteBytes(o.data)
	case opObject:
		return ctx.WithProperty(domain.TraceElement, strconv.Itoa(i), "", func() error {
			return ctx.Write(o.value)
		})
	case opDefault:
		owner := l.typ.String()
		for j, f := range l.fields {
			if err := ctx.WithProperty(domain.TraceField, f.Name, owner, func() error {
				return ctx.Write(o.fields[j])
			}); err != nil {
				return err
			}
		}
		return nil
	default:
		return zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "unknown stream operation"), "operation", int(o.kind))
	}
}
