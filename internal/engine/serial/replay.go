package serial

import (
	"reflect"
	"strconv"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/objectstream"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/zerr"
)

// readLog reads a log written by writeLog. Default fields are decoded for level l.
func readLog(ctx *codec.ReadContext, l *level) ([]op, error) {
	n, err := ctx.ReadLength()
	if err != nil {
		return nil, err
	}
	ops := make([]op, n)
	for i := range ops {
		kind, err := ctx.ReadSmallInt()
		if err != nil {
			return nil, err
		}
		if ops[i], err = readOp(ctx, l, i, opKind(kind)); err != nil {
			return nil, err
		}
	}
	return ops, nil
}

func readOp(ctx *codec.ReadContext, l *level, i int, kind opKind) (op, error) {
	o := op{kind: kind}
	var err error
	switch kind {
	case opBool:
		o.value, err = ctx.ReadBool()
	case opByte:
		var n uint64
		n, err = ctx.ReadUint()
		o.value = byte(n)
	case opInt16:
		var n int64
		n, err = ctx.ReadInt()
		o.value = int16(n)
	case opInt32:
		var n int64
		n, err = ctx.ReadInt()
		o.value = int32(n)
	case opInt64:
		o.value, err = ctx.ReadInt()
	case opFloat32:
		o.value, err = ctx.ReadFloat32()
	case opFloat64:
		o.value, err = ctx.ReadFloat64()
	case opUTF:
		o.value, err = ctx.ReadString()
	case opBytes:
		o.data, err = ctx.ReadBytes()
	case opObject:
		err = ctx.WithProperty(domain.TraceElement, strconv.Itoa(i), "", func() error {
			var rerr error
			o.value, rerr = ctx.Read()
			return rerr
		})
	case opDefault:
		if l == nil {
			return o, zerr.Wrap(domain.ErrStreamCorrupted, "default fields recorded outside a level")
		}
		o.fields, err = readFieldValues(ctx, l)
	default:
		err = zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "unknown stream operation"), "operation", int(kind))
	}
	return o, err
}

// readFieldValues decodes the values of l's own fields without assigning them.
func readFieldValues(ctx *codec.ReadContext, l *level) ([]any, error) {
	owner := l.typ.String()
	values := make([]any, len(l.fields))
	for i, f := range l.fields {
		if err := ctx.WithProperty(domain.TraceField, f.Name, owner, func() error {
			var err error
			values[i], err = ctx.Read()
			return err
		}); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// assignFields stores decoded default field values into the level struct v.
func assignFields(l *level, v reflect.Value, values []any) error {
	for i, f := range l.fields {
		if err := codec.Assign(codec.FieldValue(v, f.Index), values[i]); err != nil {
			return zerr.With(err, "field", f.Name)
		}
	}
	return nil
}

// replayer is the ObjectInputStream handed to readObject and readExternal hooks.
// Every read must match the kind of the next recorded write.
type replayer struct {
	level   *level
	target  reflect.Value
	ops     []op
	pos     int
	pending []byte
}

var _ objectstream.ObjectInputStream = (*replayer)(nil)

func newReplayer(l *level, target reflect.Value, ops []op) *replayer {
	return &replayer{level: l, target: target, ops: ops}
}

func (r *replayer) next(kind opKind) (op, error) {
	if len(r.pending) > 0 {
		return op{}, mismatch(kind, opBytes)
	}
	if r.pos >= len(r.ops) {
		return op{}, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "read past the end of the recorded data"), "want", kind.String())
	}
	o := r.ops[r.pos]
	if o.kind != kind {
		return op{}, mismatch(kind, o.kind)
	}
	r.pos++
	return o, nil
}

func mismatch(want, got opKind) error {
	err := zerr.Wrap(domain.ErrStreamCorrupted, "read does not match the recorded write")
	return zerr.With(zerr.With(err, "want", want.String()), "got", got.String())
}

func (r *replayer) ReadBool() (bool, error) {
	o, err := r.next(opBool)
	if err != nil {
		return false, err
	}
	return o.value.(bool), nil
}

func (r *replayer) ReadByte() (byte, error) {
	if len(r.pending) > 0 {
		b := r.pending[0]
		r.pending = r.pending[1:]
		return b, nil
	}
	o, err := r.next(opByte)
	if err != nil {
		return 0, err
	}
	return o.value.(byte), nil
}

func (r *replayer) ReadInt16() (int16, error) {
	o, err := r.next(opInt16)
	if err != nil {
		return 0, err
	}
	return o.value.(int16), nil
}

func (r *replayer) ReadInt32() (int32, error) {
	o, err := r.next(opInt32)
	if err != nil {
		return 0, err
	}
	return o.value.(int32), nil
}

func (r *replayer) ReadInt64() (int64, error) {
	o, err := r.next(opInt64)
	if err != nil {
		return 0, err
	}
	return o.value.(int64), nil
}

func (r *replayer) ReadFloat32() (float32, error) {
	o, err := r.next(opFloat32)
	if err != nil {
		return 0, err
	}
	return o.value.(float32), nil
}

func (r *replayer) ReadFloat64() (float64, error) {
	o, err := r.next(opFloat64)
	if err != nil {
		return 0, err
	}
	return o.value.(float64), nil
}

func (r *replayer) ReadUTF() (string, error) {
	o, err := r.next(opUTF)
	if err != nil {
		return "", err
	}
	return o.value.(string), nil
}

// ReadFully fills p from consecutive byte writes. A write may be split across reads.
func (r *replayer) ReadFully(p []byte) error {
	for len(p) > 0 {
		if len(r.pending) == 0 {
			if r.pos >= len(r.ops) {
				return zerr.Wrap(domain.ErrStreamCorrupted, "read past the end of the recorded data")
			}
			switch o := r.ops[r.pos]; o.kind {
			case opBytes:
				r.pending = o.data
			case opByte:
				r.pending = []byte{o.value.(byte)}
			default:
				return mismatch(opBytes, o.kind)
			}
			r.pos++
		}
		n := copy(p, r.pending)
		p = p[n:]
		r.pending = r.pending[n:]
	}
	return nil
}

func (r *replayer) ReadObject() (any, error) {
	o, err := r.next(opObject)
	if err != nil {
		return nil, err
	}
	return o.value, nil
}

// DefaultReadObject assigns the recorded default fields to the level.
func (r *replayer) DefaultReadObject() error {
	if r.level == nil {
		return unsupported("DefaultReadObject")
	}
	o, err := r.next(opDefault)
	if err != nil {
		return err
	}
	return assignFields(r.level, r.target, o.fields)
}

func (r *replayer) ReadFields() error { return unsupported("ReadFields") }

func (r *replayer) ReadUnshared() (any, error) { return nil, unsupported("ReadUnshared") }

// applyDefaults assigns the default fields of a level that has no readObject hook.
// Any other recorded data is skipped.
func applyDefaults(l *level, target reflect.Value, ops []op) error {
	for _, o := range ops {
		if o.kind == opDefault {
			return assignFields(l, target, o.fields)
		}
	}
	return nil
}
