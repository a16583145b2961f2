package codec

import (
	"reflect"
	"sync"
	"unsafe"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// TagName is the struct tag consulted for field options. `cfgcache:"-"` marks a transient field.
const TagName = "cfgcache"

// Field is one persisted field of a struct type.
type Field struct {
	Index    int
	Name     string
	Type     reflect.Type
	Embedded bool
}

var fieldPlans sync.Map // reflect.Type -> []Field

// StructFields returns the persisted fields of the struct type t in declaration order.
// Unexported fields are included; blank and transient fields are not.
func StructFields(t reflect.Type) []Field {
	if plan, ok := fieldPlans.Load(t); ok {
		return plan.([]Field)
	}
	plan := make([]Field, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name == "_" || f.Tag.Get(TagName) == "-" {
			continue
		}
		plan = append(plan, Field{Index: i, Name: f.Name, Type: f.Type, Embedded: f.Anonymous})
	}
	actual, _ := fieldPlans.LoadOrStore(t, plan)
	return actual.([]Field)
}

// FieldValue returns a settable view of field i of the addressable struct value v,
// including unexported fields.
func FieldValue(v reflect.Value, i int) reflect.Value {
	f := v.Field(i)
	if f.CanSet() {
		return f
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}

// Addressable returns v itself when it is addressable, or an addressable copy.
func Addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)
	return cp
}

// Assign stores a decoded value into dst. A nil value stores the zero value.
func Assign(dst reflect.Value, value any) error {
	if value == nil {
		dst.SetZero()
		return nil
	}
	rv := reflect.ValueOf(value)
	if !rv.Type().AssignableTo(dst.Type()) {
		err := zerr.Wrap(domain.ErrStreamCorrupted, "decoded value does not fit its destination")
		return zerr.With(zerr.With(err, "want", dst.Type().String()), "got", rv.Type().String())
	}
	dst.Set(rv)
	return nil
}

// EncodeFields writes the given fields of the addressable struct value v.
func EncodeFields(ctx *WriteContext, v reflect.Value, fields []Field) error {
	owner := typeLabel(v.Type())
	for _, f := range fields {
		fv := FieldValue(v, f.Index)
		if err := ctx.WithProperty(domain.TraceField, f.Name, owner, func() error {
			return ctx.encodeReflected(fv)
		}); err != nil {
			return err
		}
	}
	return nil
}

// DecodeFields reads the given fields into the addressable struct value v.
func DecodeFields(ctx *ReadContext, v reflect.Value, fields []Field) error {
	owner := typeLabel(v.Type())
	for _, f := range fields {
		fv := FieldValue(v, f.Index)
		if err := ctx.WithProperty(domain.TraceField, f.Name, owner, func() error {
			value, err := ctx.Read()
			if err != nil {
				return err
			}
			return Assign(fv, value)
		}); err != nil {
			return err
		}
	}
	return nil
}

func typeLabel(t reflect.Type) string {
	return t.String()
}
