package serial

import (
	"reflect"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/objectstream"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/zerr"
)

var lambdaDeserializerType = reflect.TypeFor[objectstream.LambdaDeserializer]()

func writeLambda(ctx *codec.WriteContext, l *objectstream.SerializedLambda) error {
	if l.CapturingType == nil {
		return zerr.With(zerr.Wrap(domain.ErrLambdaNotDeserializable, "lambda has no capturing type"), "method", l.ImplMethod)
	}
	if err := ctx.WriteType(l.CapturingType); err != nil {
		return err
	}
	if err := ctx.WriteString(l.ImplMethod); err != nil {
		return err
	}
	return ctx.Write(l.CapturedArgs)
}

// readLambda reads a serialized lambda and rebuilds it through its capturing type.
func readLambda(ctx *codec.ReadContext) (any, error) {
	capturing, err := ctx.ReadType()
	if err != nil {
		return nil, err
	}
	method, err := ctx.ReadString()
	if err != nil {
		return nil, err
	}
	args, err := ctx.Read()
	if err != nil {
		return nil, err
	}
	l := &objectstream.SerializedLambda{CapturingType: capturing, ImplMethod: method}
	if args != nil {
		captured, ok := args.([]any)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "captured arguments are not a list"), "method", method)
		}
		l.CapturedArgs = captured
	}
	d, ok := deserializerFor(capturing)
	if !ok {
		err := zerr.Wrap(domain.ErrLambdaNotDeserializable, "capturing type cannot deserialize lambdas")
		return nil, zerr.With(zerr.With(err, "type", capturing.String()), "method", method)
	}
	v, err := d.DeserializeLambda(l)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "cannot deserialize lambda"), "method", method)
	}
	return v, nil
}

// deserializerFor returns a zero value of t, or of a pointer to t, that implements
// LambdaDeserializer.
func deserializerFor(t reflect.Type) (objectstream.LambdaDeserializer, bool) {
	switch {
	case t.Kind() == reflect.Interface:
		return nil, false
	case t.Implements(lambdaDeserializerType):
		if t.Kind() == reflect.Pointer {
			return reflect.New(t.Elem()).Interface().(objectstream.LambdaDeserializer), true
		}
		return reflect.Zero(t).Interface().(objectstream.LambdaDeserializer), true
	case reflect.PointerTo(t).Implements(lambdaDeserializerType):
		return reflect.New(t).Interface().(objectstream.LambdaDeserializer), true
	default:
		return nil, false
	}
}
