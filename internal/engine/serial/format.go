package serial

import (
	"strconv"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/zerr"
)

// Format tells the decoder how the first occurrence of a legacy value was written.
type Format uint8

const (
	// FormatWriteObject is a bean whose levels carry recorded hook output.
	FormatWriteObject Format = iota + 1
	// FormatReadObject is a bean written with default fields on every level.
	FormatReadObject
	// FormatReadResolveBean is a bean that is resolved after it is read.
	FormatReadResolveBean
	// FormatReadResolveAny is a replacement written through the regular codecs.
	FormatReadResolveAny
	// FormatSerializedLambda is a deconstructed lambda.
	FormatSerializedLambda
)

func (f Format) String() string {
	switch f {
	case FormatWriteObject:
		return "writeObject"
	case FormatReadObject:
		return "readObject"
	case FormatReadResolveBean:
		return "readResolve bean"
	case FormatReadResolveAny:
		return "readResolve any"
	case FormatSerializedLambda:
		return "serialized lambda"
	default:
		return "format(" + strconv.Itoa(int(f)) + ")"
	}
}

func writeFormat(ctx *codec.WriteContext, f Format) error {
	return ctx.WriteSmallInt(int(f))
}

func readFormat(ctx *codec.ReadContext) (Format, error) {
	n, err := ctx.ReadSmallInt()
	if err != nil {
		return 0, err
	}
	f := Format(n)
	if f < FormatWriteObject || f > FormatSerializedLambda {
		return 0, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "unknown serialization format"), "format", n)
	}
	return f, nil
}
