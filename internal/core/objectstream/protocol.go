// Package objectstream declares the legacy object stream protocol: the hooks a type can
// implement to take over its own serialization, and the streams those hooks write to.
//
// The configuration cache does not produce a native object stream. It records what the
// hooks write and stores the record inside its own format, so these types only describe
// the contract hooks are written against.
package objectstream

import "reflect"

// Serializable marks a type as taking part in the legacy protocol.
type Serializable interface {
	SerialVersionUID() int64
}

// ObjectOutput is the primitive write surface shared by hooks.
type ObjectOutput interface {
	WriteBool(v bool) error
	WriteByte(v byte) error
	WriteInt16(v int16) error
	WriteInt32(v int32) error
	WriteInt64(v int64) error
	WriteFloat32(v float32) error
	WriteFloat64(v float64) error
	WriteUTF(v string) error
	Write(p []byte) error
	WriteObject(v any) error
	Flush() error
}

// ObjectOutputStream is handed to WriteObject hooks.
// DefaultWriteObject writes the fields declared by the hook's own level.
// Reset, WriteUnshared, PutFields and WriteFields are not supported by the cache
// and return an error.
type ObjectOutputStream interface {
	ObjectOutput
	DefaultWriteObject() error
	PutFields() error
	WriteFields() error
	WriteUnshared(v any) error
	Reset() error
}

// ObjectInput is the primitive read surface shared by hooks.
type ObjectInput interface {
	ReadBool() (bool, error)
	ReadByte() (byte, error)
	ReadInt16() (int16, error)
	ReadInt32() (int32, error)
	ReadInt64() (int64, error)
	ReadFloat32() (float32, error)
	ReadFloat64() (float64, error)
	ReadUTF() (string, error)
	ReadFully(p []byte) error
	ReadObject() (any, error)
}

// ObjectInputStream is handed to ReadObject hooks.
// ReadFields and ReadUnshared are not supported by the cache and return an error.
type ObjectInputStream interface {
	ObjectInput
	DefaultReadObject() error
	ReadFields() error
	ReadUnshared() (any, error)
}

// ObjectWriter is implemented by a level that writes its own state.
type ObjectWriter interface {
	WriteObject(out ObjectOutputStream) error
}

// ObjectReader is implemented by a level that reads its own state.
type ObjectReader interface {
	ReadObject(in ObjectInputStream) error
}

// Replacer substitutes another object for the receiver when it is written.
type Replacer interface {
	WriteReplace() (any, error)
}

// Resolver substitutes another object for the receiver after it is read.
type Resolver interface {
	ReadResolve() (any, error)
}

// Externalizable types write and read their whole state themselves.
type Externalizable interface {
	Serializable
	WriteExternal(out ObjectOutput) error
	ReadExternal(in ObjectInput) error
}

// SerializedLambda is the replacement written for a function value.
// CapturingType rebuilds the function through its LambdaDeserializer.
type SerializedLambda struct {
	CapturingType reflect.Type
	ImplMethod    string
	CapturedArgs  []any
}

// LambdaDeserializer is implemented by a capturing type to rebuild its serialized lambdas.
type LambdaDeserializer interface {
	DeserializeLambda(l *SerializedLambda) (any, error)
}
