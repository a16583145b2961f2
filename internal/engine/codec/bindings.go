package codec

import (
	"reflect"
	"unique"
)

var reflectTypeType = reflect.TypeOf(reflect.TypeFor[int]())

// BuiltinBindings returns the bindings for exact types: predeclared scalars, interned
// strings, classes, broken values and slices of predeclared scalars.
func BuiltinBindings() []Binding {
	bindings := make([]Binding, 0, len(basicTypes)+24)
	for _, k := range []reflect.Kind{
		reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
	} {
		bindings = append(bindings, scalarBinding(basicTypes[k]))
	}
	return append(bindings,
		Exact[unique.Handle[string]]("interned string", handleCodec{}),
		Binding{
			Name:    "class",
			Matches: func(t reflect.Type) bool { return t == reflectTypeType },
			Codec:   classCodec{},
		},
		Exact[*BrokenValue]("broken value", brokenCodec{}),
		Exact[[]byte]("[]byte", bytesCodec{}),
		Exact[[]bool]("[]bool", boolSlice),
		Exact[[]int]("[]int", intSlice[int]()),
		Exact[[]int8]("[]int8", intSlice[int8]()),
		Exact[[]int16]("[]int16", intSlice[int16]()),
		Exact[[]int32]("[]int32", intSlice[int32]()),
		Exact[[]int64]("[]int64", intSlice[int64]()),
		Exact[[]uint]("[]uint", uintSlice[uint]()),
		Exact[[]uint16]("[]uint16", uintSlice[uint16]()),
		Exact[[]uint32]("[]uint32", uintSlice[uint32]()),
		Exact[[]uint64]("[]uint64", uintSlice[uint64]()),
		Exact[[]float32]("[]float32", float32Slice),
		Exact[[]float64]("[]float64", float64Slice),
		Exact[[]complex64]("[]complex64", complex64Slice),
		Exact[[]complex128]("[]complex128", complex128Slice),
	)
}

// StructuralBindings returns the catch-all bindings selected by kind. They come last so
// that specialised bindings take precedence.
func StructuralBindings() []Binding {
	return []Binding{
		{Name: "named scalar", Matches: isNamedScalar, Codec: namedScalarCodec{}},
		{Name: "binary value", Matches: isBinaryValue, Codec: binaryCodec{}},
		{Name: "bean", Matches: isBean, Codec: beanCodec{}},
		{Name: "pointer", Matches: func(t reflect.Type) bool { return t.Kind() == reflect.Pointer }, Codec: pointerCodec{}},
		{Name: "slice", Matches: func(t reflect.Type) bool { return t.Kind() == reflect.Slice }, Codec: sliceCodec{}},
		{Name: "array", Matches: func(t reflect.Type) bool { return t.Kind() == reflect.Array }, Codec: arrayCodec{}},
		{Name: "map", Matches: func(t reflect.Type) bool { return t.Kind() == reflect.Map }, Codec: mapCodec{}},
		{Name: "struct", Matches: func(t reflect.Type) bool { return t.Kind() == reflect.Struct }, Codec: structCodec{}},
	}
}
