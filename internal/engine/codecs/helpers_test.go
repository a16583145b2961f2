package codecs_test

import (
	"os"
	"reflect"
)

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0o600)
}

func reflectTypeOf(v any) reflect.Type {
	return reflect.TypeOf(v)
}
