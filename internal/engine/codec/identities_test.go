package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/cfgcache/internal/engine/codec"
)

func TestWriteIdentities(t *testing.T) {
	ids := codec.NewWriteIdentities()
	a, b := &node{Name: "a"}, &node{Name: "b"}

	_, ok := ids.GetID(a)
	assert.False(t, ok)

	assert.Equal(t, 0, ids.PutInstance(a))
	assert.Equal(t, 1, ids.PutInstance(b))

	id, ok := ids.GetID(a)
	assert.True(t, ok)
	assert.Equal(t, 0, id)
	assert.Equal(t, 2, ids.Len())
}

func TestWriteIdentities_SlicesAndMaps(t *testing.T) {
	ids := codec.NewWriteIdentities()
	backing := []int{1, 2, 3}
	m := map[string]int{"a": 1}

	ids.PutInstance(backing)
	ids.PutInstance(m)

	_, ok := ids.GetID(backing)
	assert.True(t, ok, "same slice header")
	_, ok = ids.GetID(backing[:2])
	assert.False(t, ok, "a shorter view is a different slice")
	_, ok = ids.GetID(m)
	assert.True(t, ok)
	_, ok = ids.GetID(map[string]int{"a": 1})
	assert.False(t, ok, "equal maps are not identical")
}

func TestReadIdentities(t *testing.T) {
	ids := codec.NewReadIdentities()

	_, ok := ids.GetInstance(0)
	assert.False(t, ok)

	ids.PutInstance(2, "two")
	v, ok := ids.GetInstance(2)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	_, ok = ids.GetInstance(1)
	assert.False(t, ok, "holes stay unregistered")

	ids.PutInstance(1, nil)
	v, ok = ids.GetInstance(1)
	assert.True(t, ok, "nil is a valid registration")
	assert.Nil(t, v)

	_, ok = ids.GetInstance(-1)
	assert.False(t, ok)
}

func TestReadIdentities_Reserve(t *testing.T) {
	ids := codec.NewReadIdentities()

	assert.False(t, ids.Reserve(-1))
	assert.False(t, ids.Reserve(1), "ids are handed out in sequence")
	assert.True(t, ids.Reserve(0))
	assert.True(t, ids.Reserve(1))
	assert.False(t, ids.Reserve(1), "an id is reserved once")

	ids.PutInstance(-1, "ignored")
	_, ok := ids.GetInstance(-1)
	assert.False(t, ok)
}
