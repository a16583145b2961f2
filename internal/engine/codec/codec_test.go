package codec_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/cfgcache/internal/build"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/zerr"
)

type node struct {
	Name     string
	Next     *node
	Children []*node
	weight   int
}

type level int

type label string

type point struct {
	X, Y int
}

type settings struct {
	Name    string
	Level   level
	Tags    map[string]label
	Origin  point
	Corners [2]point
	Created time.Time
	Extra   any
	cache   []string `cfgcache:"-"`
	secret  *string
}

type holder struct {
	Value any
}

func TestRoundTrip_Scalars(t *testing.T) {
	values := []any{
		true, false, "hello", "",
		int(-5), int8(-8), int16(-300), int32(1 << 20), int64(1 << 40),
		uint(7), uint8(255), uint16(65535), uint32(1 << 31), uint64(1 << 63), uintptr(9),
		float32(1.5), float64(-2.25), complex64(1 + 2i), complex128(3 - 4i),
		level(3), label("release"),
	}

	got := roundTrip(t, values...)
	assert.Equal(t, values, got)
}

func TestRoundTrip_Nil(t *testing.T) {
	var typedNil *node
	got := roundTrip(t, nil, typedNil, []any{nil, typedNil})

	assert.Nil(t, got[0])
	assert.Nil(t, got[1], "nil pointers decode as nil")
	assert.Equal(t, []any{nil, nil}, got[2])
}

func TestRoundTrip_Bean(t *testing.T) {
	secret := "s3cr3t"
	in := &settings{
		Name:    "app",
		Level:   2,
		Tags:    map[string]label{"b": "beta", "a": "alpha"},
		Origin:  point{1, 2},
		Corners: [2]point{{0, 0}, {3, 4}},
		Created: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Extra:   []string{"x", "y"},
		cache:   []string{"not persisted"},
		secret:  &secret,
	}

	out, ok := roundTripOne(t, in).(*settings)
	require.True(t, ok)

	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Level, out.Level)
	assert.Equal(t, in.Tags, out.Tags)
	assert.Equal(t, in.Origin, out.Origin)
	assert.Equal(t, in.Corners, out.Corners)
	assert.True(t, in.Created.Equal(out.Created))
	assert.Equal(t, in.Extra, out.Extra)
	assert.Nil(t, out.cache, "transient fields decode to their zero value")
	require.NotNil(t, out.secret)
	assert.Equal(t, "s3cr3t", *out.secret)
}

func TestRoundTrip_SharedReferences(t *testing.T) {
	shared := &node{Name: "shared"}
	a := &node{Name: "a", Next: shared}
	b := &node{Name: "b", Next: shared}

	out := roundTripOne(t, []any{a, b, shared}).([]any)

	outA, outB, outShared := out[0].(*node), out[1].(*node), out[2].(*node)
	assert.Same(t, outShared, outA.Next)
	assert.Same(t, outShared, outB.Next)
	assert.NotSame(t, outA, outB)
}

func TestRoundTrip_Cycles(t *testing.T) {
	self := &node{Name: "self"}
	self.Next = self

	a := &node{Name: "a"}
	b := &node{Name: "b", Next: a}
	a.Next = b
	a.Children = []*node{a, b}

	got := roundTrip(t, self, a)

	outSelf := got[0].(*node)
	assert.Same(t, outSelf, outSelf.Next)

	outA := got[1].(*node)
	assert.Equal(t, "b", outA.Next.Name)
	assert.Same(t, outA, outA.Next.Next)
	assert.Same(t, outA, outA.Children[0])
	assert.Same(t, outA.Next, outA.Children[1])
}

func TestRoundTrip_MapCycle(t *testing.T) {
	m := map[string]any{"name": "root"}
	m["self"] = m

	out := roundTripOne(t, m).(map[string]any)
	assert.Equal(t, "root", out["name"])

	inner := out["self"].(map[string]any)
	inner["marker"] = true
	assert.Equal(t, true, out["marker"], "the map refers to itself")
}

func TestRoundTrip_RepeatedRootScenario(t *testing.T) {
	x := &node{Name: "x"}

	got := roundTrip(t, []any{x, x, "tail"}, x)

	list := got[0].([]any)
	require.Len(t, list, 3)
	first := list[0].(*node)
	assert.Equal(t, "x", first.Name)
	assert.Same(t, first, list[1])
	assert.Equal(t, "tail", list[2])
	assert.Same(t, first, got[1], "identities span all roots of a pass")
}

func TestRoundTrip_PrimitiveSlices(t *testing.T) {
	values := []any{
		[]bool{true, false},
		[]int{1, -2, 3},
		[]int8{-1, 2},
		[]int16{300, -300},
		[]int32{1 << 20},
		[]int64{1 << 40, -1},
		[]uint{1, 2},
		[]uint8{0, 255},
		[]uint16{65535},
		[]uint32{1 << 31},
		[]uint64{1 << 63},
		[]float32{1.5, -0.5},
		[]float64{2.25},
		[]complex64{1 + 1i},
		[]complex128{2 - 3i},
		[]int{},
	}

	got := roundTrip(t, values...)
	assert.Equal(t, values, got)
}

func TestRoundTrip_ObjectSlices(t *testing.T) {
	a := &node{Name: "a"}
	nodes := []*node{a, nil, a}
	mixed := []any{"s", 1, nil, a}

	got := roundTrip(t, nodes, mixed, nodes)

	outNodes := got[0].([]*node)
	require.Len(t, outNodes, 3)
	assert.Nil(t, outNodes[1])
	assert.Same(t, outNodes[0], outNodes[2])

	outMixed := got[1].([]any)
	assert.Equal(t, "s", outMixed[0])
	assert.Equal(t, 1, outMixed[1])
	assert.Nil(t, outMixed[2])
	assert.Same(t, outNodes[0], outMixed[3])

	outNodes[1] = &node{Name: "patched"}
	assert.Equal(t, "patched", got[2].([]*node)[1].Name, "the same slice is decoded once")
}

func TestRoundTrip_SlicesOfSlices(t *testing.T) {
	inner := []int{1, 2}
	in := [][]int{inner, inner, nil}

	out := roundTripOne(t, in).([][]int)
	require.Len(t, out, 3)
	assert.Equal(t, []int{1, 2}, out[0])
	assert.Nil(t, out[2])

	out[0][0] = 42
	assert.Equal(t, 42, out[1][0])
}

func TestRoundTrip_PointerToScalar(t *testing.T) {
	n := 7
	p := &n
	pp := &p

	got := roundTrip(t, p, pp)
	outP := got[0].(*int)
	assert.Equal(t, 7, *outP)
	assert.Same(t, outP, *got[1].(**int))
}

func TestRoundTrip_Classes(t *testing.T) {
	types := []any{
		reflectType[node](),
		reflectType[*node](),
		reflectType[[]*node](),
		reflectType[map[string][]level](),
		reflectType[[4]byte](),
		reflectType[any](),
		reflectType[error](),
		reflectType[int](),
	}
	got := roundTrip(t, types...)
	assert.Equal(t, types, got)
}

func TestRoundTrip_BrokenValue(t *testing.T) {
	failure := zerr.Wrap(zerr.Wrap(errors.New("disk on fire"), "cannot list files"), "cannot visit inputs")

	out, ok := roundTripOne(t, codec.NewBrokenValue(failure)).(*codec.BrokenValue)
	require.True(t, ok)
	err := out.Rethrow()
	require.Error(t, err)
	assert.Equal(t, failure.Error(), err.Error())
}

func TestRoundTrip_BrokenValueKeepsSentinel(t *testing.T) {
	failure := zerr.With(zerr.Wrap(domain.ErrProviderValue, "cannot resolve inputs"), "value", 3)

	out, ok := roundTripOne(t, codec.NewBrokenValue(failure)).(*codec.BrokenValue)
	require.True(t, ok)
	err := out.Rethrow()
	assert.ErrorIs(t, err, domain.ErrProviderValue)
	assert.Equal(t, "cannot resolve inputs: provider value is not a file set", err.Error())
}

func TestRoundTrip_MapsAreDeterministic(t *testing.T) {
	m := map[string]int{}
	for i, k := range []string{"q", "w", "e", "r", "t", "y", "u", "i", "o", "p"} {
		m[k] = i
	}

	first := encode(t, nil, m)
	for range 5 {
		assert.Equal(t, first, encode(t, nil, m))
	}
}

func TestWrite_UnsupportedTypes(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"func", func() {}},
		{"channel", make(chan int)},
		{"anonymous struct", &struct{ A int }{A: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := codec.NewWriter(&bytes.Buffer{})
			require.NoError(t, err)
			err = w.Write(tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrUnsupportedType))
			assert.Equal(t, err, w.Write("after failure"), "the pass stays aborted")
		})
	}
}

func TestWrite_ErrorCarriesPropertyTrace(t *testing.T) {
	w, err := codec.NewWriter(&bytes.Buffer{})
	require.NoError(t, err)

	err = w.Write(&holder{Value: func() {}})
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "field `Value` of `codec_test.holder` of root `0`", zErr.Metadata()["trace"])
}

func TestWriter_Closed(t *testing.T) {
	w, err := codec.NewWriter(&bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, w.Write(1))
	require.NoError(t, w.Close())

	err = w.Write(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWriterClosed))
	assert.Equal(t, 1, w.Roots())
}

func TestReader_IncompatibleHeader(t *testing.T) {
	data := encode(t, []codec.Option{codec.WithProducer("1.0.0")}, "value")

	_, err := codec.NewReader(bytes.NewReader(data), codec.WithProducer("2.0.0"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIncompatibleEntry))

	_, err = codec.NewReader(bytes.NewReader([]byte("not a cache entry")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIncompatibleEntry))

	r, err := codec.NewReader(bytes.NewReader(data), codec.WithProducer("1.0.0"))
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", r.Producer)
}

func TestReader_DanglingReference(t *testing.T) {
	reg := codec.NewBaseRegistry()
	beanTag := -1
	for i, name := range reg.Names() {
		if name == "bean" {
			beanTag = i + 1
		}
	}
	require.Positive(t, beanTag)

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	require.NoError(t, enc.EncodeString("CFGC"))
	require.NoError(t, enc.EncodeUint(codec.FormatVersion))
	require.NoError(t, enc.EncodeString(build.Version))
	require.NoError(t, enc.EncodeUint(uint64(beanTag)))
	require.NoError(t, enc.EncodeInt(5<<1)) // back-reference to id 5

	r, err := codec.NewReader(&buf, codec.WithRegistry(reg))
	require.NoError(t, err)
	_, err = r.Read()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDanglingReference))
}

func TestReader_IdentityOutOfSequence(t *testing.T) {
	reg := codec.NewBaseRegistry()
	beanTag := -1
	for i, name := range reg.Names() {
		if name == "bean" {
			beanTag = i + 1
		}
	}
	require.Positive(t, beanTag)

	for name, tag := range map[string]int64{
		"negative": -3,
		"skipped":  7<<1 | 1,
		"huge":     1<<40 | 1,
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := msgpack.NewEncoder(&buf)
			require.NoError(t, enc.EncodeString("CFGC"))
			require.NoError(t, enc.EncodeUint(codec.FormatVersion))
			require.NoError(t, enc.EncodeString(build.Version))
			require.NoError(t, enc.EncodeUint(uint64(beanTag)))
			require.NoError(t, enc.EncodeInt(tag))

			r, err := codec.NewReader(&buf, codec.WithRegistry(reg))
			require.NoError(t, err)
			_, err = r.Read()
			assert.ErrorIs(t, err, domain.ErrStreamCorrupted)
		})
	}
}

func TestReader_UnknownTag(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	require.NoError(t, enc.EncodeString("CFGC"))
	require.NoError(t, enc.EncodeUint(codec.FormatVersion))
	require.NoError(t, enc.EncodeString(build.Version))
	require.NoError(t, enc.EncodeUint(10_000))

	r, err := codec.NewReader(&buf)
	require.NoError(t, err)
	_, err = r.Read()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStreamCorrupted))
}

func TestRegistry_BindingFor(t *testing.T) {
	reg := codec.NewBaseRegistry()

	name, ok := reg.BindingFor(reflectType[[]int]())
	require.True(t, ok)
	assert.Equal(t, "[]int", name)

	name, ok = reg.BindingFor(reflectType[*node]())
	require.True(t, ok)
	assert.Equal(t, "bean", name)

	name, ok = reg.BindingFor(reflectType[time.Time]())
	require.True(t, ok)
	assert.Equal(t, "binary value", name)

	_, ok = reg.BindingFor(reflectType[func()]())
	assert.False(t, ok)
}

func TestReader_Close(t *testing.T) {
	r, err := codec.NewReader(bytes.NewReader(encode(t, nil, "a", "b")))
	require.NoError(t, err)

	v, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	require.NoError(t, r.Close())

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}
