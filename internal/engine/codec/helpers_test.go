package codec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/cfgcache/internal/engine/codec"
)

func encode(t *testing.T, opts []codec.Option, roots ...any) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := codec.NewWriter(&buf, opts...)
	require.NoError(t, err)
	for _, root := range roots {
		require.NoError(t, w.Write(root))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func decode(t *testing.T, data []byte, opts []codec.Option) []any {
	t.Helper()
	r, err := codec.NewReader(bytes.NewReader(data), opts...)
	require.NoError(t, err)
	roots, err := r.ReadAll()
	require.NoError(t, err)
	return roots
}

func roundTrip(t *testing.T, roots ...any) []any {
	t.Helper()
	got := decode(t, encode(t, nil, roots...), nil)
	require.Len(t, got, len(roots))
	return got
}

func roundTripOne(t *testing.T, root any) any {
	t.Helper()
	return roundTrip(t, root)[0]
}
