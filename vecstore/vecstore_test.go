package vecstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ic-timon/simbench/bench/gen"
	"github.com/ic-timon/simbench/simd"
	"github.com/ic-timon/simbench/vector"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.svec")
	a := gen.RandomFloats(1001, 1)
	b := gen.RandomFloats(1001, 2)
	require.NoError(t, Save(path, a, b))
	_, err := os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))

	s, err := OpenMmap(path)
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, 2, s.Count())
	require.Equal(t, 1001, s.Len())
	require.Equal(t, uint16(simd.Lanes), s.Header().Lanes)
	va, vb := s.Vector(0), s.Vector(1)
	assert.Equal(t, a, va)
	assert.Equal(t, b, vb)
	assert.True(t, vector.IsAligned(va))
	assert.True(t, vector.IsAligned(vb))
	assert.Nil(t, s.Vector(2))
	assert.Nil(t, s.Vector(-1))

	assert.Equal(t, simd.SimilarityScalar(a, b), simd.SimilarityScalar(va, vb))
}

func TestSaveRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.svec")
	require.ErrorIs(t, Save(path), ErrEmpty)
	require.ErrorIs(t, Save(path, []float32{}), ErrEmpty)
	require.ErrorIs(t, Save(path, []float32{1, 2}, []float32{1}), ErrLengthMismatch)
}

func TestHeaderEncodeDecode(t *testing.T) {
	h := &Header{Lanes: 8, Count: 3, Length: 17, DataOffset: 4096}
	b, err := EncodeHeader(h)
	require.NoError(t, err)
	require.Len(t, b, HeaderSize)

	got, err := DecodeHeader(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), got.Count)
	assert.Equal(t, uint64(17), got.Length)
	assert.Equal(t, int64(96), got.Stride())
	assert.Equal(t, int64(288), got.DataSize())

	_, err = DecodeHeader(b[:10])
	assert.ErrorIs(t, err, ErrHeaderTooShort)

	b[0] = 'X'
	_, err = DecodeHeader(b)
	assert.ErrorIs(t, err, ErrInvalidMagic)

	_, err = EncodeHeader(nil)
	assert.Error(t, err)
}

func TestDecodeHeaderVersion(t *testing.T) {
	b, err := EncodeHeader(&Header{Count: 1, Length: 1})
	require.NoError(t, err)
	b[4] = 9
	_, err = DecodeHeader(b)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
}

func TestOpenMmapTruncated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pair.svec")
	require.NoError(t, Save(path, gen.RandomFloats(100, 1)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	cut := filepath.Join(dir, "cut.svec")
	require.NoError(t, os.WriteFile(cut, data[:len(data)-64], 0o644))
	_, err = OpenMmap(cut)
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = OpenMmap(filepath.Join(dir, "missing.svec"))
	assert.Error(t, err)
}
