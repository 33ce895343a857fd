package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUnsignedMSBFirst(t *testing.T) {
	// 0xB4 = 1011_0100
	r := New([]byte{0xB4})
	v, err := r.ReadUnsigned(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b1011), v)

	v, err = r.ReadUnsigned(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b0100), v)
}

func TestReadUnsignedCrossesByteBoundary(t *testing.T) {
	// 0x81 0x01 = 1000_0001 0000_0001
	r := New([]byte{0x81, 0x01})
	_, err := r.ReadUnsigned(4) // consume 1000
	require.NoError(t, err)
	v, err := r.ReadUnsigned(9) // 0001 00000 -> bits 4..12
	require.NoError(t, err)
	assert.Equal(t, uint32(0b000100000), v)
}

func TestReadUnsignedExhausted(t *testing.T) {
	r := New([]byte{0xFF})
	_, err := r.ReadUnsigned(9)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestReadBool(t *testing.T) {
	r := New([]byte{0x80})
	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	b, err = r.ReadBool()
	require.NoError(t, err)
	assert.False(t, b)
}

func TestReadBytesAligned(t *testing.T) {
	r := New([]byte{0x01, 0x02, 0x03})
	out := make([]byte, 2)
	require.NoError(t, r.ReadBytes(2, out))
	assert.Equal(t, []byte{0x01, 0x02}, out)
}

func TestReadBytesUnaligned(t *testing.T) {
	// shift everything left by 4 bits, two bytes of payload starting at bit 4
	r := New([]byte{0x00, 0x1F, 0xF0})
	_, err := r.ReadUnsigned(4)
	require.NoError(t, err)
	out := make([]byte, 2)
	require.NoError(t, r.ReadBytes(2, out))
	assert.Equal(t, []byte{0x01, 0xFF}, out)
}

func TestReadRawLeftJustifiesTrailingBits(t *testing.T) {
	// 5 bits: 1 0 1 1 0 -> packed into one byte, left-justified: 1011_0000
	r := New([]byte{0xB4}) // 1011_0100
	out, err := r.ReadRaw(5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, byte(0b10110_000), out[0])
}

func TestMissingRoundTrip(t *testing.T) {
	for _, n := range []int{1, 7, 8, 16, 31, 32, 64} {
		r := New(fullOnes((n + 7) / 8))
		v, err := r.ReadUnsigned(min32(n, 32))
		require.NoError(t, err)
		assert.Equal(t, uint32(Missing(min32(n, 32))), v)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	r := New([]byte{0xFF, 0x00})
	snap := r.Snapshot()

	_, err := r.ReadUnsigned(8)
	require.NoError(t, err)
	assert.Equal(t, 8, r.BitPos())
	assert.Equal(t, 0, snap.BitPos())

	v, err := snap.ReadUnsigned(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF), v)
}

func fullOnes(nbytes int) []byte {
	b := make([]byte, nbytes)
	for i := range b {
		b[i] = 0xFF
	}
	return b
}

func min32(a, b int) int {
	if a < b {
		return a
	}
	return b
}
