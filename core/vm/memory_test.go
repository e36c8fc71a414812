package vm

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestMemoryResizeZeroFills(t *testing.T) {
	m := newMemory()
	m.Resize(64)
	require.Equal(t, 64, m.Len())
	require.Equal(t, make([]byte, 64), m.Data())
}

func TestMemorySet32RoundTrip(t *testing.T) {
	m := newMemory()
	v := uint256.NewInt(42)
	m.Set32(0, v)
	got := m.GetCopy(0, 32)
	require.Equal(t, v.Bytes32()[:], got)
}

func TestMemoryGetCopyBeyondLenZeroPads(t *testing.T) {
	m := newMemory()
	m.Set(0, 4, []byte{1, 2, 3, 4})
	got := m.GetCopy(2, 8)
	require.Equal(t, []byte{3, 4, 0, 0, 0, 0, 0, 0}, got)
}

func TestMemoryGasCostQuadratic(t *testing.T) {
	require.Equal(t, uint64(0), memoryGasCost(4, 4))
	require.Equal(t, uint64(3), memoryGasCost(0, 1))
	// 10 words: 3*10 + 10*10/512 = 30 + 0 = 30
	require.Equal(t, uint64(30), memoryGasCost(0, 10))
}

func TestMemoryWordCount(t *testing.T) {
	require.Equal(t, uint64(0), memoryWordCount(0))
	require.Equal(t, uint64(1), memoryWordCount(1))
	require.Equal(t, uint64(1), memoryWordCount(32))
	require.Equal(t, uint64(2), memoryWordCount(33))
}
