package trie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyToNibbles(t *testing.T) {
	require.Equal(t, []byte{0x1, 0x2, 0xa, 0xb}, keyToNibbles([]byte{0x12, 0xab}))
}

func TestHexPrefixEvenLeaf(t *testing.T) {
	nibbles := []byte{0x1, 0x2, 0x3, 0x4}
	enc := hexPrefix(nibbles, true)
	got, term := decodeHexPrefix(enc)
	require.True(t, term)
	require.Equal(t, nibbles, got)
}

func TestHexPrefixOddExtension(t *testing.T) {
	nibbles := []byte{0x1, 0x2, 0x3}
	enc := hexPrefix(nibbles, false)
	got, term := decodeHexPrefix(enc)
	require.False(t, term)
	require.Equal(t, nibbles, got)
}

func TestHexPrefixEmptyPath(t *testing.T) {
	enc := hexPrefix(nil, true)
	got, term := decodeHexPrefix(enc)
	require.True(t, term)
	require.Empty(t, got)
}

func TestCommonPrefixLen(t *testing.T) {
	require.Equal(t, 2, commonPrefixLen([]byte{1, 2, 3}, []byte{1, 2, 9}))
	require.Equal(t, 0, commonPrefixLen([]byte{1}, []byte{2}))
	require.Equal(t, 2, commonPrefixLen([]byte{1, 2}, []byte{1, 2, 3}))
}
