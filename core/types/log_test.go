package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/rlp"
)

func TestLogEncodeDecodeRoundTrip(t *testing.T) {
	l := &Log{
		Address: common.HexToAddress("0x01"),
		Topics:  []common.Hash{common.HexToHash("0xaa"), common.HexToHash("0xbb")},
		Data:    []byte{0x01, 0x02, 0x03},
	}
	enc := l.EncodeRLP()

	item, err := rlp.Decode(enc)
	require.NoError(t, err)
	got, err := DecodeLogRLP(item)
	require.NoError(t, err)

	require.Equal(t, l.Address, got.Address)
	require.Equal(t, l.Topics, got.Topics)
	require.Equal(t, l.Data, got.Data)
}

func TestLogEncodeDecodeEmptyTopics(t *testing.T) {
	l := &Log{Address: common.HexToAddress("0x02")}
	enc := l.EncodeRLP()

	item, err := rlp.Decode(enc)
	require.NoError(t, err)
	got, err := DecodeLogRLP(item)
	require.NoError(t, err)

	require.Empty(t, got.Topics)
	require.Empty(t, got.Data)
}
