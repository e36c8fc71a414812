package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/common"
)

func TestHeaderIdentityIsVedaBlockHash(t *testing.T) {
	h := &Header{
		VedaBlockHash: common.HexToHash("0xdeadbeef"),
		ParentHash:    common.HexToHash("0x01"),
	}
	require.Equal(t, h.VedaBlockHash, h.Hash())
	require.NotEqual(t, h.ParentHash, h.Hash())
}

// TestHeaderEncodeDecodeRoundTrip covers invariant 1: re-encoding a decoded
// header yields identical bytes.
func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := &Header{
		ParentHash:      common.HexToHash("0x1111"),
		Coinbase:        common.HexToAddress("0x2222"),
		StateRoot:       common.HexToHash("0x3333"),
		TransactionRoot: common.HexToHash("0x4444"),
		ReceiptRoot:     common.HexToHash("0x5555"),
		Difficulty:      big.NewInt(0),
		Number:          7,
		GasLimit:        30_000_000,
		GasUsed:         21_000,
		Timestamp:       1_700_000_000,
		ExtraData:       []byte("veda"),
		MixHash:         common.HexToHash("0x6666"),
		VedaBlockHash:   common.HexToHash("0x7777"),
		VedaBlockNumber: 7,
		VedaTimestamp:   1_700_000_000,
	}

	enc := h.EncodeRLP()
	decoded, err := DecodeHeaderRLP(enc)
	require.NoError(t, err)
	require.Equal(t, enc, decoded.EncodeRLP())
	require.Equal(t, h.Hash(), decoded.Hash())
	require.Equal(t, h.Number, decoded.Number)
	require.Equal(t, h.ExtraData, decoded.ExtraData)
}

func TestHeaderCopyIsIndependent(t *testing.T) {
	h := &Header{Difficulty: big.NewInt(5), ExtraData: []byte{1, 2, 3}}
	cp := h.Copy()
	cp.Difficulty.SetInt64(9)
	cp.ExtraData[0] = 0xff

	require.Equal(t, int64(5), h.Difficulty.Int64())
	require.Equal(t, byte(1), h.ExtraData[0])
}
