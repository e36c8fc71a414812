package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/common"
)

func TestReceiptEncodeDecodeRoundTrip(t *testing.T) {
	r := &Receipt{
		Status:            ReceiptStatusSuccessful,
		CumulativeGasUsed: 21000,
		Logs: []*Log{
			{Address: common.HexToAddress("0x01"), Topics: []common.Hash{common.HexToHash("0xaa")}, Data: []byte{0x01}},
		},
	}
	r.Bloom = BloomForReceipts([]*Receipt{r})

	enc := r.EncodeRLP()
	got, err := DecodeReceiptRLP(enc)
	require.NoError(t, err)

	require.Equal(t, r.Status, got.Status)
	require.Equal(t, r.CumulativeGasUsed, got.CumulativeGasUsed)
	require.Equal(t, r.Bloom, got.Bloom)
	require.Len(t, got.Logs, 1)
	require.Equal(t, r.Logs[0].Address, got.Logs[0].Address)
}

func TestReceiptStorageEncodeDecodeRoundTrip(t *testing.T) {
	r := &Receipt{
		Status:            ReceiptStatusSuccessful,
		CumulativeGasUsed: 100,
		TxHash:            common.HexToHash("0xcc"),
		GasUsed:           100,
		ContractAddress:   common.HexToAddress("0x42"),
	}

	enc := r.EncodeStorageRLP()
	got, err := DecodeReceiptStorageRLP(enc)
	require.NoError(t, err)

	require.Equal(t, r.TxHash, got.TxHash)
	require.Equal(t, r.GasUsed, got.GasUsed)
	require.Equal(t, r.ContractAddress, got.ContractAddress)
	require.Equal(t, r.Status, got.Status)
}

func TestReceiptFailedStatusIsZero(t *testing.T) {
	require.Equal(t, uint64(0), ReceiptStatusFailed)
	require.Equal(t, uint64(1), ReceiptStatusSuccessful)
}
