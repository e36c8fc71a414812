package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/kvstore"
)

func newTestChainDB(t *testing.T) (*ChainDB, kvstore.Store) {
	t.Helper()
	store, err := kvstore.Open("", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	db, err := Open(store)
	require.NoError(t, err)
	return db, store
}

func TestOpenEmptyChainHasNoTip(t *testing.T) {
	db, _ := newTestChainDB(t)
	require.Nil(t, db.Tip())
}

func TestWriteBlockAdvancesTipAndCanonicalIndex(t *testing.T) {
	db, _ := newTestChainDB(t)
	header := &types.Header{Number: 0, VedaBlockHash: common.HexToHash("0x01")}

	require.NoError(t, db.WriteBlock(header, nil, nil))
	require.Equal(t, header.Hash(), db.Tip().Hash())

	hash, err := db.GetCanonicalHash(0)
	require.NoError(t, err)
	require.Equal(t, header.Hash(), hash)

	got, err := db.GetHeaderByNumber(0)
	require.NoError(t, err)
	require.Equal(t, header.Hash(), got.Hash())
}

func TestWriteBlockPersistsTransactionsAndReceipts(t *testing.T) {
	db, _ := newTestChainDB(t)
	to := common.HexToAddress("0x02")
	tx := &types.Transaction{
		Nonce:      0,
		GasLimit:   21000,
		To:         &to,
		VedaSender: common.HexToAddress("0x01"),
		VedaTxHash: common.HexToHash("0xaa"),
	}
	receipt := &types.Receipt{
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: 21000,
		TxHash:            tx.Hash(),
		GasUsed:           21000,
	}
	header := &types.Header{Number: 0, VedaBlockHash: common.HexToHash("0x05")}

	require.NoError(t, db.WriteBlock(header, []*types.Transaction{tx}, []*types.Receipt{receipt}))

	hashes, err := db.GetBlockTxHashes(header.Hash())
	require.NoError(t, err)
	require.Equal(t, []common.Hash{tx.Hash()}, hashes)

	gotTx, blockHash, blockNumber, index, err := db.GetTransaction(tx.Hash())
	require.NoError(t, err)
	require.Equal(t, tx.Nonce, gotTx.Nonce)
	require.Equal(t, header.Hash(), blockHash)
	require.Equal(t, uint64(0), blockNumber)
	require.Equal(t, uint64(0), index)

	gotReceipt, err := db.GetReceipt(tx.Hash())
	require.NoError(t, err)
	require.Equal(t, receipt.Status, gotReceipt.Status)
	require.Equal(t, receipt.GasUsed, gotReceipt.GasUsed)

	receipts, err := db.GetReceipts(header.Hash())
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.Equal(t, header.Number, receipts[0].BlockNumber)
	require.Equal(t, header.Hash(), receipts[0].BlockHash)
}

func TestGetHeaderByHashMissingReturnsNotFound(t *testing.T) {
	db, _ := newTestChainDB(t)
	_, err := db.GetHeaderByHash(common.HexToHash("0xdead"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReopenRestoresTip(t *testing.T) {
	store, err := kvstore.Open("", 0)
	require.NoError(t, err)
	defer store.Close()

	db, err := Open(store)
	require.NoError(t, err)
	header := &types.Header{Number: 0, VedaBlockHash: common.HexToHash("0x09")}
	require.NoError(t, db.WriteBlock(header, nil, nil))

	reopened, err := Open(store)
	require.NoError(t, err)
	require.Equal(t, header.Hash(), reopened.Tip().Hash())
}
