package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/chain"
	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/state"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/kvstore"
)

func newTestChain(t *testing.T) (*chain.ChainDB, kvstore.Store, *types.Header) {
	t.Helper()
	store, err := kvstore.Open("", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	st, err := state.New(common.Hash{}, store)
	require.NoError(t, err)
	root, _, err := st.Persist()
	require.NoError(t, err)

	genesis := &types.Header{
		Number:          0,
		GasLimit:        30_000_000,
		Timestamp:       1,
		TransactionRoot: common.EmptyTrieRoot,
		ReceiptRoot:     common.EmptyTrieRoot,
		StateRoot:       root,
		VedaBlockHash:   common.HexToHash("0x01"),
	}

	chainDB, err := chain.Open(store)
	require.NoError(t, err)
	require.NoError(t, chainDB.WriteBlock(genesis, nil, nil))
	return chainDB, store, genesis
}

// TestBlockApplierEmptyBlockLeavesStateRootUnchanged covers invariant 3: a
// block with no transactions produces the same state root as its parent.
func TestBlockApplierEmptyBlockLeavesStateRootUnchanged(t *testing.T) {
	chainDB, store, genesis := newTestChain(t)
	desc := BlockDescriptor{VedaBlockHash: common.HexToHash("0x02"), VedaBlockNumber: 1, Timestamp: 2}

	applier, err := NewBlockApplier(chainDB, store, genesis, desc)
	require.NoError(t, err)

	_, _, err = applier.ApplyTransactions(nil)
	require.NoError(t, err)

	block, receipts, err := applier.MineBlock()
	require.NoError(t, err)
	require.Empty(t, receipts)
	require.Equal(t, genesis.StateRoot, block.Header.StateRoot)
}

// TestBlockApplierHeaderIdentityIsVedaBlockHash covers invariant 6: the
// mined block's identity is the externally-supplied hash, not a
// locally-computed digest of the header encoding.
func TestBlockApplierHeaderIdentityIsVedaBlockHash(t *testing.T) {
	chainDB, store, genesis := newTestChain(t)
	desc := BlockDescriptor{VedaBlockHash: common.HexToHash("0xdeadbeef"), VedaBlockNumber: 1, Timestamp: 2}

	applier, err := NewBlockApplier(chainDB, store, genesis, desc)
	require.NoError(t, err)
	_, _, err = applier.ApplyTransactions(nil)
	require.NoError(t, err)

	block, _, err := applier.MineBlock()
	require.NoError(t, err)
	require.Equal(t, desc.VedaBlockHash, block.Hash())
	require.Equal(t, desc.VedaBlockHash, block.Header.VedaBlockHash)
}

// TestBlockApplierDropsInvalidTxButKeepsValidOnes covers spec.md §4.4/§7's
// silent-drop policy: a bad-nonce transaction is omitted from the produced
// block while its well-formed sibling is still applied.
func TestBlockApplierDropsInvalidTxButKeepsValidOnes(t *testing.T) {
	chainDB, store, genesis := newTestChain(t)
	desc := BlockDescriptor{VedaBlockHash: common.HexToHash("0x03"), VedaBlockNumber: 1, Timestamp: 2}

	applier, err := NewBlockApplier(chainDB, store, genesis, desc)
	require.NoError(t, err)

	sender := common.HexToAddress("0x42")
	target := common.HexToAddress("0x43")
	applier.State().SetCode(target, []byte{0x00}) // STOP

	badTx := &types.Transaction{Nonce: 7, GasLimit: 100_000, To: &target, VedaSender: sender, VedaTxHash: common.HexToHash("0xa1")}
	goodTx := &types.Transaction{Nonce: 0, GasLimit: 100_000, To: &target, VedaSender: sender, VedaTxHash: common.HexToHash("0xa2")}

	applied, receipts, err := applier.ApplyTransactions([]*types.Transaction{badTx, goodTx})
	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.Len(t, receipts, 1)
	require.Equal(t, goodTx.Hash(), applied[0].Hash())

	block, _, err := applier.MineBlock()
	require.NoError(t, err)
	require.Len(t, block.Transactions, 1)
}

// TestBlockApplierRejectsNonSequentialBlockNumber covers block validation
// (spec.md §4.6): a header whose number does not follow the parent fails.
func TestBlockApplierRejectsNonSequentialBlockNumber(t *testing.T) {
	chainDB, store, genesis := newTestChain(t)
	desc := BlockDescriptor{VedaBlockHash: common.HexToHash("0x04"), VedaBlockNumber: 1, Timestamp: 2}

	applier, err := NewBlockApplier(chainDB, store, genesis, desc)
	require.NoError(t, err)
	applier.pendingHeader.Number = 5 // corrupt the pending header directly

	_, _, err = applier.ApplyTransactions(nil)
	require.NoError(t, err)
	_, _, err = applier.MineBlock()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

// TestBlockApplierRejectsNonIncreasingTimestamp covers strict timestamp
// monotonicity as ValidateBlock enforces it when MineBlock seals a block.
func TestBlockApplierRejectsNonIncreasingTimestamp(t *testing.T) {
	chainDB, store, genesis := newTestChain(t)
	desc := BlockDescriptor{VedaBlockHash: common.HexToHash("0x05"), VedaBlockNumber: 1, Timestamp: genesis.Timestamp}

	applier, err := NewBlockApplier(chainDB, store, genesis, desc)
	require.NoError(t, err)
	_, _, err = applier.ApplyTransactions(nil)
	require.NoError(t, err)

	_, _, err = applier.MineBlock()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

// TestBlockApplierCrossBlockAncestorHashLookup covers spec.md scenario E:
// a BLOCKHASH-style ancestor lookup inside block N+1 resolves block N's
// canonical identity through the chain DB.
func TestBlockApplierCrossBlockAncestorHashLookup(t *testing.T) {
	chainDB, store, genesis := newTestChain(t)
	desc1 := BlockDescriptor{VedaBlockHash: common.HexToHash("0x06"), VedaBlockNumber: 1, Timestamp: 2}
	a1, err := NewBlockApplier(chainDB, store, genesis, desc1)
	require.NoError(t, err)
	_, _, err = a1.ApplyTransactions(nil)
	require.NoError(t, err)
	block1, _, err := a1.MineBlock()
	require.NoError(t, err)

	desc2 := BlockDescriptor{VedaBlockHash: common.HexToHash("0x07"), VedaBlockNumber: 2, Timestamp: 3}
	a2, err := NewBlockApplier(chainDB, store, block1.Header, desc2)
	require.NoError(t, err)

	require.Equal(t, desc1.VedaBlockHash, a2.blockContext().GetHash(1))
}
