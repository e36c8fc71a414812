package core

import (
	"math/big"
	"time"

	"github.com/veda-chain/veda/chain"
	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/state"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/core/vm"
	"github.com/veda-chain/veda/internal/metrics"
	"github.com/veda-chain/veda/kvstore"
	"github.com/veda-chain/veda/rlp"
	"github.com/veda-chain/veda/trie"
)

// BlockDescriptor is the verifier-supplied 4-tuple that drives block
// production, per spec.md §4.8/§6.1's `blockHash/blockNumber/mixHash/timestamp`.
type BlockDescriptor struct {
	VedaBlockHash   common.Hash
	VedaBlockNumber uint64
	MixHash         common.Hash
	Timestamp       uint64
}

// BlockApplier drives spec.md §4.5: apply_transactions then mine_block
// against one pending header built from a parent and a BlockDescriptor.
// Grounded on the teacher's core/revm_state_processor.go StateProcessor
// shape (sequential apply, cumulative gas, bloom union, state-root commit),
// adapted from its revm-bridge delegation to the native Executor above.
type BlockApplier struct {
	chainDB *chain.ChainDB
	store   kvstore.Store
	state   *state.StateDB

	parent        *types.Header
	pendingHeader *types.Header

	appliedTxs    []*types.Transaction
	receipts      []*types.Receipt
	cumulativeGas uint64
}

// NewBlockApplier opens a BlockApplier for the child of parent, with state
// rooted at parent.StateRoot, and the descriptor fields already stamped
// into the pending header so VM opcodes (TIMESTAMP, NUMBER, ...) observe
// the right block context during execution.
func NewBlockApplier(chainDB *chain.ChainDB, store kvstore.Store, parent *types.Header, desc BlockDescriptor) (*BlockApplier, error) {
	st, err := state.New(parent.StateRoot, store)
	if err != nil {
		return nil, err
	}
	pending := &types.Header{
		ParentHash:      parent.Hash(),
		Coinbase:        common.Address{},
		Difficulty:      big.NewInt(0),
		Number:          parent.Number + 1,
		GasLimit:        parent.GasLimit,
		Timestamp:       desc.Timestamp,
		MixHash:         desc.MixHash,
		VedaBlockHash:   desc.VedaBlockHash,
		VedaBlockNumber: desc.VedaBlockNumber,
		VedaTimestamp:   desc.Timestamp,
	}
	return &BlockApplier{
		chainDB:       chainDB,
		store:         store,
		state:         st,
		parent:        parent,
		pendingHeader: pending,
	}, nil
}

// State exposes the underlying StateDB, e.g. for eth_call's read-only reuse
// of the same execution machinery against a discarded snapshot.
func (b *BlockApplier) State() *state.StateDB { return b.state }

func (b *BlockApplier) blockContext() vm.BlockContext {
	return vm.BlockContext{
		Coinbase:    b.pendingHeader.Coinbase,
		GasLimit:    b.pendingHeader.GasLimit,
		BlockNumber: b.pendingHeader.Number,
		Time:        b.pendingHeader.Timestamp,
		Difficulty:  b.pendingHeader.Difficulty,
		GetHash:     b.getAncestorHash,
	}
}

func (b *BlockApplier) getAncestorHash(number uint64) common.Hash {
	h, err := b.chainDB.GetHeaderByNumber(number)
	if err != nil || h == nil {
		return common.Hash{}
	}
	return h.Hash()
}

// ApplyTransactions executes txs in order against the pending header's
// state, per spec.md §4.5 steps 1-2. Transactions that fail validation
// (bad nonce, malformed data) are silently dropped from the block, per
// spec.md §4.4's failure policy and §7; any other error (e.g. a corrupt
// trie surfacing EVMMissingData) aborts the whole call.
func (b *BlockApplier) ApplyTransactions(txs []*types.Transaction) ([]*types.Transaction, []*types.Receipt, error) {
	exec := NewExecutor(b.state, b.blockContext(), vm.Config{})

	for _, tx := range txs {
		receipt, err := exec.ApplyTransaction(tx, b.cumulativeGas)
		if err != nil {
			if _, ok := err.(*ValidationError); ok {
				// Dropped silently, per spec.md §4.4/§7: "the transaction
				// is omitted from the produced block."
				metrics.TxDropped.Inc(1)
				continue
			}
			if b.state.Error() != nil {
				return nil, nil, &EVMMissingData{Cause: b.state.Error()}
			}
			return nil, nil, err
		}
		if b.state.Error() != nil {
			return nil, nil, &EVMMissingData{Cause: b.state.Error()}
		}
		b.appliedTxs = append(b.appliedTxs, tx)
		b.receipts = append(b.receipts, receipt)
		b.cumulativeGas = receipt.CumulativeGasUsed
		metrics.TxApplied.Inc(1)
	}
	return b.appliedTxs, b.receipts, nil
}

// MineBlock seals the accumulated block, per spec.md §4.5 steps 3-5: it
// persists state to compute the new root, recomputes the transaction and
// receipt tries and the union bloom, validates the result (§4.6), and
// persists the block in one atomic batch via the chain DB.
func (b *BlockApplier) MineBlock() (*types.Block, []*types.Receipt, error) {
	defer metrics.BlockApplyTimer.UpdateSince(time.Now())

	stateRoot, _, err := b.state.Persist()
	if err != nil {
		if b.state.Error() != nil {
			return nil, nil, &EVMMissingData{Cause: b.state.Error()}
		}
		return nil, nil, err
	}

	txRoot, err := transactionsRoot(b.appliedTxs)
	if err != nil {
		return nil, nil, err
	}
	receiptRoot, err := receiptsRoot(b.receipts)
	if err != nil {
		return nil, nil, err
	}

	var bloom types.Bloom
	for _, r := range b.receipts {
		bloom.Union(r.Bloom)
	}

	header := b.pendingHeader.Copy()
	header.StateRoot = stateRoot
	header.TransactionRoot = txRoot
	header.ReceiptRoot = receiptRoot
	header.Bloom = bloom
	header.GasUsed = b.cumulativeGas

	if err := ValidateBlock(b.store, b.parent, header, txRoot, receiptRoot, stateRoot, b.receipts); err != nil {
		return nil, nil, err
	}

	if err := b.chainDB.WriteBlock(header, b.appliedTxs, b.receipts); err != nil {
		return nil, nil, err
	}

	block := &types.Block{Header: header, Transactions: b.appliedTxs}
	return block, b.receipts, nil
}

// transactionsRoot builds an ephemeral trie mapping RLP(index)->RLP(tx) and
// returns its root, per spec.md §3's invariant
// "header.transaction_root = root of a trie mapping RLP(tx-index)->RLP(tx)".
// The trie is never persisted: only Commit() is needed to derive the hash,
// so a nil backing store is safe (no hash-node resolution is ever
// triggered by inserting into a freshly built tree).
func transactionsRoot(txs []*types.Transaction) (common.Hash, error) {
	t := trie.New(common.Hash{}, nil)
	for i, tx := range txs {
		if err := t.Set(indexKey(i), tx.EncodeRLP()); err != nil {
			return common.Hash{}, err
		}
	}
	return t.Hash()
}

// receiptsRoot is the analogous trie over RLP(index)->RLP(receipt),
// canonically encoded (EncodeRLP, not EncodeStorageRLP).
func receiptsRoot(receipts []*types.Receipt) (common.Hash, error) {
	t := trie.New(common.Hash{}, nil)
	for i, r := range receipts {
		if err := t.Set(indexKey(i), r.EncodeRLP()); err != nil {
			return common.Hash{}, err
		}
	}
	return t.Hash()
}

// indexKey is RLP(tx-index), the trie key spec.md §3 names for both the
// transaction and receipt tries.
func indexKey(i int) []byte {
	return rlp.EncodeUint(uint64(i))
}
