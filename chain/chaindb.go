package chain

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/kvstore"
)

const (
	headerCacheSize  = 2048
	receiptCacheSize = 256
)

// ErrNotFound is returned for a hash/number that has no canonical entry,
// mirroring spec.md §7's "KeyError / NotFound on canonical lookups".
var ErrNotFound = kvstore.ErrNotFound

// ChainDB is the header index, canonical-hash map, and tx/receipt lookup
// table over the KV store, per spec.md §4.7. Grounded on the teacher's
// domain (a `core/rawdb`-style accessor layer) generalized from geth's much
// larger table set down to exactly the prefixes spec.md names, with the
// hashicorp/golang-lru header/body caching the teacher's own chain
// database wraps around its KV layer.
type ChainDB struct {
	store kvstore.Store

	headerCache *lru.Cache
	bodyCache   *lru.Cache

	mu  sync.RWMutex
	tip *types.Header
}

// Open constructs a ChainDB over store and loads the current canonical tip,
// if any.
func Open(store kvstore.Store) (*ChainDB, error) {
	hc, err := lru.New(headerCacheSize)
	if err != nil {
		return nil, err
	}
	bc, err := lru.New(receiptCacheSize)
	if err != nil {
		return nil, err
	}
	db := &ChainDB{store: store, headerCache: hc, bodyCache: bc}
	if err := db.loadTip(); err != nil && err != kvstore.ErrNotFound {
		return nil, err
	}
	return db, nil
}

func (db *ChainDB) loadTip() error {
	enc, err := db.store.Get(tipKey)
	if err != nil {
		return err
	}
	hash := common.BytesToHash(enc)
	h, err := db.GetHeaderByHash(hash)
	if err != nil {
		return err
	}
	db.mu.Lock()
	db.tip = h
	db.mu.Unlock()
	return nil
}

// Tip returns the current canonical head header, or nil if the chain is
// empty (genesis has not yet been mined).
func (db *ChainDB) Tip() *types.Header {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.tip
}

// GetHeaderByHash looks up a header by its identity (VedaBlockHash).
func (db *ChainDB) GetHeaderByHash(hash common.Hash) (*types.Header, error) {
	if v, ok := db.headerCache.Get(hash); ok {
		return v.(*types.Header), nil
	}
	enc, err := db.store.Get(headerKey(hash))
	if err != nil {
		return nil, err
	}
	h, err := types.DecodeHeaderRLP(enc)
	if err != nil {
		return nil, err
	}
	db.headerCache.Add(hash, h)
	return h, nil
}

// GetCanonicalHash returns the canonical block hash at number.
func (db *ChainDB) GetCanonicalHash(number uint64) (common.Hash, error) {
	enc, err := db.store.Get(canonicalKey(number))
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(enc), nil
}

// GetHeaderByNumber resolves the canonical header at number.
func (db *ChainDB) GetHeaderByNumber(number uint64) (*types.Header, error) {
	hash, err := db.GetCanonicalHash(number)
	if err != nil {
		return nil, err
	}
	return db.GetHeaderByHash(hash)
}

// GetBlockTxHashes returns the ordered transaction-hash list for the block
// identified by hash.
func (db *ChainDB) GetBlockTxHashes(hash common.Hash) ([]common.Hash, error) {
	if v, ok := db.bodyCache.Get(hash); ok {
		return v.([]common.Hash), nil
	}
	enc, err := db.store.Get(bodyKey(hash))
	if err != nil {
		return nil, err
	}
	n := len(enc) / common.HashLength
	hashes := make([]common.Hash, n)
	for i := 0; i < n; i++ {
		hashes[i] = common.BytesToHash(enc[i*common.HashLength : (i+1)*common.HashLength])
	}
	db.bodyCache.Add(hash, hashes)
	return hashes, nil
}

// GetTransaction resolves a transaction body plus its canonical position.
func (db *ChainDB) GetTransaction(txHash common.Hash) (tx *types.Transaction, blockHash common.Hash, blockNumber uint64, index uint64, err error) {
	lookupEnc, err := db.store.Get(txLookupKey(txHash))
	if err != nil {
		return nil, common.Hash{}, 0, 0, err
	}
	blockNumber = decodeNumber(lookupEnc[:8])
	index = decodeNumber(lookupEnc[8:16])

	blockHash, err = db.GetCanonicalHash(blockNumber)
	if err != nil {
		return nil, common.Hash{}, 0, 0, err
	}

	txEnc, err := db.store.Get(txBodyKey(txHash))
	if err != nil {
		return nil, common.Hash{}, 0, 0, err
	}
	tx, err = types.DecodeTransactionRLP(txEnc)
	if err != nil {
		return nil, common.Hash{}, 0, 0, err
	}
	return tx, blockHash, blockNumber, index, nil
}

// GetReceipts returns every receipt for the block identified by hash, with
// BlockHash/BlockNumber/TransactionIndex context stamped in.
func (db *ChainDB) GetReceipts(hash common.Hash) ([]*types.Receipt, error) {
	enc, err := db.store.Get(receiptsKey(hash))
	if err != nil {
		return nil, err
	}
	items, err := decodeReceiptList(enc)
	if err != nil {
		return nil, err
	}
	header, err := db.GetHeaderByHash(hash)
	if err != nil {
		return nil, err
	}
	for i, r := range items {
		r.BlockHash = hash
		r.BlockNumber = header.Number
		r.TransactionIndex = uint(i)
	}
	return items, nil
}

// GetReceipt finds the single receipt for txHash.
func (db *ChainDB) GetReceipt(txHash common.Hash) (*types.Receipt, error) {
	_, blockHash, _, index, err := db.GetTransaction(txHash)
	if err != nil {
		return nil, err
	}
	receipts, err := db.GetReceipts(blockHash)
	if err != nil {
		return nil, err
	}
	if int(index) >= len(receipts) {
		return nil, ErrNotFound
	}
	return receipts[index], nil
}

// WriteBlock persists header, the ordered transaction bodies, and their
// receipts as one atomic KV batch, and advances the canonical tip — per
// spec.md §4.7: "a crash between transactions cannot leave a half-applied
// block."
func (db *ChainDB) WriteBlock(header *types.Header, txs []*types.Transaction, receipts []*types.Receipt) error {
	batch := db.store.NewBatch()

	hash := header.Hash()
	batch.Put(headerKey(hash), header.EncodeRLP())
	batch.Put(headerNumberKey(hash), encodeNumber(header.Number))
	batch.Put(canonicalKey(header.Number), hash[:])
	batch.Put(tipKey, hash[:])

	bodyEnc := make([]byte, 0, len(txs)*common.HashLength)
	for i, tx := range txs {
		txHash := tx.Hash()
		bodyEnc = append(bodyEnc, txHash[:]...)
		batch.Put(txBodyKey(txHash), tx.EncodeRLP())

		lookup := make([]byte, 16)
		copy(lookup[:8], encodeNumber(header.Number))
		copy(lookup[8:], encodeNumber(uint64(i)))
		batch.Put(txLookupKey(txHash), lookup)
	}
	batch.Put(bodyKey(hash), bodyEnc)
	batch.Put(receiptsKey(hash), encodeReceiptList(receipts))

	if err := batch.Write(); err != nil {
		return err
	}

	db.headerCache.Add(hash, header)
	db.bodyCache.Remove(hash)
	db.mu.Lock()
	db.tip = header
	db.mu.Unlock()
	return nil
}

func encodeReceiptList(receipts []*types.Receipt) []byte {
	items := make([][]byte, len(receipts))
	for i, r := range receipts {
		items[i] = encodeStorageItem(r.EncodeStorageRLP())
	}
	return concatWithLength(items)
}

// encodeStorageItem/concatWithLength avoid importing rlp here: the receipt
// list is stored as a length-prefixed concatenation of independently
// RLP-encoded items rather than nesting them inside one outer RLP list,
// since DecodeReceiptStorageRLP already parses a complete top-level item.
func encodeStorageItem(enc []byte) []byte {
	out := make([]byte, 4+len(enc))
	putUint32(out, uint32(len(enc)))
	copy(out[4:], enc)
	return out
}

func concatWithLength(items [][]byte) []byte {
	var out []byte
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func decodeReceiptList(enc []byte) ([]*types.Receipt, error) {
	var receipts []*types.Receipt
	for len(enc) > 0 {
		n := uint32(enc[0])<<24 | uint32(enc[1])<<16 | uint32(enc[2])<<8 | uint32(enc[3])
		enc = enc[4:]
		r, err := types.DecodeReceiptStorageRLP(enc[:n])
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
		enc = enc[n:]
	}
	return receipts, nil
}
