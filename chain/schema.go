// Package chain is the Chain DB: header index, canonical-hash map, and
// transaction/receipt lookup, per spec.md §4.7. Key-prefix/table constants
// are centralized in this one file the way erigon-lib/kv/tables.go and
// internal/kv/tables.go centralize table names in the retrieval pack,
// rather than scattering byte-tag literals across the package.
package chain

import "github.com/veda-chain/veda/common"

// Key prefixes, concrete byte tags per spec.md §4.7 (conceptual prefixes
// there; this file picks the actual bytes).
var (
	headerPrefix      = []byte("h")  // headerPrefix + hash -> RLP(header)
	bodyPrefix        = []byte("b")  // bodyPrefix + hash -> list of tx hashes
	receiptsPrefix    = []byte("r")  // receiptsPrefix + hash -> length-prefixed receipt storage encodings
	canonicalPrefix   = []byte("n")  // canonicalPrefix + number -> hash
	txLookupPrefix    = []byte("l")  // txLookupPrefix + txHash -> (number, index)
	txBodyPrefix      = []byte("t")  // txBodyPrefix + txHash -> RLP(transaction)
	headerNumberIndex = []byte("H")  // headerNumberIndex + hash -> number (reverse index)
	tipKey            = []byte("tip")
)

func headerKey(hash common.Hash) []byte {
	return append(append([]byte{}, headerPrefix...), hash[:]...)
}

func bodyKey(hash common.Hash) []byte {
	return append(append([]byte{}, bodyPrefix...), hash[:]...)
}

func receiptsKey(hash common.Hash) []byte {
	return append(append([]byte{}, receiptsPrefix...), hash[:]...)
}

func canonicalKey(number uint64) []byte {
	return append(append([]byte{}, canonicalPrefix...), encodeNumber(number)...)
}

func txLookupKey(txHash common.Hash) []byte {
	return append(append([]byte{}, txLookupPrefix...), txHash[:]...)
}

func txBodyKey(txHash common.Hash) []byte {
	return append(append([]byte{}, txBodyPrefix...), txHash[:]...)
}

func headerNumberKey(hash common.Hash) []byte {
	return append(append([]byte{}, headerNumberIndex...), hash[:]...)
}

func encodeNumber(number uint64) []byte {
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(number)
		number >>= 8
	}
	return buf[:]
}

func decodeNumber(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
