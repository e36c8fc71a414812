// Package types holds Veda's wire-level domain objects: accounts, headers,
// transactions, receipts, logs, and the bloom filter, each with an RLP codec
// matching spec.md §3/§6.5 byte-for-byte.
package types

import (
	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/rlp"
)

// Account is the 4-tuple stored (RLP-encoded) at key = keccak(address)
// inside the world-state trie.
type Account struct {
	Nonce       uint64
	Balance     []byte // big-endian minimal, always empty/zero in production use
	StorageRoot common.Hash
	CodeHash    common.Hash
}

// EmptyAccount returns the zero-value account a lazily-created address
// starts with: zero nonce/balance, the empty-trie storage root, and the
// keccak-of-empty-string code hash.
func EmptyAccount() Account {
	return Account{
		StorageRoot: common.EmptyTrieRoot,
		CodeHash:    common.EmptyCodeHash,
	}
}

// IsEmpty reports the EIP-161 emptiness test: zero nonce, zero balance, no
// code.
func (a Account) IsEmpty() bool {
	return a.Nonce == 0 && len(trimLeadingZeros(a.Balance)) == 0 && a.CodeHash == common.EmptyCodeHash
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}

// EncodeRLP lays the account out as RLP(nonce, balance, storageRoot, codeHash).
func (a Account) EncodeRLP() []byte {
	return rlp.EncodeList(
		rlp.EncodeUint(a.Nonce),
		rlp.EncodeBytes(trimLeadingZeros(a.Balance)),
		rlp.EncodeBytes(a.StorageRoot[:]),
		rlp.EncodeBytes(a.CodeHash[:]),
	)
}

// DecodeAccountRLP is the inverse of EncodeRLP.
func DecodeAccountRLP(enc []byte) (Account, error) {
	item, err := rlp.Decode(enc)
	if err != nil {
		return Account{}, err
	}
	nonce, err := item.List[0].Uint()
	if err != nil {
		return Account{}, err
	}
	return Account{
		Nonce:       nonce,
		Balance:     append([]byte{}, item.List[1].Bytes...),
		StorageRoot: common.BytesToHash(item.List[2].Bytes),
		CodeHash:    common.BytesToHash(item.List[3].Bytes),
	}, nil
}
