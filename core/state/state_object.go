package state

import (
	"github.com/holiman/uint256"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/crypto"
	"github.com/veda-chain/veda/rlp"
	"github.com/veda-chain/veda/trie"
)

// stateObject is the in-memory representation of one account: its trie-level
// Account tuple, its lazily-loaded bytecode, and its per-account storage
// trie with an overlay of pending writes. Mirrors the teacher's
// core/state.stateObject, minus balance accounting — spec.md §4.2 requires
// the balance field to exist and round-trip but never to be debited or
// credited by execution.
type stateObject struct {
	address common.Address
	data    types.Account

	db *StateDB

	storageTrie   *trie.Trie
	originStorage map[common.Hash]common.Hash
	dirtyStorage  map[common.Hash]common.Hash

	code      []byte
	dirtyCode bool

	suicided bool
	deleted  bool
}

func newStateObject(db *StateDB, addr common.Address, data types.Account) *stateObject {
	return &stateObject{
		db:            db,
		address:       addr,
		data:          data,
		originStorage: make(map[common.Hash]common.Hash),
		dirtyStorage:  make(map[common.Hash]common.Hash),
	}
}

func (s *stateObject) empty() bool {
	return s.data.Nonce == 0 && len(s.data.Balance) == 0 && s.data.CodeHash == common.EmptyCodeHash
}

func (s *stateObject) markSuicided() { s.suicided = true }

func (s *stateObject) setBalance(b []byte) { s.data.Balance = b }

func (s *stateObject) Balance() *uint256.Int {
	i := new(uint256.Int)
	i.SetBytes(s.data.Balance)
	return i
}

func (s *stateObject) setNonce(n uint64) { s.data.Nonce = n }

func (s *stateObject) Nonce() uint64 { return s.data.Nonce }

func (s *stateObject) CodeHash() common.Hash { return s.data.CodeHash }

func (s *stateObject) Code() []byte {
	if s.code != nil {
		return s.code
	}
	if s.data.CodeHash == common.EmptyCodeHash {
		return nil
	}
	code, err := s.db.store.Get(codeKey(s.data.CodeHash))
	if err != nil {
		s.db.setError(err)
		return nil
	}
	s.code = code
	return code
}

func (s *stateObject) setCode(codeHash []byte, code []byte) {
	var h common.Hash
	copy(h[:], codeHash)
	s.data.CodeHash = h
	s.code = code
	s.dirtyCode = true
}

// openStorageTrie resolves the per-account storage trie rooted at
// data.StorageRoot, creating an empty one lazily.
func (s *stateObject) openStorageTrie() *trie.Trie {
	if s.storageTrie == nil {
		s.storageTrie = trie.New(s.data.StorageRoot, s.db.store)
	}
	return s.storageTrie
}

func (s *stateObject) GetState(key common.Hash) common.Hash {
	if v, ok := s.dirtyStorage[key]; ok {
		return v
	}
	return s.GetCommittedState(key)
}

func (s *stateObject) GetCommittedState(key common.Hash) common.Hash {
	if v, ok := s.originStorage[key]; ok {
		return v
	}
	enc, err := s.openStorageTrie().Get(storageTrieKey(key))
	if err != nil {
		s.db.setError(err)
		return common.Hash{}
	}
	var value common.Hash
	if len(enc) > 0 {
		v, derr := decodeStorageValue(enc)
		if derr != nil {
			s.db.setError(derr)
			return common.Hash{}
		}
		value = v
	}
	s.originStorage[key] = value
	return value
}

func (s *stateObject) SetState(key, value common.Hash) {
	prev := s.GetState(key)
	if prev == value {
		return
	}
	s.db.journal.append(storageChange{
		account:     &s.address,
		key:         key,
		prevValue:   prev,
		prevExisted: true,
	})
	s.setStorage(key, value, true)
}

func (s *stateObject) setStorage(key, value common.Hash, _ bool) {
	s.dirtyStorage[key] = value
}

// updateStorageTrie flushes dirtyStorage into the account's storage trie,
// rlp-encoding nonzero values and deleting zero ones (matching MPT convention
// that a slot set to zero is simply absent).
func (s *stateObject) updateStorageTrie() {
	trieObj := s.openStorageTrie()
	for key, value := range s.dirtyStorage {
		k := storageTrieKey(key)
		if (value == common.Hash{}) {
			trieObj.Delete(k)
		} else {
			trieObj.Set(k, encodeStorageValue(value))
		}
		s.originStorage[key] = value
	}
	s.dirtyStorage = make(map[common.Hash]common.Hash)
}

// updateRoot recomputes and stores the account's storage root.
func (s *stateObject) updateRoot() error {
	s.updateStorageTrie()
	root, err := s.storageTrie.Hash()
	if err != nil {
		return err
	}
	s.data.StorageRoot = root
	return nil
}

// persistStorage commits the account's storage trie to the KV store.
func (s *stateObject) persistStorage() error {
	if s.storageTrie == nil {
		return nil
	}
	return s.storageTrie.Persist()
}

// persistCode writes a dirty code blob to the KV store keyed by its hash.
func (s *stateObject) persistCode() error {
	if !s.dirtyCode || s.code == nil {
		return nil
	}
	s.dirtyCode = false
	return s.db.store.Put(codeKey(s.data.CodeHash), s.code)
}

func codeKey(hash common.Hash) []byte {
	return append([]byte("code-"), hash[:]...)
}

// storageTrieKey hashes a 32-byte storage slot to its trie key, per
// spec.md §4.1: "key = keccak(32-byte-big-endian slot)".
func storageTrieKey(slot common.Hash) []byte {
	return crypto.Keccak256(slot[:])
}

// encodeStorageValue / decodeStorageValue store storage words as
// RLP(word), per spec.md §4.1, trimmed to the minimal big-endian form.
func encodeStorageValue(v common.Hash) []byte {
	b := v[:]
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return rlp.EncodeBytes(b[i:])
}

func decodeStorageValue(enc []byte) (common.Hash, error) {
	item, err := rlp.Decode(enc)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(item.Bytes), nil
}
