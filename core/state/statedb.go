// Package state implements Veda's world-state model: an account cache with
// per-account storage sub-tries over a Merkle-Patricia trie, warm
// address/slot sets for EIP-2929 pricing, and a journal-backed snapshot
// stack, per spec.md §4.2. Grounded on the teacher's revm_bridge/statedb.go
// pending-overlay idiom (Basic/Storage lookups through a pending layer
// before falling through to the trie) generalized from a single-block
// journal into a full nested-snapshot StateDB.
package state

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/crypto"
	"github.com/veda-chain/veda/kvstore"
	"github.com/veda-chain/veda/trie"
)

const codeCacheSize = 4096

// storageKey identifies one (address, slot) pair in the warm-slot set.
type storageKey struct {
	addr common.Address
	slot common.Hash
}

// Witness is returned by Persist, describing what changed for observability
// only (spec.md §4.2: "returns a witness ... used only for observability").
type Witness struct {
	TouchedAccounts int
	TouchedSlots    int
	TrieNodeHashes  []common.Hash
	CodeHashes      []common.Hash
}

// StateDB is the live world-state view for one block's execution.
type StateDB struct {
	store kvstore.Store
	trie  *trie.Trie

	stateObjects      map[common.Address]*stateObject
	stateObjectsDirty map[common.Address]struct{}

	warmAddresses mapset.Set[common.Address]
	warmSlots     mapset.Set[storageKey]

	journal        *journal
	validRevisions []revision
	nextRevisionID int

	refund uint64

	// pendingDeletes tracks addresses marked for end-of-transaction removal
	// (self-destructed, or touched-and-empty per EIP-161).
	pendingDeletes map[common.Address]struct{}

	codeCache *lru.Cache

	err error
}

type revision struct {
	id           int
	journalIndex int
}

// New opens a StateDB rooted at root over store, matching state.New's role
// in the teacher (constructing a fresh StateDB bound to a trie root).
func New(root common.Hash, store kvstore.Store) (*StateDB, error) {
	cache, err := lru.New(codeCacheSize)
	if err != nil {
		return nil, err
	}
	return &StateDB{
		store:             store,
		trie:              trie.New(root, store),
		stateObjects:      make(map[common.Address]*stateObject),
		stateObjectsDirty: make(map[common.Address]struct{}),
		warmAddresses:     mapset.NewSet[common.Address](),
		warmSlots:         mapset.NewSet[storageKey](),
		journal:           newJournal(),
		pendingDeletes:    make(map[common.Address]struct{}),
		codeCache:         cache,
	}, nil
}

func (s *StateDB) setError(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Error returns the first internal error encountered (e.g. ErrMissingNode
// surfacing a corrupted trie, per spec.md scenario F), if any.
func (s *StateDB) Error() error { return s.err }

// ---------------------------------------------------------------- accounts

func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	if obj, ok := s.stateObjects[addr]; ok {
		return obj
	}
	enc, err := s.trie.Get(crypto.Keccak256(addr[:]))
	if err != nil {
		s.setError(err)
		return nil
	}
	if len(enc) == 0 {
		return nil
	}
	account, err := types.DecodeAccountRLP(enc)
	if err != nil {
		s.setError(err)
		return nil
	}
	obj := newStateObject(s, addr, account)
	s.setStateObject(obj)
	return obj
}

func (s *StateDB) setStateObject(obj *stateObject) {
	s.stateObjects[obj.address] = obj
}

// getOrCreateStateObject returns the existing object at addr, lazily
// creating an empty one (spec.md §4.2: "Accounts are created lazily on
// first touch").
func (s *StateDB) getOrCreateStateObject(addr common.Address) *stateObject {
	obj := s.getStateObject(addr)
	if obj == nil {
		obj = s.createObject(addr)
	}
	return obj
}

func (s *StateDB) createObject(addr common.Address) *stateObject {
	prev := s.stateObjects[addr]
	newObj := newStateObject(s, addr, types.EmptyAccount())
	s.journal.append(createObjectChange{account: &addr})
	if prev != nil {
		s.journal.append(resetObjectChange{prev: prev})
	}
	s.setStateObject(newObj)
	return newObj
}

// GetAccount returns a copy of the account tuple at addr, or the empty
// account if the address has never been touched.
func (s *StateDB) GetAccount(addr common.Address) types.Account {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.data
	}
	return types.EmptyAccount()
}

// SetAccount overwrites the account tuple at addr wholesale (used by genesis
// loading and trace replay, which supply pre-formed account state).
func (s *StateDB) SetAccount(addr common.Address, acc types.Account) {
	obj := s.getOrCreateStateObject(addr)
	obj.data = acc
}

func (s *StateDB) GetBalance(addr common.Address) []byte {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.data.Balance
	}
	return nil
}

// SetBalance is exposed for ABI/codec compatibility only: spec.md §4.3
// requires executing CALL/CREATE to never debit or credit balances, so
// callers outside genesis loading should not normally invoke it.
func (s *StateDB) SetBalance(addr common.Address, balance []byte) {
	obj := s.getOrCreateStateObject(addr)
	s.journal.append(balanceChange{account: &addr, prev: obj.data.Balance})
	obj.setBalance(balance)
}

// DeltaBalance is a no-op computation placeholder kept for ABI shape
// compatibility; Veda never adjusts balances during execution.
func (s *StateDB) DeltaBalance(addr common.Address, delta []byte) {}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.data.Nonce
	}
	return 0
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	obj := s.getOrCreateStateObject(addr)
	s.journal.append(nonceChange{account: &addr, prev: obj.data.Nonce})
	obj.setNonce(nonce)
}

func (s *StateDB) IncrementNonce(addr common.Address) {
	s.SetNonce(addr, s.GetNonce(addr)+1)
}

func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.data.CodeHash
	}
	return common.EmptyCodeHash
}

func (s *StateDB) GetCode(addr common.Address) []byte {
	if v, ok := s.codeCache.Get(s.GetCodeHash(addr)); ok {
		return v.([]byte)
	}
	obj := s.getStateObject(addr)
	if obj == nil {
		return nil
	}
	code := obj.Code()
	if code != nil {
		s.codeCache.Add(obj.data.CodeHash, code)
	}
	return code
}

func (s *StateDB) SetCode(addr common.Address, code []byte) {
	obj := s.getOrCreateStateObject(addr)
	codeHash := crypto.Keccak256(code)
	s.journal.append(codeChange{account: &addr, prevCode: obj.code, prevHash: obj.data.CodeHash[:]})
	obj.setCode(codeHash, code)
	s.codeCache.Add(common.BytesToHash(codeHash), code)
}

func (s *StateDB) GetStorage(addr common.Address, key common.Hash) common.Hash {
	obj := s.getStateObject(addr)
	if obj == nil {
		return common.Hash{}
	}
	return obj.GetState(key)
}

func (s *StateDB) SetStorage(addr common.Address, key, value common.Hash) {
	obj := s.getOrCreateStateObject(addr)
	obj.SetState(key, value)
}

// AccountIsEmpty reports the EIP-161 emptiness test for addr.
func (s *StateDB) AccountIsEmpty(addr common.Address) bool {
	obj := s.getStateObject(addr)
	return obj == nil || obj.empty()
}

// TouchAccount records that addr was touched this transaction; if it is
// empty it becomes a deletion candidate processed at transaction end
// (spec.md §4.4 step g).
func (s *StateDB) TouchAccount(addr common.Address) {
	obj := s.getOrCreateStateObject(addr)
	s.journal.append(touchChange{account: &addr})
	if obj.empty() {
		s.pendingDeletes[addr] = struct{}{}
	}
}

// DeleteAccount marks addr for removal at transaction end (SELFDESTRUCT).
func (s *StateDB) DeleteAccount(addr common.Address) {
	obj := s.getOrCreateStateObject(addr)
	s.journal.append(suicideChange{account: &addr, prev: obj.suicided, prevBalance: obj.data.Balance})
	obj.markSuicided()
	obj.setBalance(nil)
	s.pendingDeletes[addr] = struct{}{}
}

// FinalizeTransaction deletes every account scheduled for removal (self-
// destructed or touched-and-empty), per spec.md §4.4 step g, and clears the
// per-transaction bookkeeping (warm sets, pending deletes) ready for the
// next transaction.
func (s *StateDB) FinalizeTransaction() {
	for addr := range s.pendingDeletes {
		if obj := s.stateObjects[addr]; obj != nil && (obj.suicided || obj.empty()) {
			delete(s.stateObjects, addr)
			obj.deleted = true
			if err := s.trie.Delete(crypto.Keccak256(addr[:])); err != nil {
				s.setError(err)
			}
		}
	}
	s.pendingDeletes = make(map[common.Address]struct{})
	s.warmAddresses = mapset.NewSet[common.Address]()
	s.warmSlots = mapset.NewSet[storageKey]()
}

// ------------------------------------------------------------- warm sets

func (s *StateDB) MarkAddressWarm(addr common.Address) bool {
	if s.warmAddresses.Contains(addr) {
		return false
	}
	s.journal.append(accessListAddAccountChange{address: &addr})
	s.warmAddresses.Add(addr)
	return true
}

func (s *StateDB) IsAddressWarm(addr common.Address) bool {
	return s.warmAddresses.Contains(addr)
}

func (s *StateDB) MarkStorageWarm(addr common.Address, slot common.Hash) bool {
	key := storageKey{addr, slot}
	if s.warmSlots.Contains(key) {
		return false
	}
	s.MarkAddressWarm(addr)
	s.journal.append(accessListAddSlotChange{address: &addr, slot: &slot})
	s.warmSlots.Add(key)
	return true
}

func (s *StateDB) IsStorageWarm(addr common.Address, slot common.Hash) bool {
	return s.warmSlots.Contains(storageKey{addr, slot})
}

// ------------------------------------------------------------- refund

func (s *StateDB) AddRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	s.refund += gas
}

func (s *StateDB) SubRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	if gas > s.refund {
		s.refund = 0
		return
	}
	s.refund -= gas
}

func (s *StateDB) Refund() uint64 { return s.refund }

// ResetRefund zeroes the refund counter. The executor calls this once per
// transaction: refund is a per-transaction quantity and must not leak into
// the next transaction's accounting.
func (s *StateDB) ResetRefund() { s.refund = 0 }

// ------------------------------------------------------------- snapshots

// Snapshot returns an opaque token capturing the current journal length.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionID
	s.nextRevisionID++
	s.validRevisions = append(s.validRevisions, revision{id, s.journal.length()})
	return id
}

// RevertToSnapshot discards every mutation recorded since token, per
// spec.md §4.2/§4.4: rolls back account values, storage, warm sets, and
// pending-deletion marks, but never gas already consumed.
func (s *StateDB) RevertToSnapshot(token int) {
	idx := -1
	for i, r := range s.validRevisions {
		if r.id == token {
			idx = i
			break
		}
	}
	if idx == -1 {
		panic(fmt.Sprintf("state: no snapshot for revision %d", token))
	}
	snapshot := s.validRevisions[idx].journalIndex
	s.journal.revertTo(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

// ------------------------------------------------------------- persistence

// MakeStateRoot computes the new root without persisting, per spec.md §4.2.
func (s *StateDB) MakeStateRoot() (common.Hash, error) {
	if err := s.updateTrie(); err != nil {
		return common.Hash{}, err
	}
	return s.trie.Hash()
}

// updateTrie flushes every dirty account's storage trie and re-encodes the
// account tuple into the world trie, without touching the backing store.
func (s *StateDB) updateTrie() error {
	for addr, obj := range s.stateObjects {
		if obj.deleted {
			if err := s.trie.Delete(crypto.Keccak256(addr[:])); err != nil {
				return err
			}
			continue
		}
		if err := obj.updateRoot(); err != nil {
			return err
		}
		if err := s.trie.Set(crypto.Keccak256(addr[:]), obj.data.EncodeRLP()); err != nil {
			return err
		}
	}
	return s.err
}

// Persist writes every dirty account into the world trie, commits and
// persists each account's storage trie, writes new code blobs, then commits
// and persists the world trie, returning the new root and a witness for
// observability. Each trie is written as its own KV batch and each code blob
// with its own Put, so the writes as a whole are not one atomic batch.
func (s *StateDB) Persist() (common.Hash, Witness, error) {
	witness := Witness{}
	if err := s.updateTrie(); err != nil {
		return common.Hash{}, witness, err
	}
	for addr, obj := range s.stateObjects {
		if obj.deleted {
			continue
		}
		if obj.storageTrie != nil {
			if _, err := obj.storageTrie.Commit(); err != nil {
				return common.Hash{}, witness, err
			}
		}
		if err := obj.persistStorage(); err != nil {
			return common.Hash{}, witness, err
		}
		if err := obj.persistCode(); err != nil {
			return common.Hash{}, witness, err
		}
		witness.TouchedAccounts++
		witness.TouchedSlots += len(obj.originStorage)
		_ = addr
	}
	root, err := s.trie.Commit()
	if err != nil {
		return common.Hash{}, witness, err
	}
	if err := s.trie.Persist(); err != nil {
		return common.Hash{}, witness, err
	}
	return root, witness, nil
}
