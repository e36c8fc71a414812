package state

import "github.com/veda-chain/veda/common"

// journalEntry is one undoable mutation recorded against a StateDB. Mirrors
// the teacher's core/state journal idiom: every mutating StateDB method
// pushes an entry before changing in-memory state, and Revert(snapshot)
// replays entries back-to-front.
type journalEntry interface {
	revert(s *StateDB)
	dirtied() *common.Address
}

type journal struct {
	entries []journalEntry
	dirties map[common.Address]int // address -> number of changes
}

func newJournal() *journal {
	return &journal{dirties: make(map[common.Address]int)}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
	if addr := entry.dirtied(); addr != nil {
		j.dirties[*addr]++
	}
}

// length reports how many entries are queued, used as a snapshot token.
func (j *journal) length() int { return len(j.entries) }

// revertTo replays entries from the end down to (not including) snapshot.
func (j *journal) revertTo(s *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)
		if addr := j.entries[i].dirtied(); addr != nil {
			if j.dirties[*addr]--; j.dirties[*addr] == 0 {
				delete(j.dirties, *addr)
			}
		}
	}
	j.entries = j.entries[:snapshot]
}

type (
	createObjectChange struct {
		account *common.Address
	}
	resetObjectChange struct {
		prev *stateObject
	}
	suicideChange struct {
		account     *common.Address
		prev        bool
		prevBalance []byte
	}
	balanceChange struct {
		account *common.Address
		prev    []byte
	}
	nonceChange struct {
		account *common.Address
		prev    uint64
	}
	storageChange struct {
		account      *common.Address
		key          common.Hash
		prevValue    common.Hash
		prevExisted  bool
	}
	codeChange struct {
		account            *common.Address
		prevCode, prevHash []byte
	}
	refundChange struct {
		prev uint64
	}
	touchChange struct {
		account *common.Address
	}
	accessListAddAccountChange struct {
		address *common.Address
	}
	accessListAddSlotChange struct {
		address *common.Address
		slot    *common.Hash
	}
)

func (ch createObjectChange) revert(s *StateDB) {
	delete(s.stateObjects, *ch.account)
	delete(s.stateObjectsDirty, *ch.account)
}
func (ch createObjectChange) dirtied() *common.Address { return ch.account }

func (ch resetObjectChange) revert(s *StateDB) {
	s.setStateObject(ch.prev)
}
func (ch resetObjectChange) dirtied() *common.Address { return nil }

func (ch suicideChange) revert(s *StateDB) {
	obj := s.getStateObject(*ch.account)
	if obj != nil {
		obj.suicided = ch.prev
		obj.setBalance(ch.prevBalance)
	}
}
func (ch suicideChange) dirtied() *common.Address { return ch.account }

func (ch balanceChange) revert(s *StateDB) {
	s.getStateObject(*ch.account).setBalance(ch.prev)
}
func (ch balanceChange) dirtied() *common.Address { return ch.account }

func (ch nonceChange) revert(s *StateDB) {
	s.getStateObject(*ch.account).setNonce(ch.prev)
}
func (ch nonceChange) dirtied() *common.Address { return ch.account }

func (ch storageChange) revert(s *StateDB) {
	s.getStateObject(*ch.account).setStorage(ch.key, ch.prevValue, ch.prevExisted)
}
func (ch storageChange) dirtied() *common.Address { return ch.account }

func (ch codeChange) revert(s *StateDB) {
	s.getStateObject(*ch.account).setCode(ch.prevHash, ch.prevCode)
}
func (ch codeChange) dirtied() *common.Address { return ch.account }

func (ch refundChange) revert(s *StateDB) {
	s.refund = ch.prev
}
func (ch refundChange) dirtied() *common.Address { return nil }

func (ch touchChange) revert(s *StateDB)         {}
func (ch touchChange) dirtied() *common.Address { return ch.account }

func (ch accessListAddAccountChange) revert(s *StateDB) {
	s.warmAddresses.Remove(*ch.address)
}
func (ch accessListAddAccountChange) dirtied() *common.Address { return nil }

func (ch accessListAddSlotChange) revert(s *StateDB) {
	s.warmSlots.Remove(storageKey{*ch.address, *ch.slot})
}
func (ch accessListAddSlotChange) dirtied() *common.Address { return nil }
