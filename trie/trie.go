// Package trie implements the modified Merkle-Patricia trie described in
// spec.md §4.1: leaf/extension/branch nodes over an ordered KV store,
// references inlined when their RLP encoding is at most 32 bytes and
// content-addressed (key = keccak(RLP(node))) otherwise. Get/Set/Delete are
// pure functions of an immutable view plus a pending-writes buffer; Persist
// flushes that buffer as a single atomic KV batch.
package trie

import (
	"errors"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/crypto"
	"github.com/veda-chain/veda/kvstore"
	"github.com/veda-chain/veda/rlp"
)

// Trie is a single Merkle-Patricia trie rooted at an (initially possibly
// unresolved) hash. All mutations are staged in-memory; nothing reaches the
// backing store until Persist is called.
type Trie struct {
	store kvstore.Store
	root  node
	dirty map[common.Hash][]byte
}

// New opens a trie at the given root hash. An empty/zero root (or
// common.EmptyTrieRoot) yields a brand-new, empty trie.
func New(root common.Hash, store kvstore.Store) *Trie {
	t := &Trie{store: store}
	if root.IsZero() || root == common.EmptyTrieRoot {
		t.root = nil
	} else {
		t.root = hashNode(root.Bytes())
	}
	return t
}

// Get fetches the value stored at key, or (nil, nil) if absent.
func (t *Trie) Get(key []byte) ([]byte, error) {
	return t.get(t.root, keyToNibbles(key))
}

func (t *Trie) get(n node, nibbles []byte) ([]byte, error) {
	switch nd := n.(type) {
	case nil:
		return nil, nil
	case valueNode:
		return []byte(nd), nil
	case hashNode:
		resolved, err := t.resolveHash(nd)
		if err != nil {
			return nil, err
		}
		return t.get(resolved, nibbles)
	case *shortNode:
		if len(nibbles) < len(nd.Key) || !nibblesEqual(nibbles[:len(nd.Key)], nd.Key) {
			return nil, nil
		}
		return t.get(nd.Val, nibbles[len(nd.Key):])
	case *fullNode:
		if len(nibbles) == 0 {
			if v, ok := nd.Children[16].(valueNode); ok {
				return []byte(v), nil
			}
			return nil, nil
		}
		return t.get(nd.Children[nibbles[0]], nibbles[1:])
	default:
		return nil, nil
	}
}

// Set inserts or overwrites the value at key.
func (t *Trie) Set(key, value []byte) error {
	if len(value) == 0 {
		return t.Delete(key)
	}
	newRoot, err := t.insert(t.root, keyToNibbles(key), valueNode(value))
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *Trie) insert(n node, prefix []byte, value node) (node, error) {
	switch nd := n.(type) {
	case nil:
		return &shortNode{Key: append([]byte{}, prefix...), Val: value}, nil

	case hashNode:
		resolved, err := t.resolveHash(nd)
		if err != nil {
			return nil, err
		}
		return t.insert(resolved, prefix, value)

	case *shortNode:
		matchLen := commonPrefixLen(prefix, nd.Key)
		if matchLen == len(nd.Key) {
			newVal, err := t.insert(nd.Val, prefix[matchLen:], value)
			if err != nil {
				return nil, err
			}
			return &shortNode{Key: nd.Key, Val: newVal}, nil
		}
		branch := &fullNode{}
		if matchLen < len(nd.Key) {
			branch.Children[nd.Key[matchLen]] = attachRemainder(nd.Key[matchLen+1:], nd.Val)
		}
		if matchLen < len(prefix) {
			branch.Children[prefix[matchLen]] = attachRemainder(prefix[matchLen+1:], value)
		} else {
			branch.Children[16] = value
		}
		if matchLen > 0 {
			return &shortNode{Key: append([]byte{}, prefix[:matchLen]...), Val: branch}, nil
		}
		return branch, nil

	case *fullNode:
		cp := &fullNode{Children: nd.Children}
		if len(prefix) == 0 {
			cp.Children[16] = value
			return cp, nil
		}
		child, err := t.insert(nd.Children[prefix[0]], prefix[1:], value)
		if err != nil {
			return nil, err
		}
		cp.Children[prefix[0]] = child
		return cp, nil

	default:
		return nil, errors.New("trie: insert into unrecognised node type")
	}
}

func attachRemainder(remainder []byte, val node) node {
	if len(remainder) == 0 {
		return val
	}
	return &shortNode{Key: append([]byte{}, remainder...), Val: val}
}

// Delete removes key from the trie, collapsing branches/extensions so the
// resulting tree stays canonical (required for invariant 2: state_root
// depends only on the final contents, not the order entries were touched).
func (t *Trie) Delete(key []byte) error {
	newRoot, err := t.delete(t.root, keyToNibbles(key))
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *Trie) delete(n node, prefix []byte) (node, error) {
	switch nd := n.(type) {
	case nil:
		return nil, nil

	case hashNode:
		resolved, err := t.resolveHash(nd)
		if err != nil {
			return nil, err
		}
		return t.delete(resolved, prefix)

	case *shortNode:
		matchLen := commonPrefixLen(prefix, nd.Key)
		if matchLen < len(nd.Key) {
			return nd, nil // key not present
		}
		if matchLen == len(prefix) {
			return nil, nil // exact match on this leaf/extension: remove it
		}
		newVal, err := t.delete(nd.Val, prefix[matchLen:])
		if err != nil {
			return nil, err
		}
		if newVal == nil {
			return nil, nil
		}
		if childShort, ok := newVal.(*shortNode); ok {
			merged := append(append([]byte{}, nd.Key...), childShort.Key...)
			return &shortNode{Key: merged, Val: childShort.Val}, nil
		}
		return &shortNode{Key: nd.Key, Val: newVal}, nil

	case *fullNode:
		cp := &fullNode{Children: nd.Children}
		if len(prefix) == 0 {
			cp.Children[16] = nil
		} else {
			newChild, err := t.delete(nd.Children[prefix[0]], prefix[1:])
			if err != nil {
				return nil, err
			}
			cp.Children[prefix[0]] = newChild
		}

		count, loneIdx := 0, -1
		for i := 0; i < 16; i++ {
			if cp.Children[i] != nil {
				count++
				loneIdx = i
			}
		}
		hasValue := cp.Children[16] != nil

		switch {
		case count == 0 && !hasValue:
			return nil, nil
		case count == 0 && hasValue:
			return &shortNode{Val: cp.Children[16]}, nil
		case count == 1 && !hasValue:
			child := cp.Children[loneIdx]
			if hn, ok := child.(hashNode); ok {
				resolved, err := t.resolveHash(hn)
				if err != nil {
					return nil, err
				}
				child = resolved
			}
			if cs, ok := child.(*shortNode); ok {
				merged := append([]byte{byte(loneIdx)}, cs.Key...)
				return &shortNode{Key: merged, Val: cs.Val}, nil
			}
			return &shortNode{Key: []byte{byte(loneIdx)}, Val: child}, nil
		default:
			return cp, nil
		}

	default:
		return nil, errors.New("trie: delete from unrecognised node type")
	}
}

func (t *Trie) resolveHash(hn hashNode) (node, error) {
	enc, err := t.store.Get(hn)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrMissingNode{Hash: common.BytesToHash(hn)}
		}
		return nil, err
	}
	return decodeNode(enc)
}

// Hash computes the trie's root hash without mutating or persisting it.
func (t *Trie) Hash() (common.Hash, error) {
	snapshot := cloneTrieForHash(t)
	h, err := snapshot.Commit()
	return h, err
}

// cloneTrieForHash makes a shallow copy so Hash() can reuse Commit's logic
// without mutating the receiver's root/dirty state.
func cloneTrieForHash(t *Trie) *Trie {
	return &Trie{store: t.store, root: t.root, dirty: nil}
}

// Commit hashes the whole tree bottom-up, staging every newly-referenced
// node (RLP encoding >= 32 bytes) into the trie's pending-writes buffer, and
// returns the (always-hashed, even if tiny) root. Call Persist afterward to
// flush the buffer.
func (t *Trie) Commit() (common.Hash, error) {
	if t.root == nil {
		return common.EmptyTrieRoot, nil
	}
	ref, enc, err := t.commit(t.root)
	if err != nil {
		return common.Hash{}, err
	}
	if hn, ok := ref.(hashNode); ok {
		t.root = hn
		return common.BytesToHash(hn), nil
	}
	// Root is always persisted under its own hash regardless of size.
	h := crypto.Keccak256(enc)
	t.stage(common.BytesToHash(h), enc)
	t.root = hashNode(h)
	return common.BytesToHash(h), nil
}

func (t *Trie) commit(n node) (ref node, enc []byte, err error) {
	switch nd := n.(type) {
	case nil:
		return nil, rlp.EncodeBytes(nil), nil

	case hashNode:
		return nd, rlp.EncodeBytes([]byte(nd)), nil

	case valueNode:
		return nd, rlp.EncodeBytes([]byte(nd)), nil

	case *shortNode:
		isLeaf := isValueNode(nd.Val)
		var valRef []byte
		var newVal node
		if isLeaf {
			valRef = rlp.EncodeBytes([]byte(nd.Val.(valueNode)))
			newVal = nd.Val
		} else {
			childRef, childEnc, err := t.commit(nd.Val)
			if err != nil {
				return nil, nil, err
			}
			valRef = referenceBytes(childRef, childEnc)
			newVal = childRef
		}
		keyEnc := rlp.EncodeBytes(hexPrefix(nd.Key, isLeaf))
		full := rlp.EncodeList(keyEnc, valRef)
		return t.finalize(&shortNode{Key: nd.Key, Val: newVal}, full)

	case *fullNode:
		items := make([][]byte, 17)
		newChildren := nd.Children
		for i := 0; i < 16; i++ {
			ref, encBytes, err := t.commit(nd.Children[i])
			if err != nil {
				return nil, nil, err
			}
			newChildren[i] = ref
			items[i] = referenceBytes(ref, encBytes)
		}
		if v, ok := nd.Children[16].(valueNode); ok {
			items[16] = rlp.EncodeBytes([]byte(v))
		} else {
			items[16] = rlp.EncodeBytes(nil)
		}
		full := rlp.EncodeList(items...)
		return t.finalize(&fullNode{Children: newChildren}, full)

	default:
		return nil, nil, errors.New("trie: commit of unrecognised node type")
	}
}

func referenceBytes(ref node, childEnc []byte) []byte {
	if ref == nil {
		return rlp.EncodeBytes(nil)
	}
	if hn, ok := ref.(hashNode); ok {
		return rlp.EncodeBytes([]byte(hn))
	}
	return childEnc
}

func (t *Trie) finalize(nd node, fullEncoding []byte) (node, []byte, error) {
	if len(fullEncoding) >= 32 {
		h := crypto.Keccak256(fullEncoding)
		t.stage(common.BytesToHash(h), fullEncoding)
		return hashNode(h), fullEncoding, nil
	}
	return nd, fullEncoding, nil
}

func (t *Trie) stage(h common.Hash, enc []byte) {
	if t.dirty == nil {
		t.dirty = make(map[common.Hash][]byte)
	}
	t.dirty[h] = append([]byte{}, enc...)
}

// Persist flushes every node staged since the trie was opened (by Commit
// calls; Set and Delete stage nothing) to the backing store as one atomic
// batch, per spec.md §4.1/§4.7.
func (t *Trie) Persist() error {
	if len(t.dirty) == 0 {
		return nil
	}
	batch := t.store.NewBatch()
	for h, enc := range t.dirty {
		batch.Put(h.Bytes(), enc)
	}
	if err := batch.Write(); err != nil {
		return err
	}
	t.dirty = nil
	return nil
}

func nibblesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
