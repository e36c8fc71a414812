package trie

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/kvstore"
)

func newMemStore(t *testing.T) kvstore.Store {
	t.Helper()
	store, err := kvstore.Open("", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTrieEmptyRoot(t *testing.T) {
	store := newMemStore(t)
	tr := New(common.Hash{}, store)
	h, err := tr.Hash()
	require.NoError(t, err)
	require.Equal(t, common.EmptyTrieRoot, h)
}

func TestTrieGetSetRoundTrip(t *testing.T) {
	store := newMemStore(t)
	tr := New(common.Hash{}, store)

	require.NoError(t, tr.Set([]byte("alpha"), []byte("one")))
	require.NoError(t, tr.Set([]byte("alphabet"), []byte("two")))
	require.NoError(t, tr.Set([]byte("beta"), []byte("three")))

	v, err := tr.Get([]byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, []byte("one"), v)

	v, err = tr.Get([]byte("alphabet"))
	require.NoError(t, err)
	require.Equal(t, []byte("two"), v)

	v, err = tr.Get([]byte("missing"))
	require.NoError(t, err)
	require.Nil(t, v)
}

// TestTrieRootIndependentOfInsertOrder covers invariant 2: state_root after
// applying a set of writes doesn't depend on the order they were made in.
func TestTrieRootIndependentOfInsertOrder(t *testing.T) {
	store := newMemStore(t)

	trA := New(common.Hash{}, store)
	require.NoError(t, trA.Set([]byte("k1"), []byte("v1")))
	require.NoError(t, trA.Set([]byte("k2"), []byte("v2")))
	require.NoError(t, trA.Set([]byte("k3"), []byte("v3")))
	hashA, err := trA.Hash()
	require.NoError(t, err)

	trB := New(common.Hash{}, store)
	require.NoError(t, trB.Set([]byte("k3"), []byte("v3")))
	require.NoError(t, trB.Set([]byte("k1"), []byte("v1")))
	require.NoError(t, trB.Set([]byte("k2"), []byte("v2")))
	hashB, err := trB.Hash()
	require.NoError(t, err)

	require.Equal(t, hashA, hashB)
}

func TestTrieDeleteCollapsesToEmptyRoot(t *testing.T) {
	store := newMemStore(t)
	tr := New(common.Hash{}, store)

	require.NoError(t, tr.Set([]byte("only"), []byte("value")))
	require.NoError(t, tr.Delete([]byte("only")))

	h, err := tr.Hash()
	require.NoError(t, err)
	require.Equal(t, common.EmptyTrieRoot, h)

	v, err := tr.Get([]byte("only"))
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestTriePersistAndReopen(t *testing.T) {
	store := newMemStore(t)
	tr := New(common.Hash{}, store)
	require.NoError(t, tr.Set([]byte("persisted-key"), []byte("persisted-value")))

	root, err := tr.Commit()
	require.NoError(t, err)
	require.NoError(t, tr.Persist())

	reopened := New(root, store)
	v, err := reopened.Get([]byte("persisted-key"))
	require.NoError(t, err)
	require.Equal(t, []byte("persisted-value"), v)
}

func TestTrieMissingNodeError(t *testing.T) {
	store := newMemStore(t)
	tr := New(common.Hash{}, store)
	require.NoError(t, tr.Set([]byte("a-long-enough-key-to-force-hashing"), []byte("a-long-enough-value-to-force-hashing-too")))
	root, err := tr.Commit()
	require.NoError(t, err)

	// Deliberately don't Persist: reopening at root should fail to resolve.
	reopened := New(root, store)
	_, err = reopened.Get([]byte("a-long-enough-key-to-force-hashing"))
	require.Error(t, err)
	var missing ErrMissingNode
	require.ErrorAs(t, err, &missing)
}
