package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/kvstore"
)

func newTestState(t *testing.T) *StateDB {
	t.Helper()
	store, err := kvstore.Open("", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	st, err := New(common.Hash{}, store)
	require.NoError(t, err)
	return st
}

func TestNonceLazyAccountAndIncrement(t *testing.T) {
	st := newTestState(t)
	addr := common.HexToAddress("0x01")

	require.Equal(t, uint64(0), st.GetNonce(addr))
	st.IncrementNonce(addr)
	require.Equal(t, uint64(1), st.GetNonce(addr))
}

// TestNonceSurvivesRevert covers invariant 9: a nonce bump survives a
// reverted snapshot.
func TestNonceSurvivesRevert(t *testing.T) {
	st := newTestState(t)
	addr := common.HexToAddress("0x01")

	st.IncrementNonce(addr)
	snap := st.Snapshot()
	st.SetCode(addr, []byte{0x60, 0x00})
	st.RevertToSnapshot(snap)

	require.Equal(t, uint64(1), st.GetNonce(addr))
	require.Empty(t, st.GetCode(addr))
}

func TestStorageSetGetAndRevert(t *testing.T) {
	st := newTestState(t)
	addr := common.HexToAddress("0x01")
	slot := common.HexToHash("0x05")

	snap := st.Snapshot()
	st.SetStorage(addr, slot, common.HexToHash("0xaa"))
	require.Equal(t, common.HexToHash("0xaa"), st.GetStorage(addr, slot))

	st.RevertToSnapshot(snap)
	require.Equal(t, common.Hash{}, st.GetStorage(addr, slot))
}

func TestWarmAddressTracking(t *testing.T) {
	st := newTestState(t)
	addr := common.HexToAddress("0x01")

	require.False(t, st.IsAddressWarm(addr))
	firstAccess := st.MarkAddressWarm(addr)
	require.True(t, firstAccess)
	require.True(t, st.IsAddressWarm(addr))

	secondAccess := st.MarkAddressWarm(addr)
	require.False(t, secondAccess)
}

func TestWarmStorageMarksAddressToo(t *testing.T) {
	st := newTestState(t)
	addr := common.HexToAddress("0x01")
	slot := common.HexToHash("0x01")

	st.MarkStorageWarm(addr, slot)
	require.True(t, st.IsAddressWarm(addr))
	require.True(t, st.IsStorageWarm(addr, slot))
}

func TestRefundCapAndSub(t *testing.T) {
	st := newTestState(t)
	st.AddRefund(100)
	st.AddRefund(50)
	require.Equal(t, uint64(150), st.Refund())

	st.SubRefund(200)
	require.Equal(t, uint64(0), st.Refund())
}

func TestAccountIsEmptyAndFinalizeDeletesTouchedEmpty(t *testing.T) {
	st := newTestState(t)
	addr := common.HexToAddress("0x01")

	st.TouchAccount(addr)
	require.True(t, st.AccountIsEmpty(addr))

	st.FinalizeTransaction()
	require.Equal(t, uint64(0), st.GetNonce(addr))
	root, _, err := st.Persist()
	require.NoError(t, err)
	require.Equal(t, common.EmptyTrieRoot, root)
}

// TestEmptyBlockStateRootUnchanged covers invariant 3: no state mutation
// leaves the root identical to the empty trie's root.
func TestEmptyBlockStateRootUnchanged(t *testing.T) {
	st := newTestState(t)
	root, _, err := st.Persist()
	require.NoError(t, err)
	require.Equal(t, common.EmptyTrieRoot, root)
}

func TestPersistRoundTripThroughNewState(t *testing.T) {
	store, err := kvstore.Open("", 0)
	require.NoError(t, err)
	defer store.Close()

	addr := common.HexToAddress("0x42")
	st, err := New(common.Hash{}, store)
	require.NoError(t, err)
	st.SetNonce(addr, 7)
	st.SetCode(addr, []byte{0x60, 0x01, 0x60, 0x02})
	root, _, err := st.Persist()
	require.NoError(t, err)

	reopened, err := New(root, store)
	require.NoError(t, err)
	require.Equal(t, uint64(7), reopened.GetNonce(addr))
	require.Equal(t, []byte{0x60, 0x01, 0x60, 0x02}, reopened.GetCode(addr))
}
