package vm_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/state"
	"github.com/veda-chain/veda/core/vm"
	"github.com/veda-chain/veda/kvstore"
)

func newTestEVM(t *testing.T) (*vm.EVM, *state.StateDB) {
	t.Helper()
	store, err := kvstore.Open("", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	st, err := state.New(common.Hash{}, store)
	require.NoError(t, err)
	evm := vm.NewEVM(vm.BlockContext{GasLimit: 30_000_000}, vm.TxContext{}, st, vm.Config{})
	return evm, st
}

// TestCallSimpleArithmeticReturnsResult runs PUSH1 2 PUSH1 3 ADD MSTORE
// RETURN and checks the returned word is 5, exercising stack, memory, and
// the RETURN path end-to-end.
func TestCallSimpleArithmeticReturnsResult(t *testing.T) {
	evm, st := newTestEVM(t)
	addr := common.HexToAddress("0x0a")
	code := []byte{
		0x60, 0x02, // PUSH1 2
		0x60, 0x03, // PUSH1 3
		0x01,       // ADD
		0x60, 0x00, // PUSH1 0
		0x52,       // MSTORE
		0x60, 0x20, // PUSH1 32
		0x60, 0x00, // PUSH1 0
		0xf3, // RETURN
	}
	st.SetCode(addr, code)

	caller := common.HexToAddress("0xff")
	ret, _, err := evm.Call(caller, addr, nil, 100_000, new(uint256.Int))
	require.NoError(t, err)

	var want [32]byte
	want[31] = 5
	require.Equal(t, want[:], ret)
}

func TestCallIdentityPrecompile(t *testing.T) {
	evm, _ := newTestEVM(t)
	caller := common.HexToAddress("0xff")
	target := common.BytesToAddress([]byte{4})

	input := []byte{0x12, 0x34}
	ret, leftover, err := evm.Call(caller, target, input, 100_000, new(uint256.Int))
	require.NoError(t, err)
	require.Equal(t, input, ret)
	require.Less(t, leftover, uint64(100_000))
}

func TestCreateDeploysCode(t *testing.T) {
	evm, st := newTestEVM(t)
	caller := common.HexToAddress("0xaa")

	// Init code: MSTORE(0, 0) zero-fills memory[0:32], then returns the
	// single byte at offset 0 — a one-byte STOP-opcode runtime body.
	initCode := []byte{
		0x60, 0x00, // PUSH1 0 (value)
		0x60, 0x00, // PUSH1 0 (offset)
		0x52,       // MSTORE
		0x60, 0x01, // PUSH1 1 (size)
		0x60, 0x00, // PUSH1 0 (offset)
		0xf3, // RETURN
	}
	_, contractAddr, _, err := evm.Create(caller, initCode, 200_000, new(uint256.Int))
	require.NoError(t, err)

	deployed := st.GetCode(contractAddr)
	require.Equal(t, []byte{0x00}, deployed)
}

func TestStaticCallRejectsStorageWrite(t *testing.T) {
	evm, st := newTestEVM(t)
	addr := common.HexToAddress("0x0b")
	// PUSH1 1 PUSH1 0 SSTORE
	code := []byte{0x60, 0x01, 0x60, 0x00, 0x55}
	st.SetCode(addr, code)

	caller := common.HexToAddress("0xff")
	_, _, err := evm.StaticCall(caller, addr, nil, 100_000)
	require.Error(t, err)
}
