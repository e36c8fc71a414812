package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/state"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/core/vm"
	"github.com/veda-chain/veda/kvstore"
)

func newTestExecutor(t *testing.T) (*Executor, *state.StateDB) {
	t.Helper()
	store, err := kvstore.Open("", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	st, err := state.New(common.Hash{}, store)
	require.NoError(t, err)
	blockCtx := vm.BlockContext{GasLimit: 30_000_000, BlockNumber: 1}
	return NewExecutor(st, blockCtx, vm.Config{}), st
}

func TestIntrinsicGasAccountsForDataAndCreate(t *testing.T) {
	callTx := &types.Transaction{To: &common.Address{}, Data: []byte{0x00, 0x01}}
	require.Equal(t, vm.GasTx+vm.GasTxDataZero+vm.GasTxDataNonZero, IntrinsicGas(callTx))

	createTx := &types.Transaction{Data: []byte{0x01}}
	require.Equal(t, vm.GasTx+vm.GasTxCreate+vm.GasTxDataNonZero, IntrinsicGas(createTx))
}

func TestApplyTransactionNonceMismatchIsValidationError(t *testing.T) {
	exec, _ := newTestExecutor(t)
	tx := &types.Transaction{Nonce: 1, GasLimit: 100_000, To: &common.Address{}}

	_, err := exec.ApplyTransaction(tx, 0)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestApplyTransactionIntrinsicGasTooLowIsValidationError(t *testing.T) {
	exec, _ := newTestExecutor(t)
	tx := &types.Transaction{GasLimit: 100, To: &common.Address{}}

	_, err := exec.ApplyTransaction(tx, 0)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

// TestApplyTransactionSimpleCallSucceeds exercises spec.md scenario A: a
// call to an existing contract that runs to completion bumps the sender
// nonce and produces a successful receipt.
func TestApplyTransactionSimpleCallSucceeds(t *testing.T) {
	exec, st := newTestExecutor(t)
	sender := common.HexToAddress("0x01")
	target := common.HexToAddress("0x02")
	st.SetCode(target, []byte{0x00}) // STOP

	tx := &types.Transaction{
		GasLimit:   100_000,
		To:         &target,
		VedaSender: sender,
		VedaTxHash: common.HexToHash("0xaa"),
	}

	receipt, err := exec.ApplyTransaction(tx, 0)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	require.Equal(t, uint64(1), st.GetNonce(sender))
	require.Equal(t, tx.Hash(), receipt.TxHash)
	require.Less(t, receipt.GasUsed, tx.GasLimit)
}

// TestApplyTransactionCreateDeploysContract exercises spec.md scenario B:
// a contract-create transaction deploys code at the deterministic
// keccak(sender, nonce) address and stamps receipt.ContractAddress.
func TestApplyTransactionCreateDeploysContract(t *testing.T) {
	exec, st := newTestExecutor(t)
	sender := common.HexToAddress("0x03")

	initCode := []byte{
		0x60, 0x00, // PUSH1 0 (value)
		0x60, 0x00, // PUSH1 0 (offset)
		0x52,       // MSTORE
		0x60, 0x01, // PUSH1 1 (size)
		0x60, 0x00, // PUSH1 0 (offset)
		0xf3, // RETURN
	}
	tx := &types.Transaction{
		GasLimit:   200_000,
		Data:       initCode,
		VedaSender: sender,
		VedaTxHash: common.HexToHash("0xbb"),
	}

	receipt, err := exec.ApplyTransaction(tx, 0)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	require.NotEqual(t, common.Address{}, receipt.ContractAddress)
	require.Equal(t, []byte{0x00}, st.GetCode(receipt.ContractAddress))
}

// TestApplyTransactionFailedCallConsumesFullGas covers spec.md §7: a
// VM-level error still produces an included, failed receipt charged the
// entire gas limit.
func TestApplyTransactionFailedCallConsumesFullGas(t *testing.T) {
	exec, st := newTestExecutor(t)
	sender := common.HexToAddress("0x04")
	target := common.HexToAddress("0x05")
	st.SetCode(target, []byte{0xfe}) // INVALID

	tx := &types.Transaction{
		GasLimit:   50_000,
		To:         &target,
		VedaSender: sender,
		VedaTxHash: common.HexToHash("0xcc"),
	}

	receipt, err := exec.ApplyTransaction(tx, 0)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusFailed, receipt.Status)
	require.Equal(t, tx.GasLimit, receipt.GasUsed)
	require.Equal(t, uint64(1), st.GetNonce(sender))
}

// TestApplyTransactionRefundAppliedButUncapped covers invariant 7's
// below-cap case: clearing one nonzero storage slot is refunded in full.
func TestApplyTransactionRefundAppliedButUncapped(t *testing.T) {
	exec, st := newTestExecutor(t)
	sender := common.HexToAddress("0x06")
	target := common.HexToAddress("0x07")
	// PUSH1 0 (value) PUSH1 0 (key) SSTORE: clears slot 0 to zero.
	st.SetCode(target, []byte{0x60, 0x00, 0x60, 0x00, 0x55})
	st.SetStorage(target, common.Hash{}, common.HexToHash("0x01"))

	tx := &types.Transaction{
		GasLimit:   100_000,
		To:         &target,
		VedaSender: sender,
		VedaTxHash: common.HexToHash("0xdd"),
	}

	receipt, err := exec.ApplyTransaction(tx, 0)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	// raw cost: intrinsic(21000) + 2*PUSH1(3) + cold sload(2100) + reset(5000),
	// minus the uncapped 4800 clear refund.
	require.Equal(t, uint64(21000+6+2100+5000-4800), receipt.GasUsed)
}

// TestApplyTransactionRefundCappedAtHalfGasUsed covers invariant 7's cap:
// clearing ten distinct nonzero slots earns more refund than half of
// gas_used, so the credited refund is capped rather than applied in full.
func TestApplyTransactionRefundCappedAtHalfGasUsed(t *testing.T) {
	exec, st := newTestExecutor(t)
	sender := common.HexToAddress("0x08")
	target := common.HexToAddress("0x09")

	const slots = 10
	var code []byte
	for i := byte(0); i < slots; i++ {
		code = append(code, 0x60, 0x00, 0x60, i, 0x55) // PUSH1 0, PUSH1 i, SSTORE
		var key common.Hash
		key[31] = i
		st.SetStorage(target, key, common.HexToHash("0x01"))
	}
	st.SetCode(target, code)

	tx := &types.Transaction{
		GasLimit:   200_000,
		To:         &target,
		VedaSender: sender,
		VedaTxHash: common.HexToHash("0xee"),
	}

	receipt, err := exec.ApplyTransaction(tx, 0)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	rawGasUsed := uint64(21000 + slots*(6+2100+5000))
	require.Equal(t, rawGasUsed/2, receipt.GasUsed)
}

// TestApplyTransactionRefundDoesNotLeakAcrossTransactions guards the fix
// for a refund counter that must reset per transaction: a second,
// refund-free transaction must not inherit the first transaction's refund.
func TestApplyTransactionRefundDoesNotLeakAcrossTransactions(t *testing.T) {
	exec, st := newTestExecutor(t)
	sender := common.HexToAddress("0x08")
	refunder := common.HexToAddress("0x09")
	plain := common.HexToAddress("0x0a")

	st.SetCode(refunder, []byte{0x60, 0x00, 0x60, 0x00, 0x55})
	st.SetStorage(refunder, common.Hash{}, common.HexToHash("0x01"))
	st.SetCode(plain, []byte{0x00}) // STOP, no storage touched

	tx1 := &types.Transaction{GasLimit: 100_000, To: &refunder, VedaSender: sender, VedaTxHash: common.HexToHash("0x01")}
	r1, err := exec.ApplyTransaction(tx1, 0)
	require.NoError(t, err)

	tx2 := &types.Transaction{Nonce: 1, GasLimit: 100_000, To: &plain, VedaSender: sender, VedaTxHash: common.HexToHash("0x02")}
	r2, err := exec.ApplyTransaction(tx2, r1.CumulativeGasUsed)
	require.NoError(t, err)

	// A lone STOP costs exactly the intrinsic gas; any leaked refund from
	// tx1 would under-report this.
	require.Equal(t, IntrinsicGas(tx2), r2.GasUsed)
	require.Equal(t, uint64(0), st.Refund())
}
