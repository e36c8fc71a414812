package core

import (
	"github.com/holiman/uint256"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/state"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/core/vm"
	"github.com/veda-chain/veda/crypto"
)

// IntrinsicGas computes the fixed pre-execution cost of tx, per spec.md
// §4.4: GAS_TX plus a per-byte charge for its data, plus GAS_TXCREATE for a
// contract-creation transaction. Grounded on the teacher's
// core/tx_executor.go intrinsic-gas accounting, adapted to Veda's
// signature-free transaction shape.
func IntrinsicGas(tx *types.Transaction) uint64 {
	gas := vm.GasTx
	zero, nonzero := tx.DataZeroNonZeroCounts()
	gas += zero*vm.GasTxDataZero + nonzero*vm.GasTxDataNonZero
	if tx.IsCreate() {
		gas += vm.GasTxCreate
	}
	return gas
}

// Executor applies one transaction at a time against a shared StateDB and
// BlockContext, per spec.md §4.4. One Executor instance is reused across
// every transaction in a block so cumulative gas accounting is trivial to
// thread through.
type Executor struct {
	State    *state.StateDB
	Block    vm.BlockContext
	VMConfig vm.Config
}

// NewExecutor constructs an Executor bound to state and a block context.
func NewExecutor(st *state.StateDB, blockCtx vm.BlockContext, cfg vm.Config) *Executor {
	return &Executor{State: st, Block: blockCtx, VMConfig: cfg}
}

// ApplyTransaction runs tx to completion and returns its receipt, per
// spec.md §4.4 steps (a)-(h). A returned *ValidationError means tx must be
// dropped from the block entirely (spec.md §7); any other returned error is
// a VMError surfaced only for logging, since those instead produce a
// failure receipt and ARE included in the block (so the error return value
// here is always either *ValidationError or nil — a VM-level failure is
// folded into receipt.Status, never propagated as a Go error).
func (e *Executor) ApplyTransaction(tx *types.Transaction, cumulativeGasUsed uint64) (*types.Receipt, error) {
	sender := tx.VedaSender
	e.State.ResetRefund()

	if tx.Nonce != e.State.GetNonce(sender) {
		return nil, &ValidationError{Reason: "nonce mismatch"}
	}

	intrinsic := IntrinsicGas(tx)
	if tx.GasLimit < intrinsic {
		return nil, &ValidationError{Reason: "intrinsic gas exceeds gas limit"}
	}

	// Step (b): increment sender nonce. This happens before the snapshot
	// taken around the call/create below, so per spec.md invariant 9 the
	// bump survives a reverted computation.
	e.State.IncrementNonce(sender)

	e.State.MarkAddressWarm(sender)
	var to common.Address
	if !tx.IsCreate() {
		to = *tx.To
		e.State.MarkAddressWarm(to)
	}

	evmInst := vm.NewEVM(e.Block, vm.TxContext{Origin: sender}, e.State, e.VMConfig)
	gasRemaining := tx.GasLimit - intrinsic

	var (
		vmErr           error
		contractAddress common.Address
	)
	zeroValue := new(uint256.Int)
	if tx.IsCreate() {
		// Step (c): create_address = keccak(RLP(sender, nonce-1))[12:], using
		// the NOW-incremented nonce minus one, i.e. the original tx.Nonce.
		contractAddress = crypto.CreateAddress(sender, tx.Nonce)
		_, gasRemaining, vmErr = evmInst.CreateAccount(sender, contractAddress, tx.Data, gasRemaining, zeroValue)
	} else {
		_, gasRemaining, vmErr = evmInst.Call(sender, to, tx.Data, gasRemaining, zeroValue)
	}

	gasUsed := tx.GasLimit - gasRemaining
	pendingLogs := evmInst.TakeLogs()

	var (
		status uint64
		logs   []*types.Log
	)
	if vmErr != nil {
		// Step (f)/§7: VM-level error reverts the computation but still
		// produces a failure receipt with full gas consumption; the
		// transaction IS included in the block.
		status = types.ReceiptStatusFailed
		gasUsed = tx.GasLimit
	} else {
		status = types.ReceiptStatusSuccessful

		// Step (f): net gas refund capped at gas_used/2.
		refund := e.State.Refund()
		maxRefund := gasUsed / vm.MaxRefundQuotient
		if refund > maxRefund {
			refund = maxRefund
		}
		gasUsed -= refund

		for _, pl := range pendingLogs {
			logs = append(logs, &types.Log{
				Address: pl.Address,
				Topics:  pl.Topics,
				Data:    pl.Data,
				TxHash:  tx.Hash(),
			})
		}
	}

	// Step (g): delete self-destructed and touched-empty accounts.
	e.State.FinalizeTransaction()

	receipt := &types.Receipt{
		Status:            status,
		CumulativeGasUsed: cumulativeGasUsed + gasUsed,
		Logs:              logs,
		TxHash:            tx.Hash(),
		GasUsed:           gasUsed,
	}
	if tx.IsCreate() && vmErr == nil {
		receipt.ContractAddress = contractAddress
	}
	receipt.Bloom = types.BloomForReceipts([]*types.Receipt{receipt})
	return receipt, nil
}
