package vm

// Fixed opcode gas tiers and EIP-derived constants, per spec.md §4.3/§4.4.
const (
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20

	GasSha3       uint64 = 30
	GasSha3Word   uint64 = 6
	GasLogTopic   uint64 = 375
	GasLogData    uint64 = 8
	GasLog        uint64 = 375
	GasCreate     uint64 = 32000
	GasCreateData uint64 = 200 // per deployed byte, named GAS_CODEDEPOSIT in spec.md
	GasCallStipend uint64 = 2300
	GasJumpdest   uint64 = 1
	GasMemory     uint64 = 3
	GasExp        uint64 = 10
	GasExpByte    uint64 = 50

	// EIP-2929 access-list pricing.
	ColdAccountAccessCost uint64 = 2600
	WarmStorageReadCost   uint64 = 100
	ColdSloadCost         uint64 = 2100
	SstoreSetGas          uint64 = 20000
	SstoreResetGas        uint64 = 5000
	SstoreClearRefund     uint64 = 4800

	// EIP-150 63/64ths rule.
	CallGasDenominator uint64 = 64

	// Contract-size and init-code bounds.
	MaxCodeSize     = 24576 // EIP170_CODE_SIZE_LIMIT
	MaxInitCodeSize = 2 * MaxCodeSize
	InitCodeWordGas uint64 = 2

	// Intrinsic gas, per spec.md §4.4.
	GasTx           uint64 = 21000
	GasTxDataZero   uint64 = 4
	GasTxDataNonZero uint64 = 16
	GasTxCreate     uint64 = 32000

	// MaxRefundQuotient caps the post-execution gas refund.
	MaxRefundQuotient uint64 = 2

	// MaxCallDepth bounds the call-frame tree.
	MaxCallDepth = 1024
)

// callGas implements EIP-150: the callee may be forwarded at most
// available - available/64, capped by the amount requested.
func callGas(available, requested uint64) uint64 {
	available -= available / CallGasDenominator
	if requested < available {
		return requested
	}
	return available
}
