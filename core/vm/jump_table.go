package vm

// jumpTable is the opcode dispatch table: a map keyed by the opcode byte
// that holds only the defined opcodes, not a dense 256-entry array; a byte
// with no entry is an invalid opcode. Built once at init time; entries are
// never mutated afterward.
var jumpTable = map[OpCode]instruction{}

func bounds(pops, pushes int) (min, max int) {
	return pops, stackLimit - pushes + pops
}

func register(op OpCode, exec func(pc *uint64, s *scope) ([]byte, error), constGas uint64, pops, pushes int, mem func(s *scope) (uint64, bool), writes bool) {
	min, max := bounds(pops, pushes)
	jumpTable[op] = instruction{execute: exec, constGas: constGas, minStack: min, maxStack: max, memorySize: mem, writes: writes}
}

func init() {
	register(STOP, opStop, 0, 0, 0, nil, false)
	register(ADD, opAdd, GasFastestStep, 2, 1, nil, false)
	register(MUL, opMul, GasFastStep, 2, 1, nil, false)
	register(SUB, opSub, GasFastestStep, 2, 1, nil, false)
	register(DIV, opDiv, GasFastStep, 2, 1, nil, false)
	register(SDIV, opSdiv, GasFastStep, 2, 1, nil, false)
	register(MOD, opMod, GasFastStep, 2, 1, nil, false)
	register(SMOD, opSmod, GasFastStep, 2, 1, nil, false)
	register(ADDMOD, opAddmod, GasMidStep, 3, 1, nil, false)
	register(MULMOD, opMulmod, GasMidStep, 3, 1, nil, false)
	register(EXP, opExp, GasExp, 2, 1, nil, false)
	register(SIGNEXTEND, opSignExtend, GasFastStep, 2, 1, nil, false)

	register(LT, opLt, GasFastestStep, 2, 1, nil, false)
	register(GT, opGt, GasFastestStep, 2, 1, nil, false)
	register(SLT, opSlt, GasFastestStep, 2, 1, nil, false)
	register(SGT, opSgt, GasFastestStep, 2, 1, nil, false)
	register(EQ, opEq, GasFastestStep, 2, 1, nil, false)
	register(ISZERO, opIszero, GasFastestStep, 1, 1, nil, false)
	register(AND, opAnd, GasFastestStep, 2, 1, nil, false)
	register(OR, opOr, GasFastestStep, 2, 1, nil, false)
	register(XOR, opXor, GasFastestStep, 2, 1, nil, false)
	register(NOT, opNot, GasFastestStep, 1, 1, nil, false)
	register(BYTE, opByte, GasFastestStep, 2, 1, nil, false)
	register(SHL, opShl, GasFastestStep, 2, 1, nil, false)
	register(SHR, opShr, GasFastestStep, 2, 1, nil, false)
	register(SAR, opSar, GasFastestStep, 2, 1, nil, false)

	register(SHA3, opSha3, GasSha3, 2, 1, memSizeRange(0, 1), false)

	register(ADDRESS, opAddress, GasQuickStep, 0, 1, nil, false)
	register(BALANCE, opBalance, 0, 1, 1, nil, false)
	register(ORIGIN, opOrigin, GasQuickStep, 0, 1, nil, false)
	register(CALLER, opCaller, GasQuickStep, 0, 1, nil, false)
	register(CALLVALUE, opCallValue, GasQuickStep, 0, 1, nil, false)
	register(CALLDATALOAD, opCallDataLoad, GasFastestStep, 1, 1, nil, false)
	register(CALLDATASIZE, opCallDataSize, GasQuickStep, 0, 1, nil, false)
	register(CALLDATACOPY, opCallDataCopy, GasFastestStep, 3, 0, memSizeRange(0, 2), false)
	register(CODESIZE, opCodeSize, GasQuickStep, 0, 1, nil, false)
	register(CODECOPY, opCodeCopy, GasFastestStep, 3, 0, memSizeRange(0, 2), false)
	register(GASPRICE, opGasprice, GasQuickStep, 0, 1, nil, false)
	register(EXTCODESIZE, opExtCodeSize, 0, 1, 1, nil, false)
	register(EXTCODECOPY, opExtCodeCopy, 0, 4, 0, memSizeRange(1, 3), false)
	register(RETURNDATASIZE, opReturnDataSize, GasQuickStep, 0, 1, nil, false)
	register(RETURNDATACOPY, opReturnDataCopy, GasFastestStep, 3, 0, memSizeRange(0, 2), false)
	register(EXTCODEHASH, opExtCodeHash, 0, 1, 1, nil, false)

	register(BLOCKHASH, opBlockhash, GasExtStep, 1, 1, nil, false)
	register(COINBASE, opCoinbase, GasQuickStep, 0, 1, nil, false)
	register(TIMESTAMP, opTimestamp, GasQuickStep, 0, 1, nil, false)
	register(NUMBER, opNumber, GasQuickStep, 0, 1, nil, false)
	register(DIFFICULTY, opDifficulty, GasQuickStep, 0, 1, nil, false)
	register(GASLIMIT, opGasLimit, GasQuickStep, 0, 1, nil, false)
	register(CHAINID, opChainID, GasQuickStep, 0, 1, nil, false)
	register(SELFBALANCE, opSelfBalance, GasFastStep, 0, 1, nil, false)
	register(BASEFEE, opBaseFee, GasQuickStep, 0, 1, nil, false)

	register(POP, opPop, GasQuickStep, 1, 0, nil, false)
	register(MLOAD, opMload, GasFastestStep, 1, 1, memSize1(0), false)
	register(MSTORE, opMstore, GasFastestStep, 2, 0, memSize1(0), false)
	register(MSTORE8, opMstore8, GasFastestStep, 2, 0, memSizeByte(0), false)
	register(SLOAD, opSload, 0, 1, 1, nil, false)
	register(SSTORE, opSstore, 0, 2, 0, nil, true)
	register(JUMP, opJump, GasMidStep, 1, 0, nil, false)
	register(JUMPI, opJumpi, GasSlowStep, 2, 0, nil, false)
	register(PC, opPc, GasQuickStep, 0, 1, nil, false)
	register(MSIZE, opMsize, GasQuickStep, 0, 1, nil, false)
	register(GAS, opGas, GasQuickStep, 0, 1, nil, false)
	register(JUMPDEST, opJumpdest, GasJumpdest, 0, 0, nil, false)
	register(PUSH0, opPush0, GasQuickStep, 0, 1, nil, false)

	for n := 1; n <= 32; n++ {
		op := PUSH1 + OpCode(n-1)
		register(op, makePush(uint64(n)), GasFastestStep, 0, 1, nil, false)
	}
	for n := 1; n <= 16; n++ {
		op := DUP1 + OpCode(n-1)
		register(op, makeDup(n), GasFastestStep, n, n+1, nil, false)
	}
	for n := 1; n <= 16; n++ {
		op := SWAP1 + OpCode(n-1)
		register(op, makeSwap(n), GasFastestStep, n+1, n+1, nil, false)
	}
	for n := 0; n <= 4; n++ {
		op := LOG0 + OpCode(n)
		register(op, makeLog(n), GasLog, 2+n, 0, memSizeRange(0, 1), true)
	}

	register(CREATE, opCreate, GasCreate, 3, 1, memSizeRange(1, 2), true)
	register(CALL, opCall, 0, 7, 1, memSizeCallNoValue(3, 4, 5, 6), false)
	register(CALLCODE, opCallCode, 0, 7, 1, memSizeCallNoValue(3, 4, 5, 6), false)
	register(RETURN, opReturn, 0, 2, 0, memSizeRange(0, 1), false)
	register(DELEGATECALL, opDelegateCall, 0, 6, 1, memSizeCallNoValue(2, 3, 4, 5), false)
	register(CREATE2, opCreate2, GasCreate, 4, 1, memSizeRange(1, 2), true)
	register(STATICCALL, opStaticCall, 0, 6, 1, memSizeCallNoValue(2, 3, 4, 5), false)
	register(REVERT, opRevert, 0, 2, 0, memSizeRange(0, 1), false)
	register(INVALID, opInvalid, 0, 0, 0, nil, false)
	register(SELFDESTRUCT, opSelfdestruct, 0, 1, 0, nil, true)
}
