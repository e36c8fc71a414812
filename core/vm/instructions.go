package vm

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/crypto"
)

// Control-flow sentinels: STOP/RETURN/REVERT unwind the interpreter loop by
// returning one of these through the normal error channel, matching the
// teacher's convention of repurposing the execution error return for
// non-error halts.
var (
	errStop   = errors.New("stop")
	errReturn = errors.New("return")
	errRevert = errors.New("revert")
)

func opAdd(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	y.Add(&x, y)
	return nil, nil
}

func opMul(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	y.Mul(&x, y)
	return nil, nil
}

func opSub(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	y.Sub(&x, y)
	return nil, nil
}

func opDiv(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	y.Div(&x, y)
	return nil, nil
}

func opSdiv(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	y.SDiv(&x, y)
	return nil, nil
}

func opMod(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	y.SMod(&x, y)
	return nil, nil
}

func opAddmod(pc *uint64, s *scope) ([]byte, error) {
	x, y, z := s.stack.pop(), s.stack.pop(), s.stack.peek()
	if z.IsZero() {
		z.Clear()
	} else {
		z.AddMod(&x, &y, z)
	}
	return nil, nil
}

func opMulmod(pc *uint64, s *scope) ([]byte, error) {
	x, y, z := s.stack.pop(), s.stack.pop(), s.stack.peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}

func opExp(pc *uint64, s *scope) ([]byte, error) {
	base, exponent := s.stack.pop(), s.stack.peek()
	byteLen := (exponent.BitLen() + 7) / 8
	if !s.contract.useGas(uint64(byteLen) * GasExpByte) {
		return nil, ErrOutOfGas
	}
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, s *scope) ([]byte, error) {
	back, num := s.stack.pop(), s.stack.peek()
	num.ExtendSign(num, &back)
	return nil, nil
}

func opLt(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIszero(pc *uint64, s *scope) ([]byte, error) {
	x := s.stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, s *scope) ([]byte, error) {
	x, y := s.stack.pop(), s.stack.peek()
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, s *scope) ([]byte, error) {
	x := s.stack.peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, s *scope) ([]byte, error) {
	th, val := s.stack.pop(), s.stack.peek()
	val.Byte(&th)
	return nil, nil
}

func opShl(pc *uint64, s *scope) ([]byte, error) {
	shift, value := s.stack.pop(), s.stack.peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opShr(pc *uint64, s *scope) ([]byte, error) {
	shift, value := s.stack.pop(), s.stack.peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSar(pc *uint64, s *scope) ([]byte, error) {
	shift, value := s.stack.pop(), s.stack.peek()
	if shift.GtUint64(256) {
		if value.Sign() < 0 {
			value.SetAllOne()
		} else {
			value.Clear()
		}
		return nil, nil
	}
	n := uint(shift.Uint64())
	value.SRsh(value, n)
	return nil, nil
}

func opSha3(pc *uint64, s *scope) ([]byte, error) {
	offset, size := s.stack.pop(), s.stack.peek()
	data := s.memory.GetPtr(offset.Uint64(), size.Uint64())
	words := memoryWordCount(size.Uint64())
	if !s.contract.useGas(GasSha3Word * words) {
		return nil, ErrOutOfGas
	}
	hash := crypto.Keccak256(data)
	size.SetBytes(hash)
	return nil, nil
}

func opAddress(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(new(uint256.Int).SetBytes(s.contract.Address[:]))
	return nil, nil
}

func opBalance(pc *uint64, s *scope) ([]byte, error) {
	slot := s.stack.peek()
	addr := common.BytesToAddress(slot.Bytes())
	if !chargeAccess(s, addr) {
		return nil, ErrOutOfGas
	}
	bal := s.evm.StateDB.GetBalance(addr)
	slot.SetBytes(bal)
	return nil, nil
}

func opOrigin(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(new(uint256.Int).SetBytes(s.evm.TxContext.Origin[:]))
	return nil, nil
}

func opCaller(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(new(uint256.Int).SetBytes(s.contract.CallerAddress[:]))
	return nil, nil
}

func opCallValue(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(new(uint256.Int).Set(s.contract.Value()))
	return nil, nil
}

func opCallDataLoad(pc *uint64, s *scope) ([]byte, error) {
	x := s.stack.peek()
	x.SetBytes(getData(s.contract.Input, x.Uint64(), 32))
	return nil, nil
}

func opCallDataSize(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(u256(uint64(len(s.contract.Input))))
	return nil, nil
}

func opCallDataCopy(pc *uint64, s *scope) ([]byte, error) {
	memOffset, dataOffset, length := s.stack.pop(), s.stack.pop(), s.stack.pop()
	data := getData(s.contract.Input, dataOffset.Uint64(), length.Uint64())
	s.memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opCodeSize(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(u256(uint64(len(s.contract.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, s *scope) ([]byte, error) {
	memOffset, codeOffset, length := s.stack.pop(), s.stack.pop(), s.stack.pop()
	data := getData(s.contract.Code, codeOffset.Uint64(), length.Uint64())
	if !s.contract.useGas(GasSha3Word * memoryWordCount(length.Uint64())) {
		return nil, ErrOutOfGas
	}
	s.memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opGasprice(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(new(uint256.Int))
	return nil, nil
}

func opExtCodeSize(pc *uint64, s *scope) ([]byte, error) {
	slot := s.stack.peek()
	addr := common.BytesToAddress(slot.Bytes())
	if !chargeAccess(s, addr) {
		return nil, ErrOutOfGas
	}
	slot.SetUint64(uint64(len(s.evm.StateDB.GetCode(addr))))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, s *scope) ([]byte, error) {
	addrWord := s.stack.pop()
	memOffset, codeOffset, length := s.stack.pop(), s.stack.pop(), s.stack.pop()
	addr := common.BytesToAddress(addrWord.Bytes())
	if !chargeAccess(s, addr) {
		return nil, ErrOutOfGas
	}
	code := s.evm.StateDB.GetCode(addr)
	data := getData(code, codeOffset.Uint64(), length.Uint64())
	if !s.contract.useGas(GasSha3Word * memoryWordCount(length.Uint64())) {
		return nil, ErrOutOfGas
	}
	s.memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opReturnDataSize(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(u256(uint64(len(s.evm.returnData))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, s *scope) ([]byte, error) {
	memOffset, dataOffset, length := s.stack.pop(), s.stack.pop(), s.stack.pop()
	end := new(uint256.Int).Add(&dataOffset, &length)
	if !end.IsUint64() || uint64(len(s.evm.returnData)) < end.Uint64() {
		return nil, ErrReturnDataOutOfBounds
	}
	s.memory.Set(memOffset.Uint64(), length.Uint64(), s.evm.returnData[dataOffset.Uint64():end.Uint64()])
	return nil, nil
}

func opExtCodeHash(pc *uint64, s *scope) ([]byte, error) {
	slot := s.stack.peek()
	addr := common.BytesToAddress(slot.Bytes())
	if !chargeAccess(s, addr) {
		return nil, ErrOutOfGas
	}
	if s.evm.StateDB.AccountIsEmpty(addr) {
		slot.Clear()
		return nil, nil
	}
	slot.SetBytes(s.evm.StateDB.GetCodeHash(addr).Bytes())
	return nil, nil
}

func opBlockhash(pc *uint64, s *scope) ([]byte, error) {
	num := s.stack.peek()
	if s.evm.Context.GetHash == nil || !num.IsUint64() {
		num.Clear()
		return nil, nil
	}
	n := num.Uint64()
	if n >= s.evm.Context.BlockNumber || n+256 < s.evm.Context.BlockNumber {
		num.Clear()
		return nil, nil
	}
	num.SetBytes(s.evm.Context.GetHash(n).Bytes())
	return nil, nil
}

func opCoinbase(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(new(uint256.Int).SetBytes(s.evm.Context.Coinbase[:]))
	return nil, nil
}

func opTimestamp(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(u256(s.evm.Context.Time))
	return nil, nil
}

func opNumber(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(u256(s.evm.Context.BlockNumber))
	return nil, nil
}

func opDifficulty(pc *uint64, s *scope) ([]byte, error) {
	d := new(uint256.Int)
	if s.evm.Context.Difficulty != nil {
		d.SetFromBig(s.evm.Context.Difficulty)
	}
	s.stack.push(d)
	return nil, nil
}

func opGasLimit(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(u256(s.evm.Context.GasLimit))
	return nil, nil
}

func opChainID(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(new(uint256.Int))
	return nil, nil
}

func opSelfBalance(pc *uint64, s *scope) ([]byte, error) {
	bal := s.evm.StateDB.GetBalance(s.contract.Address)
	s.stack.push(new(uint256.Int).SetBytes(bal))
	return nil, nil
}

func opBaseFee(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(new(uint256.Int))
	return nil, nil
}

func opPop(pc *uint64, s *scope) ([]byte, error) {
	s.stack.pop()
	return nil, nil
}

func opMload(pc *uint64, s *scope) ([]byte, error) {
	offset := s.stack.peek()
	offset.SetBytes(s.memory.GetPtr(offset.Uint64(), 32))
	return nil, nil
}

func opMstore(pc *uint64, s *scope) ([]byte, error) {
	mStart, val := s.stack.pop(), s.stack.pop()
	s.memory.Set32(mStart.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, s *scope) ([]byte, error) {
	off, val := s.stack.pop(), s.stack.pop()
	s.memory.Resize(off.Uint64() + 1)
	s.memory.store[off.Uint64()] = byte(val.Uint64())
	return nil, nil
}

func opSload(pc *uint64, s *scope) ([]byte, error) {
	loc := s.stack.peek()
	key := common.Hash(loc.Bytes32())
	addr := s.contract.Address
	if s.evm.StateDB.MarkStorageWarm(addr, key) {
		if !s.contract.useGas(ColdSloadCost) {
			return nil, ErrOutOfGas
		}
	} else {
		if !s.contract.useGas(WarmStorageReadCost) {
			return nil, ErrOutOfGas
		}
	}
	val := s.evm.StateDB.GetStorage(addr, key)
	loc.SetBytes(val[:])
	return nil, nil
}

func opSstore(pc *uint64, s *scope) ([]byte, error) {
	loc, val := s.stack.pop(), s.stack.pop()
	key := common.Hash(loc.Bytes32())
	addr := s.contract.Address

	if s.evm.StateDB.MarkStorageWarm(addr, key) {
		if !s.contract.useGas(ColdSloadCost) {
			return nil, ErrOutOfGas
		}
	}

	current := s.evm.StateDB.GetStorage(addr, key)
	newVal := common.Hash(val.Bytes32())

	var cost uint64
	switch {
	case current == newVal:
		cost = WarmStorageReadCost
	case current.IsZero():
		cost = SstoreSetGas
	case newVal.IsZero():
		cost = SstoreResetGas
		s.evm.StateDB.AddRefund(SstoreClearRefund)
	default:
		cost = SstoreResetGas
	}
	if !s.contract.useGas(cost) {
		return nil, ErrOutOfGas
	}
	s.evm.StateDB.SetStorage(addr, key, newVal)
	return nil, nil
}

func opJump(pc *uint64, s *scope) ([]byte, error) {
	dest := s.stack.pop()
	if !dest.IsUint64() || !s.contract.validJumpdest(dest.Uint64()) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64() - 1 // interpreter loop increments pc after execute
	return nil, nil
}

func opJumpi(pc *uint64, s *scope) ([]byte, error) {
	dest, cond := s.stack.pop(), s.stack.pop()
	if cond.IsZero() {
		return nil, nil
	}
	if !dest.IsUint64() || !s.contract.validJumpdest(dest.Uint64()) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64() - 1
	return nil, nil
}

func opPc(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(u256(*pc))
	return nil, nil
}

func opMsize(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(u256(uint64(s.memory.Len())))
	return nil, nil
}

func opGas(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(u256(s.contract.Gas))
	return nil, nil
}

func opJumpdest(pc *uint64, s *scope) ([]byte, error) { return nil, nil }

func opPush0(pc *uint64, s *scope) ([]byte, error) {
	s.stack.push(new(uint256.Int))
	return nil, nil
}

func makePush(size uint64) func(pc *uint64, s *scope) ([]byte, error) {
	return func(pc *uint64, s *scope) ([]byte, error) {
		start := *pc + 1
		data := getData(s.contract.Code, start, size)
		s.stack.push(new(uint256.Int).SetBytes(data))
		*pc += size
		return nil, nil
	}
}

func makeDup(n int) func(pc *uint64, s *scope) ([]byte, error) {
	return func(pc *uint64, s *scope) ([]byte, error) {
		s.stack.dup(n)
		return nil, nil
	}
}

func makeSwap(n int) func(pc *uint64, s *scope) ([]byte, error) {
	return func(pc *uint64, s *scope) ([]byte, error) {
		s.stack.swap(n)
		return nil, nil
	}
}

func makeLog(n int) func(pc *uint64, s *scope) ([]byte, error) {
	return func(pc *uint64, s *scope) ([]byte, error) {
		mStart, mSize := s.stack.pop(), s.stack.pop()
		topics := make([]common.Hash, n)
		for i := 0; i < n; i++ {
			t := s.stack.pop()
			topics[i] = common.Hash(t.Bytes32())
		}
		data := s.memory.GetCopy(mStart.Uint64(), mSize.Uint64())
		cost := uint64(n)*GasLogTopic + mSize.Uint64()*GasLogData
		if !s.contract.useGas(cost) {
			return nil, ErrOutOfGas
		}
		s.evm.appendLog(s.contract.Address, topics, data)
		return nil, nil
	}
}

func opCreate(pc *uint64, s *scope) ([]byte, error) {
	return execCreate(pc, s, false)
}

func opCreate2(pc *uint64, s *scope) ([]byte, error) {
	return execCreate(pc, s, true)
}

func execCreate(pc *uint64, s *scope, isCreate2 bool) ([]byte, error) {
	value, offset, size := s.stack.pop(), s.stack.pop(), s.stack.pop()
	var salt uint256.Int
	if isCreate2 {
		salt = s.stack.pop()
	}
	input := s.memory.GetCopy(offset.Uint64(), size.Uint64())

	initWords := memoryWordCount(size.Uint64())
	if !s.contract.useGas(InitCodeWordGas * initWords) {
		return nil, ErrOutOfGas
	}

	gas := callGas(s.contract.Gas, s.contract.Gas)
	s.contract.useGas(gas)

	var (
		ret  []byte
		addr common.Address
		err  error
	)
	if isCreate2 {
		ret, addr, gas, err = s.evm.Create2(s.contract.Address, input, gas, &value, &salt)
	} else {
		ret, addr, gas, err = s.evm.Create(s.contract.Address, input, gas, &value)
	}
	s.contract.Gas += gas

	result := new(uint256.Int)
	if err == nil {
		result.SetBytes(addr[:])
	}
	s.evm.returnData = ret
	s.stack.push(result)
	return nil, nil
}

func opCall(pc *uint64, s *scope) ([]byte, error) {
	return execCall(pc, s, callKindCall)
}

func opCallCode(pc *uint64, s *scope) ([]byte, error) {
	return execCall(pc, s, callKindCallCode)
}

func opDelegateCall(pc *uint64, s *scope) ([]byte, error) {
	return execCall(pc, s, callKindDelegateCall)
}

func opStaticCall(pc *uint64, s *scope) ([]byte, error) {
	return execCall(pc, s, callKindStaticCall)
}

func execCall(pc *uint64, s *scope, kind callKind) ([]byte, error) {
	gasWord := s.stack.pop()
	addrWord := s.stack.pop()
	var value uint256.Int
	if kind == callKindCall || kind == callKindCallCode {
		value = s.stack.pop()
	}
	inOffset, inSize := s.stack.pop(), s.stack.pop()
	outOffset, outSize := s.stack.pop(), s.stack.pop()

	addr := common.BytesToAddress(addrWord.Bytes())
	if !chargeAccess(s, addr) {
		return nil, ErrOutOfGas
	}

	input := s.memory.GetCopy(inOffset.Uint64(), inSize.Uint64())

	gas := callGas(s.contract.Gas, gasWord.Uint64())
	if !s.contract.useGas(gas) {
		return nil, ErrOutOfGas
	}
	if value.Sign() != 0 {
		gas += GasCallStipend
	}

	var (
		ret       []byte
		retGas    uint64
		err       error
	)
	switch kind {
	case callKindCall:
		ret, retGas, err = s.evm.Call(s.contract.Address, addr, input, gas, &value)
	case callKindCallCode:
		ret, retGas, err = s.evm.CallCode(s.contract.Address, addr, input, gas, &value)
	case callKindDelegateCall:
		ret, retGas, err = s.evm.DelegateCall(s.contract, addr, input, gas)
	case callKindStaticCall:
		ret, retGas, err = s.evm.StaticCall(s.contract.Address, addr, input, gas)
	}
	s.contract.Gas += retGas
	s.evm.returnData = ret

	result := new(uint256.Int)
	if err == nil {
		result.SetOne()
	}
	s.stack.push(result)

	if len(ret) > 0 {
		s.memory.Set(outOffset.Uint64(), min64(outSize.Uint64(), uint64(len(ret))), ret)
	}
	return nil, nil
}

func opReturn(pc *uint64, s *scope) ([]byte, error) {
	offset, size := s.stack.pop(), s.stack.pop()
	ret := s.memory.GetCopy(offset.Uint64(), size.Uint64())
	return ret, errReturn
}

func opRevert(pc *uint64, s *scope) ([]byte, error) {
	offset, size := s.stack.pop(), s.stack.pop()
	ret := s.memory.GetCopy(offset.Uint64(), size.Uint64())
	return ret, errRevert
}

func opStop(pc *uint64, s *scope) ([]byte, error) {
	return nil, errStop
}

func opInvalid(pc *uint64, s *scope) ([]byte, error) {
	return nil, ErrInvalidOpcode
}

func opSelfdestruct(pc *uint64, s *scope) ([]byte, error) {
	beneficiaryWord := s.stack.pop()
	beneficiary := common.BytesToAddress(beneficiaryWord.Bytes())
	if !chargeAccess(s, beneficiary) {
		return nil, ErrOutOfGas
	}
	// No balance transfer per spec.md §4.3: should_transfer_value is false
	// even for SELFDESTRUCT's implicit beneficiary credit.
	s.evm.StateDB.DeleteAccount(s.contract.Address)
	return nil, errStop
}

// chargeAccess applies EIP-2929 warm/cold pricing for any opcode that
// touches an external address (BALANCE, EXT*, CALL family, SELFDESTRUCT).
func chargeAccess(s *scope, addr common.Address) bool {
	if s.evm.StateDB.MarkAddressWarm(addr) {
		return s.contract.useGas(ColdAccountAccessCost)
	}
	return s.contract.useGas(WarmStorageReadCost)
}

func getData(data []byte, start, size uint64) []byte {
	if start > uint64(len(data)) {
		start = uint64(len(data))
	}
	end := start + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	out := make([]byte, size)
	copy(out, data[start:end])
	return out
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func (evm *EVM) appendLog(addr common.Address, topics []common.Hash, data []byte) {
	evm.pendingLogs = append(evm.pendingLogs, &PendingLog{Address: addr, Topics: topics, Data: data})
}

// PendingLog is one LOG0..LOG4 emission, awaiting the executor to stamp
// transaction/block context before it becomes a types.Log.
type PendingLog struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}
