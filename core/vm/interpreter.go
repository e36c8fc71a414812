package vm

import (
	"github.com/holiman/uint256"
)

// scope bundles the per-call-frame mutable state the instruction functions
// operate on.
type scope struct {
	evm      *EVM
	contract *Contract
	memory   *Memory
	stack    *Stack
	readOnly bool
}

// instruction is one jump-table entry. constGas is the opcode's fixed
// charge. Memory expansion is charged by run, from the size memorySize
// reports, before execute is called; any other size- or access-dependent
// portion (EIP-2929 warm/cold pricing, EXP's per-byte cost, ...) is charged
// by the execute function itself via scope.contract.useGas before it
// touches state.
type instruction struct {
	execute    func(pc *uint64, s *scope) ([]byte, error)
	constGas   uint64
	minStack   int
	maxStack   int
	memorySize func(s *scope) (uint64, bool)
	writes     bool // mutates state; faults in read-only mode
}

// run is the interpreter's main fetch-decode-execute loop for one call
// frame, implementing spec.md §4.3's dispatch-table execution model.
func (evm *EVM) run(contract *Contract, input []byte, readOnly bool) ([]byte, error) {
	s := &scope{
		evm:      evm,
		contract: contract,
		memory:   newMemory(),
		stack:    newStack(),
		readOnly: readOnly,
	}
	contract.Input = input

	var (
		pc  uint64
		ret []byte
		err error
	)

	for {
		op := contract.getOp(pc)
		ins, ok := jumpTable[op]
		if !ok || ins.execute == nil {
			return nil, ErrInvalidOpcode
		}
		if s.stack.len() < ins.minStack {
			return nil, ErrStackUnderflow
		}
		if s.stack.len() > ins.maxStack {
			return nil, ErrStackOverflow
		}
		if readOnly && ins.writes {
			return nil, ErrWriteProtection
		}

		if ins.memorySize != nil {
			size, overflow := ins.memorySize(s)
			if overflow {
				return nil, ErrOutOfGas
			}
			words := memoryWordCount(size)
			if words*32 > uint64(s.memory.Len()) {
				if !contract.useGas(memoryGasCost(memoryWordCount(uint64(s.memory.Len())), words)) {
					return nil, ErrOutOfGas
				}
				s.memory.Resize(words * 32)
			}
		}

		if !contract.useGas(ins.constGas) {
			return nil, ErrOutOfGas
		}

		if evm.Config.Tracer != nil {
			evm.Config.Tracer.CaptureState(pc, op, contract.Gas, ins.constGas, evm.depth, nil)
		}

		ret, err = ins.execute(&pc, s)
		if err != nil {
			switch err {
			case errStop:
				return nil, nil
			case errReturn:
				return ret, nil
			case errRevert:
				return ret, ErrExecutionReverted
			default:
				return nil, err
			}
		}
		pc++
	}
}

func u256(v uint64) *uint256.Int { return new(uint256.Int).SetUint64(v) }
