package vm

import (
	"github.com/holiman/uint256"

	"github.com/veda-chain/veda/common"
)

// Contract is one call frame's execution context: its code, input, and
// remaining gas. The call-frame tree (spec.md §4.3) is the Go call stack of
// nested EVM.Call/Create invocations, each owning its own Contract.
type Contract struct {
	CallerAddress common.Address
	Address       common.Address
	Code          []byte
	CodeHash      common.Hash
	Input         []byte
	value         *uint256.Int
	Gas           uint64

	jumpdests map[uint64]struct{}
}

func newContract(caller, addr common.Address, value *uint256.Int, gas uint64, code []byte, codeHash common.Hash) *Contract {
	c := &Contract{
		CallerAddress: caller,
		Address:       addr,
		Code:          code,
		CodeHash:      codeHash,
		value:         value,
		Gas:           gas,
	}
	c.analyzeJumpdests()
	return c
}

func (c *Contract) Value() *uint256.Int { return c.value }

// analyzeJumpdests performs the single linear scan identifying valid
// JUMPDEST targets, skipping over PUSH immediates so that push data bytes
// that happen to equal 0x5b are never treated as jump targets.
func (c *Contract) analyzeJumpdests() {
	c.jumpdests = make(map[uint64]struct{})
	for pc := uint64(0); pc < uint64(len(c.Code)); pc++ {
		op := OpCode(c.Code[pc])
		if op == JUMPDEST {
			c.jumpdests[pc] = struct{}{}
			continue
		}
		if op.IsPush() {
			pc += uint64(op - PUSH1 + 1)
		}
	}
}

func (c *Contract) validJumpdest(dest uint64) bool {
	if dest >= uint64(len(c.Code)) {
		return false
	}
	_, ok := c.jumpdests[dest]
	return ok
}

func (c *Contract) useGas(amount uint64) bool {
	if c.Gas < amount {
		return false
	}
	c.Gas -= amount
	return true
}

// getOp returns the opcode at pc, or STOP past the end of code.
func (c *Contract) getOp(pc uint64) OpCode {
	if pc >= uint64(len(c.Code)) {
		return STOP
	}
	return OpCode(c.Code[pc])
}
