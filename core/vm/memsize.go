package vm

import "github.com/holiman/uint256"

// calcMemSize64 adds an offset+size pair, reporting overflow when the sum
// does not fit in a uint64 so the interpreter can fault with ErrOutOfGas
// instead of wrapping.
func calcMemSize64(off, length *uint256.Int) (uint64, bool) {
	if length.IsZero() {
		return 0, false
	}
	sum := new(uint256.Int).Add(off, length)
	if !sum.IsUint64() {
		return 0, true
	}
	return sum.Uint64(), false
}

func memSize1(idx int) func(s *scope) (uint64, bool) {
	return func(s *scope) (uint64, bool) {
		off := s.stack.back(idx)
		sum := new(uint256.Int).AddUint64(off, 32)
		if !sum.IsUint64() {
			return 0, true
		}
		return sum.Uint64(), false
	}
}

func memSizeByte(idx int) func(s *scope) (uint64, bool) {
	return func(s *scope) (uint64, bool) {
		off := s.stack.back(idx)
		sum := new(uint256.Int).AddUint64(off, 1)
		if !sum.IsUint64() {
			return 0, true
		}
		return sum.Uint64(), false
	}
}

func memSizeRange(offIdx, sizeIdx int) func(s *scope) (uint64, bool) {
	return func(s *scope) (uint64, bool) {
		return calcMemSize64(s.stack.back(offIdx), s.stack.back(sizeIdx))
	}
}

func memSizeCallNoValue(offA, sizeA, offB, sizeB int) func(s *scope) (uint64, bool) {
	return func(s *scope) (uint64, bool) {
		a, overflowA := calcMemSize64(s.stack.back(offA), s.stack.back(sizeA))
		if overflowA {
			return 0, true
		}
		b, overflowB := calcMemSize64(s.stack.back(offB), s.stack.back(sizeB))
		if overflowB {
			return 0, true
		}
		if a > b {
			return a, false
		}
		return b, false
	}
}
