package vm

import "github.com/holiman/uint256"

// Memory is the byte-addressable, word-growable scratch space of a call
// frame, charged quadratic gas as it grows per spec.md §4.3.
type Memory struct {
	store []byte
}

func newMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Len() int { return len(m.store) }

// Resize grows the backing slice to at least size bytes, zero-filling the
// new region. Callers must have already charged the associated gas.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) < size {
		m.store = append(m.store, make([]byte, size-uint64(len(m.store)))...)
	}
}

func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	m.Resize(offset + size)
	copy(m.store[offset:offset+size], value)
}

func (m *Memory) Set32(offset uint64, v *uint256.Int) {
	m.Resize(offset + 32)
	b := v.Bytes32()
	copy(m.store[offset:offset+32], b[:])
}

func (m *Memory) GetCopy(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	if uint64(len(m.store)) < offset+size {
		out := make([]byte, size)
		if uint64(len(m.store)) > offset {
			copy(out, m.store[offset:])
		}
		return out
	}
	cpy := make([]byte, size)
	copy(cpy, m.store[offset:offset+size])
	return cpy
}

func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

func (m *Memory) Data() []byte { return m.store }

// memoryWordCount returns ceil(size/32).
func memoryWordCount(size uint64) uint64 {
	return (size + 31) / 32
}

// memoryGasCost is the quadratic memory-expansion cost function:
// 3*words + words^2/512, charged only for growth beyond the current size.
func memoryGasCost(curWords, newWords uint64) uint64 {
	if newWords <= curWords {
		return 0
	}
	newCost := 3*newWords + newWords*newWords/512
	curCost := 3*curWords + curWords*curWords/512
	return newCost - curCost
}
