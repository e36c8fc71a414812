package vm

import "github.com/holiman/uint256"

// stackLimit is the maximum stack depth, per spec.md §4.3.
const stackLimit = 1024

// Stack is the 256-bit word stack each call frame owns.
type Stack struct {
	data []uint256.Int
}

func newStack() *Stack {
	return &Stack{data: make([]uint256.Int, 0, 16)}
}

func (st *Stack) push(v *uint256.Int) {
	st.data = append(st.data, *v)
}

func (st *Stack) pop() uint256.Int {
	n := len(st.data) - 1
	v := st.data[n]
	st.data = st.data[:n]
	return v
}

func (st *Stack) len() int { return len(st.data) }

func (st *Stack) peek() *uint256.Int {
	return &st.data[len(st.data)-1]
}

// back returns the n-th element from the top without popping (0-indexed).
func (st *Stack) back(n int) *uint256.Int {
	return &st.data[len(st.data)-1-n]
}

func (st *Stack) swap(n int) {
	top := len(st.data) - 1
	st.data[top], st.data[top-n] = st.data[top-n], st.data[top]
}

func (st *Stack) dup(n int) {
	v := st.data[len(st.data)-n]
	st.data = append(st.data, v)
}
