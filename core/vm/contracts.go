package vm

// The precompiled contracts at addresses 0x01-0x09, per spec.md §4.3's
// "Precompiles" paragraph. Each implements PrecompiledContract: a gas rule
// computed from input length, and a Run function invoked only once the
// call's forwarded gas covers that fee. Grounded on the teacher's
// dispatcher_goevm.go address->function-pointer dispatch shape, generalized
// from a revm-delegating stub into the actual primitive implementations.
import (
	"crypto/sha256"
	"math/big"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // used only by the precompile at 0x03

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/crypto"
)

// PrecompiledContract is a built-in contract implemented in host code
// rather than bytecode.
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

var precompiles = map[common.Address]PrecompiledContract{
	common.BytesToAddress([]byte{1}): ecrecoverContract{},
	common.BytesToAddress([]byte{2}): sha256Contract{},
	common.BytesToAddress([]byte{3}): ripemd160Contract{},
	common.BytesToAddress([]byte{4}): identityContract{},
	common.BytesToAddress([]byte{5}): modexpContract{},
	common.BytesToAddress([]byte{6}): bn256AddContract{},
	common.BytesToAddress([]byte{7}): bn256ScalarMulContract{},
	common.BytesToAddress([]byte{8}): bn256PairingContract{},
	common.BytesToAddress([]byte{9}): blake2FContract{},
}

// runPrecompile charges the contract's required gas out of the forwarded
// budget and invokes it; gas exhaustion surfaces as ErrOutOfGas exactly like
// a bytecode opcode running out.
func runPrecompile(p PrecompiledContract, input []byte, gas uint64) ([]byte, uint64, error) {
	fee := p.RequiredGas(input)
	if fee > gas {
		return nil, 0, ErrOutOfGas
	}
	ret, err := p.Run(input)
	return ret, gas - fee, err
}

func leftPad(b []byte, n int) []byte {
	if len(b) >= n {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

func inputSlice(input []byte, start, length int) []byte {
	out := make([]byte, length)
	if start >= len(input) {
		return out
	}
	end := start + length
	if end > len(input) {
		end = len(input)
	}
	copy(out, input[start:end])
	return out
}

// --- 0x01 ecrecover ---

type ecrecoverContract struct{}

func (ecrecoverContract) RequiredGas([]byte) uint64 { return 3000 }

func (ecrecoverContract) Run(input []byte) ([]byte, error) {
	in := leftPad(input, 128)
	var hash [32]byte
	copy(hash[:], in[0:32])
	v := in[63]
	r := in[64:96]
	s := in[96:128]

	// v must be 27 or 28; Ecrecover's own range check additionally rejects
	// out-of-range r,s via the underlying secp256k1 library.
	if v != 27 && v != 28 {
		return nil, nil
	}
	addr, ok := crypto.Ecrecover(hash, v-27, r, s)
	if !ok {
		return nil, nil
	}
	out := make([]byte, 32)
	copy(out[12:], addr[:])
	return out, nil
}

// --- 0x02 sha256 ---

type sha256Contract struct{}

func (sha256Contract) RequiredGas(input []byte) uint64 {
	return 60 + 12*uint64((len(input)+31)/32)
}

func (sha256Contract) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// --- 0x03 ripemd160 ---

type ripemd160Contract struct{}

func (ripemd160Contract) RequiredGas(input []byte) uint64 {
	return 600 + 120*uint64((len(input)+31)/32)
}

func (ripemd160Contract) Run(input []byte) ([]byte, error) {
	d := ripemd160.New()
	d.Write(input)
	out := make([]byte, 32)
	copy(out[12:], d.Sum(nil))
	return out, nil
}

// --- 0x04 identity ---

type identityContract struct{}

func (identityContract) RequiredGas(input []byte) uint64 {
	return 15 + 3*uint64((len(input)+31)/32)
}

func (identityContract) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

// --- 0x05 modexp (EIP-2565 pricing) ---

type modexpContract struct{}

func modexpLengths(input []byte) (baseLen, expLen, modLen *big.Int) {
	baseLen = new(big.Int).SetBytes(inputSlice(input, 0, 32))
	expLen = new(big.Int).SetBytes(inputSlice(input, 32, 32))
	modLen = new(big.Int).SetBytes(inputSlice(input, 64, 32))
	return
}

func (modexpContract) RequiredGas(input []byte) uint64 {
	baseLenBig, expLenBig, modLenBig := modexpLengths(input)
	if !baseLenBig.IsUint64() || !expLenBig.IsUint64() || !modLenBig.IsUint64() {
		return ^uint64(0)
	}
	baseLen, expLen, modLen := baseLenBig.Uint64(), expLenBig.Uint64(), modLenBig.Uint64()

	maxLen := baseLen
	if modLen > maxLen {
		maxLen = modLen
	}
	words := (maxLen + 7) / 8
	multComplexity := words * words

	expHead := new(big.Int)
	if uint64(len(input)) > 96+baseLen {
		expHead.SetBytes(inputSlice(input, int(96+baseLen), int(min64(expLen, 32))))
	}
	adjExpLen := uint64(0)
	if expLen > 32 {
		adjExpLen = 8 * (expLen - 32)
	}
	if bitLen := expHead.BitLen(); bitLen > 0 {
		adjExpLen += uint64(bitLen - 1)
	}
	if adjExpLen < 1 {
		adjExpLen = 1
	}

	gas := multComplexity * adjExpLen / 3
	if gas < 200 {
		gas = 200
	}
	return gas
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func (modexpContract) Run(input []byte) ([]byte, error) {
	baseLenBig, expLenBig, modLenBig := modexpLengths(input)
	baseLen, expLen, modLen := int(baseLenBig.Uint64()), int(expLenBig.Uint64()), int(modLenBig.Uint64())

	base := new(big.Int).SetBytes(inputSlice(input, 96, baseLen))
	exp := new(big.Int).SetBytes(inputSlice(input, 96+baseLen, expLen))
	mod := new(big.Int).SetBytes(inputSlice(input, 96+baseLen+expLen, modLen))

	out := make([]byte, modLen)
	if mod.Sign() == 0 {
		return out, nil
	}
	result := new(big.Int).Exp(base, exp, mod)
	resultBytes := result.Bytes()
	copy(out[modLen-len(resultBytes):], resultBytes)
	return out, nil
}

// --- 0x06/0x07/0x08 alt_bn128 ---

type bn256AddContract struct{}

func (bn256AddContract) RequiredGas([]byte) uint64 { return 150 }

func (bn256AddContract) Run(input []byte) ([]byte, error) {
	x1 := new(big.Int).SetBytes(inputSlice(input, 0, 32))
	y1 := new(big.Int).SetBytes(inputSlice(input, 32, 32))
	x2 := new(big.Int).SetBytes(inputSlice(input, 64, 32))
	y2 := new(big.Int).SetBytes(inputSlice(input, 96, 32))

	p1 := &bnPoint{x1, y1}
	p2 := &bnPoint{x2, y2}
	if !bnOnCurve(p1) || !bnOnCurve(p2) {
		return nil, ErrInvalidOpcode
	}
	sum := bnAdd(p1, p2)
	return bnEncode(sum), nil
}

type bn256ScalarMulContract struct{}

func (bn256ScalarMulContract) RequiredGas([]byte) uint64 { return 6000 }

func (bn256ScalarMulContract) Run(input []byte) ([]byte, error) {
	x := new(big.Int).SetBytes(inputSlice(input, 0, 32))
	y := new(big.Int).SetBytes(inputSlice(input, 32, 32))
	k := new(big.Int).SetBytes(inputSlice(input, 64, 32))

	p := &bnPoint{x, y}
	if !bnOnCurve(p) {
		return nil, ErrInvalidOpcode
	}
	return bnEncode(bnScalarMul(p, k)), nil
}

func bnEncode(p *bnPoint) []byte {
	out := make([]byte, 64)
	xb := normalizeMod(p.x).Bytes()
	yb := normalizeMod(p.y).Bytes()
	copy(out[32-len(xb):32], xb)
	copy(out[64-len(yb):64], yb)
	return out
}

type bn256PairingContract struct{}

const bnPairingPairSize = 192

func (bn256PairingContract) RequiredGas(input []byte) uint64 {
	k := uint64(len(input) / bnPairingPairSize)
	return 45000 + k*34000
}

func (bn256PairingContract) Run(input []byte) ([]byte, error) {
	if len(input)%bnPairingPairSize != 0 {
		return nil, ErrInvalidOpcode
	}
	k := len(input) / bnPairingPairSize
	g1s := make([]*bnPoint, k)
	g2s := make([]*twistPoint, k)
	for i := 0; i < k; i++ {
		off := i * bnPairingPairSize
		x := new(big.Int).SetBytes(inputSlice(input, off, 32))
		y := new(big.Int).SetBytes(inputSlice(input, off+32, 32))
		g1s[i] = &bnPoint{x, y}
		if !bnOnCurve(g1s[i]) {
			return nil, ErrInvalidOpcode
		}
		x2i := new(big.Int).SetBytes(inputSlice(input, off+64, 32))
		x2r := new(big.Int).SetBytes(inputSlice(input, off+96, 32))
		y2i := new(big.Int).SetBytes(inputSlice(input, off+128, 32))
		y2r := new(big.Int).SetBytes(inputSlice(input, off+160, 32))
		g2s[i] = &twistPoint{
			x: &gfP2{x2r, x2i},
			y: &gfP2{y2r, y2i},
		}
		if !twistOnCurve(g2s[i]) {
			return nil, ErrInvalidOpcode
		}
	}

	out := make([]byte, 32)
	if pairingCheck(g1s, g2s) {
		out[31] = 1
	}
	return out, nil
}

// --- 0x09 blake2f ---

type blake2FContract struct{}

const blake2FInputLength = 213

func (blake2FContract) RequiredGas(input []byte) uint64 {
	if len(input) != blake2FInputLength {
		return ^uint64(0)
	}
	return uint64(new(big.Int).SetBytes(input[0:4]).Uint64())
}

func (blake2FContract) Run(input []byte) ([]byte, error) {
	if len(input) != blake2FInputLength {
		return nil, ErrInvalidOpcode
	}
	if input[212] != 0 && input[212] != 1 {
		return nil, ErrInvalidOpcode
	}
	rounds := uint32(new(big.Int).SetBytes(input[0:4]).Uint64())

	var h [8]uint64
	for i := 0; i < 8; i++ {
		h[i] = leUint64(input[4+i*8:])
	}
	var m [16]uint64
	for i := 0; i < 16; i++ {
		m[i] = leUint64(input[68+i*8:])
	}
	var t [2]uint64
	t[0] = leUint64(input[196:])
	t[1] = leUint64(input[204:])
	final := input[212] == 1

	blake2b.F(&h, m, t, final, rounds)

	out := make([]byte, 64)
	for i := 0; i < 8; i++ {
		putLeUint64(out[i*8:], h[i])
	}
	return out, nil
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * uint(i))
	}
	return v
}

func putLeUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}
