package vm

import (
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityPrecompileReturnsGasAndCopiesInput(t *testing.T) {
	p := identityContract{}
	input := []byte{1, 2, 3, 4, 5}
	require.Equal(t, uint64(15+3), p.RequiredGas(input))

	out, err := p.Run(input)
	require.NoError(t, err)
	require.Equal(t, input, out)
}

func TestSha256PrecompileMatchesStdlib(t *testing.T) {
	p := sha256Contract{}
	input := []byte("veda")
	want := sha256.Sum256(input)

	out, err := p.Run(input)
	require.NoError(t, err)
	require.Equal(t, want[:], out)
	require.Equal(t, uint64(60+12), p.RequiredGas(input))
}

func TestRipemd160PrecompilePadsTo32Bytes(t *testing.T) {
	p := ripemd160Contract{}
	out, err := p.Run([]byte("veda"))
	require.NoError(t, err)
	require.Len(t, out, 32)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, out[:12])
}

func TestEcrecoverPrecompileRejectsInvalidRecoveryID(t *testing.T) {
	p := ecrecoverContract{}
	input := make([]byte, 128)
	input[63] = 5 // neither 27 nor 28

	out, err := p.Run(input)
	require.NoError(t, err)
	require.Nil(t, out)
}

// TestModexpPrecomputesKnownResult exercises 3^2 mod 5 = 4 (EIP-198 vector
// shape: three 32-byte length words, followed by base/exp/mod of those
// lengths).
func TestModexpPrecomputesKnownResult(t *testing.T) {
	p := modexpContract{}
	input := make([]byte, 96+3)
	input[31] = 1 // baseLen = 1
	input[63] = 1 // expLen = 1
	input[95] = 1 // modLen = 1
	input[96] = 3 // base
	input[97] = 2 // exp
	input[98] = 5 // mod

	out, err := p.Run(input)
	require.NoError(t, err)
	require.Equal(t, []byte{4}, out)
	require.GreaterOrEqual(t, p.RequiredGas(input), uint64(200)) // floor per EIP-2565
}

func TestModexpZeroModulusReturnsZero(t *testing.T) {
	p := modexpContract{}
	input := make([]byte, 96+3)
	input[31], input[63], input[95] = 1, 1, 1
	input[96], input[97], input[98] = 3, 2, 0

	out, err := p.Run(input)
	require.NoError(t, err)
	require.Equal(t, []byte{0}, out)
}

func TestBn256AddRejectsOffCurvePoint(t *testing.T) {
	p := bn256AddContract{}
	input := make([]byte, 128)
	input[31] = 1 // x1=1, y1=0: not on curve y^2=x^3+3

	_, err := p.Run(input)
	require.Error(t, err)
}

func TestBn256AddIdentity(t *testing.T) {
	p := bn256AddContract{}
	input := make([]byte, 128) // (0,0) + (0,0), the curve's point at infinity
	out, err := p.Run(input)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 64), out)
}

func TestBlake2FRejectsWrongInputLength(t *testing.T) {
	p := blake2FContract{}
	_, err := p.Run([]byte{0x00})
	require.Error(t, err)
	require.Equal(t, ^uint64(0), p.RequiredGas([]byte{0x00}))
}

func TestBlake2FRejectsBadFinalFlag(t *testing.T) {
	p := blake2FContract{}
	input := make([]byte, blake2FInputLength)
	input[212] = 2 // must be 0 or 1

	_, err := p.Run(input)
	require.Error(t, err)
}

func TestBn256PairingEmptyInputIsTriviallyTrue(t *testing.T) {
	p := bn256PairingContract{}
	out, err := p.Run(nil)
	require.NoError(t, err)
	want := make([]byte, 32)
	want[31] = 1
	require.Equal(t, want, out)
	require.Equal(t, uint64(45000), p.RequiredGas(nil))
}

func TestRunPrecompileChargesGasAndErrorsOnInsufficientGas(t *testing.T) {
	p := identityContract{}
	input := []byte{1, 2, 3}
	fee := p.RequiredGas(input)

	_, leftover, err := runPrecompile(p, input, fee+10)
	require.NoError(t, err)
	require.Equal(t, uint64(10), leftover)

	_, _, err = runPrecompile(p, input, fee-1)
	require.ErrorIs(t, err, ErrOutOfGas)
}

func TestLeftPadAndInputSliceHelpers(t *testing.T) {
	require.Equal(t, []byte{0, 0, 1}, leftPad([]byte{1}, 3))
	require.Equal(t, []byte{1, 2}, leftPad([]byte{1, 2, 3}, 2))

	require.Equal(t, []byte{2, 3, 0}, inputSlice([]byte{1, 2, 3}, 1, 3))
	require.Equal(t, []byte{0, 0}, inputSlice([]byte{1, 2, 3}, 5, 2))
}

func TestModexpLengthsParsesHeader(t *testing.T) {
	input := make([]byte, 96)
	input[31], input[63], input[95] = 1, 2, 3
	baseLen, expLen, modLen := modexpLengths(input)
	require.Equal(t, big.NewInt(1), baseLen)
	require.Equal(t, big.NewInt(2), expLen)
	require.Equal(t, big.NewInt(3), modLen)
}
