package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/common"
)

func TestKeccak256EmptyString(t *testing.T) {
	// Well-known keccak256("") digest.
	require.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a47", hex.EncodeToString(Keccak256(nil)))
}

func TestEmptyCodeHashMatchesKeccakOfEmptyString(t *testing.T) {
	require.Equal(t, Keccak256Hash(nil), common.EmptyCodeHash)
}

func TestCreateAddressDeterministic(t *testing.T) {
	sender := common.HexToAddress("0x1234567890123456789012345678901234567890")
	a1 := CreateAddress(sender, 0)
	a2 := CreateAddress(sender, 0)
	require.Equal(t, a1, a2)

	a3 := CreateAddress(sender, 1)
	require.NotEqual(t, a1, a3)
}

func TestCreateAddress2Deterministic(t *testing.T) {
	sender := common.HexToAddress("0x1234567890123456789012345678901234567890")
	salt := common.HexToHash("0x01")
	initHash := Keccak256([]byte{0x60, 0x00})

	a1 := CreateAddress2(sender, salt, initHash)
	a2 := CreateAddress2(sender, salt, initHash)
	require.Equal(t, a1, a2)

	a3 := CreateAddress2(sender, common.HexToHash("0x02"), initHash)
	require.NotEqual(t, a1, a3)
}
