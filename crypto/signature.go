package crypto

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/veda-chain/veda/common"
)

// Ecrecover recovers the 20-byte address that produced the given (v, r, s)
// signature over hash. It is used only by the ecrecover precompile — Veda
// never recovers transaction senders (those are supplied by the verifier).
func Ecrecover(hash [32]byte, v byte, r, s []byte) (common.Address, bool) {
	if v > 3 {
		return common.Address{}, false
	}
	var sig [65]byte
	copy(sig[1:33], leftPad32(r))
	copy(sig[33:65], leftPad32(s))
	sig[0] = v + 27

	pub, _, err := secp256k1.RecoverCompact(sig[:], hash[:])
	if err != nil {
		return common.Address{}, false
	}
	pubBytes := pub.SerializeUncompressed()
	// Skip the 0x04 prefix; address is keccak(pubkey_xy)[12:].
	addr := common.BytesToAddress(Keccak256(pubBytes[1:])[12:])
	return addr, true
}

func leftPad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
