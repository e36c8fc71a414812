// Package crypto wraps the hash primitives used throughout Veda: keccak256
// for addresses/trie keys/identities, and secp256k1 recovery for the
// ecrecover precompile.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/veda-chain/veda/common"
)

func init() {
	common.EmptyCodeHash = Keccak256Hash(nil)
	common.EmptyTrieRoot = Keccak256Hash([]byte{0x80})
}

// Keccak256 hashes the concatenation of data using the legacy (pre-NIST)
// Keccak-256 permutation, exactly as Ethereum does.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash is Keccak256 with the result packed into a common.Hash.
func Keccak256Hash(data ...[]byte) common.Hash {
	return common.BytesToHash(Keccak256(data...))
}

// CreateAddress computes the CREATE contract address: keccak(rlp(sender, nonce))[12:].
func CreateAddress(sender common.Address, nonce uint64) common.Address {
	enc := rlpEncodeCreate(sender, nonce)
	return common.BytesToAddress(Keccak256(enc))
}

// CreateAddress2 computes the CREATE2 contract address:
// keccak(0xff ++ sender ++ salt ++ keccak(initcode))[12:].
func CreateAddress2(sender common.Address, salt common.Hash, initCodeHash []byte) common.Address {
	buf := make([]byte, 0, 1+20+32+32)
	buf = append(buf, 0xff)
	buf = append(buf, sender[:]...)
	buf = append(buf, salt[:]...)
	buf = append(buf, initCodeHash...)
	return common.BytesToAddress(Keccak256(buf))
}

// rlpEncodeCreate encodes the (sender, nonce) pair the way RLP would, without
// importing the rlp package (avoids an import cycle: rlp doesn't depend on
// crypto, but keeping CREATE-address math self-contained here mirrors the
// teacher's crypto.CreateAddress, which inlines its own tiny RLP writer).
func rlpEncodeCreate(sender common.Address, nonce uint64) []byte {
	nonceBytes := minimalBigEndian(nonce)

	addrItem := encodeString(sender[:])
	nonceItem := encodeString(nonceBytes)

	payload := append(append([]byte{}, addrItem...), nonceItem...)
	return append(encodeListHeader(len(payload)), payload...)
}

func minimalBigEndian(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	i := 0
	for i < 8 && buf[i] == 0 {
		i++
	}
	return buf[i:]
}

func encodeString(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	if len(b) < 56 {
		return append([]byte{byte(0x80 + len(b))}, b...)
	}
	lenBytes := minimalBigEndian(uint64(len(b)))
	header := append([]byte{byte(0xb7 + len(lenBytes))}, lenBytes...)
	return append(header, b...)
}

func encodeListHeader(payloadLen int) []byte {
	if payloadLen < 56 {
		return []byte{byte(0xc0 + payloadLen)}
	}
	lenBytes := minimalBigEndian(uint64(payloadLen))
	return append([]byte{byte(0xf7 + len(lenBytes))}, lenBytes...)
}
