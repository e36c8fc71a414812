// Package common holds the wire-level identifiers shared across every Veda
// package: 20-byte addresses, 32-byte hashes, and their hex codecs.
package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	AddressLength = 20
	HashLength    = 32
)

// Address is a 20-byte account identifier.
type Address [AddressLength]byte

// Hash is a 32-byte identifier (block hash, tx hash, storage key, trie node key).
type Hash [HashLength]byte

func (a Address) Bytes() []byte { return a[:] }
func (h Hash) Bytes() []byte    { return h[:] }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }
func (h Hash) Hex() string    { return "0x" + hex.EncodeToString(h[:]) }

func (a Address) String() string { return a.Hex() }
func (h Hash) String() string    { return h.Hex() }

func (a Address) IsZero() bool { return a == Address{} }
func (h Hash) IsZero() bool    { return h == Hash{} }

// BytesToAddress left-pads or truncates b to 20 bytes, mirroring the
// teacher's common.BytesToAddress semantics (leftmost bytes are dropped
// when b is too long, i.e. only the trailing 20 bytes are kept).
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// BytesToHash left-pads or truncates b to 32 bytes.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// HexToAddress decodes a "0x"-prefixed (or bare) hex string into an Address.
func HexToAddress(s string) Address { return BytesToAddress(FromHex(s)) }

// HexToHash decodes a "0x"-prefixed (or bare) hex string into a Hash.
func HexToHash(s string) Hash { return BytesToHash(FromHex(s)) }

// FromHex decodes a hex string, tolerating an optional "0x" prefix and an
// odd number of nibbles (left-zero-padded, matching go-ethereum's hexutil).
func FromHex(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// ToHex encodes b as a "0x"-prefixed hex string.
func ToHex(b []byte) string { return "0x" + hex.EncodeToString(b) }

// MustDecodeHex is like FromHex but panics on malformed input; the config
// package's genesis loader uses it to decode account balances.
func MustDecodeHex(s string) []byte {
	b := FromHex(s)
	if b == nil && s != "0x" && s != "" {
		panic(fmt.Sprintf("common: invalid hex literal %q", s))
	}
	return b
}

// EmptyCodeHash is keccak256("") — the code-hash sentinel for accounts
// without contract code. Filled in by the crypto package's init to avoid an
// import cycle (crypto imports common for Hash, not the reverse).
var EmptyCodeHash Hash

// EmptyTrieRoot is the sentinel storage/state root for a trie with no
// entries: keccak256(rlp("")) == keccak256(0x80).
var EmptyTrieRoot Hash
