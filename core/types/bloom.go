package types

import "github.com/veda-chain/veda/crypto"

// BloomByteLength is the 2048-bit (256-byte) logs bloom carried by every
// header and receipt, per spec.md §3/§6.5.
const BloomByteLength = 256

// Bloom is the fixed-size logs bloom filter.
type Bloom [BloomByteLength]byte

// Add sets the three 11-bit indices derived from keccak(data)'s first 6
// bytes, per spec.md §6.5: for each index pair (byte-pair) take the low 11
// bits and set that bit, big-endian bit numbering within the 2048-bit array.
func (b *Bloom) Add(data []byte) {
	h := crypto.Keccak256(data)
	for i := 0; i < 6; i += 2 {
		bitIdx := (uint(h[i])<<8 | uint(h[i+1])) & 0x7ff
		byteIdx := BloomByteLength - 1 - bitIdx/8
		bitInByte := bitIdx % 8
		b[byteIdx] |= 1 << bitInByte
	}
}

// Test reports whether every bit that Add(data) would set is already set.
func (b Bloom) Test(data []byte) bool {
	var probe Bloom
	probe.Add(data)
	for i := range probe {
		if probe[i]&b[i] != probe[i] {
			return false
		}
	}
	return true
}

// Union ORs other into b in place.
func (b *Bloom) Union(other Bloom) {
	for i := range b {
		b[i] |= other[i]
	}
}

// BloomForReceipts computes the logs bloom over the address and every topic
// of every log across all receipts, per spec.md invariant 4.
func BloomForReceipts(receipts []*Receipt) Bloom {
	var bloom Bloom
	for _, r := range receipts {
		for _, l := range r.Logs {
			bloom.Add(l.Address.Bytes())
			for _, t := range l.Topics {
				bloom.Add(t.Bytes())
			}
		}
	}
	return bloom
}
