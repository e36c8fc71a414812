// Package rlp implements the subset of Recursive Length Prefix encoding Veda
// needs: encoding/decoding of byte strings, unsigned integers, and ordered
// lists of the two, matching Ethereum's canonical minimal-length wire format
// (big-endian integers, no leading zero bytes, shortest-form length prefixes).
package rlp

import (
	"bytes"
	"fmt"
	"io"
)

// Encoder is implemented by any Veda wire type (Header, Transaction,
// Receipt, Account, ...) that knows how to lay itself out as an RLP list.
type Encoder interface {
	EncodeRLP() ([]byte, error)
}

// Decoder is the inverse of Encoder.
type Decoder interface {
	DecodeRLP([]byte) error
}

// EncodeBytes encodes a single RLP byte string.
func EncodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return append([]byte{}, b...)
	}
	if len(b) < 56 {
		out := make([]byte, 0, len(b)+1)
		out = append(out, byte(0x80+len(b)))
		return append(out, b...)
	}
	lenBytes := minimalBigEndian(uint64(len(b)))
	out := make([]byte, 0, len(b)+len(lenBytes)+1)
	out = append(out, byte(0xb7+len(lenBytes)))
	out = append(out, lenBytes...)
	return append(out, b...)
}

// EncodeUint encodes an unsigned integer the canonical way: as a byte string
// with big-endian minimal representation (zero encodes as the empty string).
func EncodeUint(v uint64) []byte {
	return EncodeBytes(minimalBigEndian(v))
}

// EncodeList wraps the already-encoded items as a single RLP list.
func EncodeList(items ...[]byte) []byte {
	payload := bytes.Join(items, nil)
	return append(listHeader(len(payload)), payload...)
}

func listHeader(payloadLen int) []byte {
	if payloadLen < 56 {
		return []byte{byte(0xc0 + payloadLen)}
	}
	lenBytes := minimalBigEndian(uint64(payloadLen))
	out := make([]byte, 0, len(lenBytes)+1)
	out = append(out, byte(0xf7+len(lenBytes)))
	return append(out, lenBytes...)
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

// Item is a decoded RLP node: either a byte string (List == nil) or a list
// of sub-items (List != nil, Bytes == nil).
type Item struct {
	Bytes []byte
	List  []*Item
}

// IsList reports whether the item decoded as a list rather than a string.
func (it *Item) IsList() bool { return it.List != nil }

// Uint interprets a byte-string item as a big-endian unsigned integer.
func (it *Item) Uint() (uint64, error) {
	if it.IsList() {
		return 0, fmt.Errorf("rlp: Uint called on list item")
	}
	if len(it.Bytes) > 8 {
		return 0, fmt.Errorf("rlp: integer too large (%d bytes)", len(it.Bytes))
	}
	var v uint64
	for _, b := range it.Bytes {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// Decode parses exactly one RLP item from data, returning an error if there
// is trailing data.
func Decode(data []byte) (*Item, error) {
	item, rest, err := decodeItem(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("rlp: %d trailing bytes after item", len(rest))
	}
	return item, nil
}

func decodeItem(data []byte) (*Item, []byte, error) {
	if len(data) == 0 {
		return nil, nil, io.ErrUnexpectedEOF
	}
	b0 := data[0]
	switch {
	case b0 < 0x80:
		return &Item{Bytes: data[0:1]}, data[1:], nil

	case b0 < 0xb8:
		size := int(b0 - 0x80)
		if len(data) < 1+size {
			return nil, nil, io.ErrUnexpectedEOF
		}
		return &Item{Bytes: data[1 : 1+size]}, data[1+size:], nil

	case b0 < 0xc0:
		lenOfLen := int(b0 - 0xb7)
		if len(data) < 1+lenOfLen {
			return nil, nil, io.ErrUnexpectedEOF
		}
		size := beToUint(data[1 : 1+lenOfLen])
		start := 1 + lenOfLen
		if uint64(len(data)-start) < size {
			return nil, nil, io.ErrUnexpectedEOF
		}
		return &Item{Bytes: data[start : uint64(start)+size]}, data[uint64(start)+size:], nil

	case b0 < 0xf8:
		size := int(b0 - 0xc0)
		if len(data) < 1+size {
			return nil, nil, io.ErrUnexpectedEOF
		}
		list, err := decodeList(data[1 : 1+size])
		if err != nil {
			return nil, nil, err
		}
		return &Item{List: list}, data[1+size:], nil

	default:
		lenOfLen := int(b0 - 0xf7)
		if len(data) < 1+lenOfLen {
			return nil, nil, io.ErrUnexpectedEOF
		}
		size := beToUint(data[1 : 1+lenOfLen])
		start := 1 + lenOfLen
		if uint64(len(data)-start) < size {
			return nil, nil, io.ErrUnexpectedEOF
		}
		list, err := decodeList(data[start : uint64(start)+size])
		if err != nil {
			return nil, nil, err
		}
		return &Item{List: list}, data[uint64(start)+size:], nil
	}
}

func decodeList(data []byte) ([]*Item, error) {
	items := []*Item{}
	for len(data) > 0 {
		item, rest, err := decodeItem(data)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		data = rest
	}
	return items, nil
}

func beToUint(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}
