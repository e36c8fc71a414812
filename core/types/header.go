package types

import (
	"math/big"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/rlp"
)

// Header carries everything spec.md §3 names. Its identity (Hash()) is the
// externally-supplied VedaBlockHash, never a keccak of the encoding — see
// the HeaderIdentity design note in spec.md §9: implementations must not
// assume hash(encode(header)) == header.Hash() anywhere.
type Header struct {
	ParentHash      common.Hash
	Coinbase        common.Address
	StateRoot       common.Hash
	TransactionRoot common.Hash
	ReceiptRoot     common.Hash
	Bloom           Bloom
	Difficulty      *big.Int
	Number          uint64
	GasLimit        uint64
	GasUsed         uint64
	Timestamp       uint64
	ExtraData       []byte
	MixHash         common.Hash

	VedaBlockHash   common.Hash
	VedaBlockNumber uint64
	VedaTimestamp   uint64
}

// Hash returns the header's identity: the externally-supplied
// VedaBlockHash. This is the single most invasive design decision named in
// spec.md §3/§9 — do not replace with keccak(EncodeRLP()) anywhere.
func (h *Header) Hash() common.Hash {
	return h.VedaBlockHash
}

// Copy returns a deep-enough copy suitable for building a child header from
// a pending one (core.BlockApplier overwrites state/tx/receipt root, bloom,
// and gas_used on the copy).
func (h *Header) Copy() *Header {
	cp := *h
	if h.Difficulty != nil {
		cp.Difficulty = new(big.Int).Set(h.Difficulty)
	}
	cp.ExtraData = append([]byte{}, h.ExtraData...)
	return &cp
}

func (h *Header) EncodeRLP() []byte {
	diff := big.NewInt(0)
	if h.Difficulty != nil {
		diff = h.Difficulty
	}
	return rlp.EncodeList(
		rlp.EncodeBytes(h.ParentHash[:]),
		rlp.EncodeBytes(h.Coinbase[:]),
		rlp.EncodeBytes(h.StateRoot[:]),
		rlp.EncodeBytes(h.TransactionRoot[:]),
		rlp.EncodeBytes(h.ReceiptRoot[:]),
		rlp.EncodeBytes(h.Bloom[:]),
		rlp.EncodeBytes(diff.Bytes()),
		rlp.EncodeUint(h.Number),
		rlp.EncodeUint(h.GasLimit),
		rlp.EncodeUint(h.GasUsed),
		rlp.EncodeUint(h.Timestamp),
		rlp.EncodeBytes(h.ExtraData),
		rlp.EncodeBytes(h.MixHash[:]),
		rlp.EncodeBytes(h.VedaBlockHash[:]),
		rlp.EncodeUint(h.VedaBlockNumber),
		rlp.EncodeUint(h.VedaTimestamp),
	)
}

func DecodeHeaderRLP(enc []byte) (*Header, error) {
	item, err := rlp.Decode(enc)
	if err != nil {
		return nil, err
	}
	l := item.List
	number, err := l[7].Uint()
	if err != nil {
		return nil, err
	}
	gasLimit, _ := l[8].Uint()
	gasUsed, _ := l[9].Uint()
	timestamp, _ := l[10].Uint()
	vedaNumber, _ := l[14].Uint()
	vedaTimestamp, _ := l[15].Uint()

	var bloom Bloom
	copy(bloom[:], l[5].Bytes)

	h := &Header{
		ParentHash:      common.BytesToHash(l[0].Bytes),
		Coinbase:        common.BytesToAddress(l[1].Bytes),
		StateRoot:       common.BytesToHash(l[2].Bytes),
		TransactionRoot: common.BytesToHash(l[3].Bytes),
		ReceiptRoot:     common.BytesToHash(l[4].Bytes),
		Bloom:           bloom,
		Difficulty:      new(big.Int).SetBytes(l[6].Bytes),
		Number:          number,
		GasLimit:        gasLimit,
		GasUsed:         gasUsed,
		Timestamp:       timestamp,
		ExtraData:       append([]byte{}, l[11].Bytes...),
		MixHash:         common.BytesToHash(l[12].Bytes),
		VedaBlockHash:   common.BytesToHash(l[13].Bytes),
		VedaBlockNumber: vedaNumber,
		VedaTimestamp:   vedaTimestamp,
	}
	return h, nil
}

// Block pairs a header with its ordered transaction list, mirroring the
// teacher's types.Block shape.
type Block struct {
	Header       *Header
	Transactions []*Transaction
}

func (b *Block) Hash() common.Hash { return b.Header.Hash() }
func (b *Block) Number() uint64    { return b.Header.Number }
