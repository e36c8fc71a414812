package types

import (
	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/rlp"
)

const (
	ReceiptStatusFailed    = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt is the per-transaction execution record, per spec.md §3.
type Receipt struct {
	Status            uint64 // 0x00 failure, 0x01 success
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*Log

	// Context, not part of the canonical receipt-trie encoding but carried
	// for read-RPC convenience (mirrors the teacher's types.Receipt).
	TxHash          common.Hash
	GasUsed         uint64
	ContractAddress common.Address
	BlockHash       common.Hash
	BlockNumber     uint64
	TransactionIndex uint
}

func (r *Receipt) EncodeRLP() []byte {
	logs := make([][]byte, len(r.Logs))
	for i, l := range r.Logs {
		logs[i] = l.EncodeRLP()
	}
	return rlp.EncodeList(
		rlp.EncodeUint(r.Status),
		rlp.EncodeUint(r.CumulativeGasUsed),
		rlp.EncodeBytes(r.Bloom[:]),
		rlp.EncodeList(logs...),
	)
}

// EncodeStorageRLP is like EncodeRLP but also carries the non-canonical
// per-transaction fields (TxHash, GasUsed, ContractAddress) the chain DB
// needs to answer eth_getTransactionReceipt without replaying the block.
// BlockHash/BlockNumber/TransactionIndex are NOT included: those are
// supplied by the chain DB lookup itself, not duplicated into storage.
func (r *Receipt) EncodeStorageRLP() []byte {
	return rlp.EncodeList(
		rlp.EncodeBytes(r.EncodeRLP()),
		rlp.EncodeBytes(r.TxHash[:]),
		rlp.EncodeUint(r.GasUsed),
		rlp.EncodeBytes(r.ContractAddress[:]),
	)
}

// DecodeReceiptStorageRLP is the inverse of EncodeStorageRLP.
func DecodeReceiptStorageRLP(enc []byte) (*Receipt, error) {
	item, err := rlp.Decode(enc)
	if err != nil {
		return nil, err
	}
	l := item.List
	r, err := DecodeReceiptRLP(l[0].Bytes)
	if err != nil {
		return nil, err
	}
	r.TxHash = common.BytesToHash(l[1].Bytes)
	gasUsed, _ := l[2].Uint()
	r.GasUsed = gasUsed
	r.ContractAddress = common.BytesToAddress(l[3].Bytes)
	return r, nil
}

func DecodeReceiptRLP(enc []byte) (*Receipt, error) {
	item, err := rlp.Decode(enc)
	if err != nil {
		return nil, err
	}
	l := item.List
	status, err := l[0].Uint()
	if err != nil {
		return nil, err
	}
	cumGas, _ := l[1].Uint()
	var bloom Bloom
	copy(bloom[:], l[2].Bytes)

	logs := make([]*Log, len(l[3].List))
	for i, li := range l[3].List {
		lg, err := DecodeLogRLP(li)
		if err != nil {
			return nil, err
		}
		logs[i] = lg
	}
	return &Receipt{
		Status:            status,
		CumulativeGasUsed: cumGas,
		Bloom:             bloom,
		Logs:              logs,
	}, nil
}
