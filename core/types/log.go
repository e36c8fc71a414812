package types

import (
	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/rlp"
)

// Log is one event emitted by LOG0..LOG4 during execution.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte

	// Context filled in by the executor once the surrounding transaction's
	// position in the chain is known.
	TxHash      common.Hash
	TxIndex     uint
	BlockHash   common.Hash
	BlockNumber uint64
	Index       uint
}

func (l *Log) EncodeRLP() []byte {
	topics := make([][]byte, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = rlp.EncodeBytes(t[:])
	}
	return rlp.EncodeList(
		rlp.EncodeBytes(l.Address[:]),
		rlp.EncodeList(topics...),
		rlp.EncodeBytes(l.Data),
	)
}

func DecodeLogRLP(item *rlp.Item) (*Log, error) {
	l := item.List
	topics := make([]common.Hash, len(l[1].List))
	for i, t := range l[1].List {
		topics[i] = common.BytesToHash(t.Bytes)
	}
	return &Log{
		Address: common.BytesToAddress(l[0].Bytes),
		Topics:  topics,
		Data:    append([]byte{}, l[2].Bytes...),
	}, nil
}
