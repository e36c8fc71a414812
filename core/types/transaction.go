package types

import (
	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/rlp"
)

// Transaction carries exactly the fields spec.md §3 names. There are no
// signature fields — Veda never recovers senders; VedaSender and VedaTxHash
// are declared by the verifier and trusted as-is.
type Transaction struct {
	Nonce    uint64
	GasLimit uint64
	To       *common.Address // nil for contract-create
	Data     []byte

	VedaSender common.Address
	VedaTxHash common.Hash
}

// Hash returns the transaction's identity: the externally-supplied
// VedaTxHash, never a locally computed digest.
func (tx *Transaction) Hash() common.Hash { return tx.VedaTxHash }

// IsCreate reports whether this transaction deploys a contract.
func (tx *Transaction) IsCreate() bool { return tx.To == nil }

func (tx *Transaction) EncodeRLP() []byte {
	to := []byte{}
	if tx.To != nil {
		to = tx.To[:]
	}
	return rlp.EncodeList(
		rlp.EncodeUint(tx.Nonce),
		rlp.EncodeUint(tx.GasLimit),
		rlp.EncodeBytes(to),
		rlp.EncodeBytes(tx.Data),
		rlp.EncodeBytes(tx.VedaSender[:]),
		rlp.EncodeBytes(tx.VedaTxHash[:]),
	)
}

func DecodeTransactionRLP(enc []byte) (*Transaction, error) {
	item, err := rlp.Decode(enc)
	if err != nil {
		return nil, err
	}
	l := item.List
	nonce, err := l[0].Uint()
	if err != nil {
		return nil, err
	}
	gasLimit, _ := l[1].Uint()

	var to *common.Address
	if len(l[2].Bytes) > 0 {
		addr := common.BytesToAddress(l[2].Bytes)
		to = &addr
	}

	return &Transaction{
		Nonce:      nonce,
		GasLimit:   gasLimit,
		To:         to,
		Data:       append([]byte{}, l[3].Bytes...),
		VedaSender: common.BytesToAddress(l[4].Bytes),
		VedaTxHash: common.BytesToHash(l[5].Bytes),
	}, nil
}

// DataZeroNonZeroCounts splits tx.Data into zero- and nonzero-byte counts,
// used for intrinsic gas per spec.md §4.4.
func (tx *Transaction) DataZeroNonZeroCounts() (zero, nonzero uint64) {
	for _, b := range tx.Data {
		if b == 0 {
			zero++
		} else {
			nonzero++
		}
	}
	return
}
