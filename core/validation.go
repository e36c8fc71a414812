package core

import (
	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/kvstore"
)

// ValidateBlock checks header against parent and the just-computed
// results, per spec.md §4.6. There is deliberately no PoW/PoS check, no
// gas-limit delta bound, and no uncle validation — those are Non-goals.
func ValidateBlock(store kvstore.Store, parent, header *types.Header, computedTxRoot, computedReceiptRoot, computedStateRoot common.Hash, receipts []*types.Receipt) error {
	if header.ParentHash != parent.Hash() {
		return NewValidationError("parent_hash does not match chain tip")
	}
	if header.Number != parent.Number+1 {
		return NewValidationError("block_number must be parent.block_number + 1")
	}
	if header.Timestamp <= parent.Timestamp {
		return NewValidationError("timestamp must strictly increase from parent")
	}
	if len(header.ExtraData) > 32 {
		return NewValidationError("extra_data exceeds 32 bytes")
	}
	if header.TransactionRoot != computedTxRoot {
		return NewValidationError("transaction_root mismatch")
	}
	if header.ReceiptRoot != computedReceiptRoot {
		return NewValidationError("receipt_root mismatch")
	}

	if header.StateRoot != computedStateRoot {
		// spec.md §4.6: "Either state_root is already present in the KV
		// store or equals the just-computed post-application root."
		if _, err := store.Get(header.StateRoot.Bytes()); err != nil {
			return NewValidationError("state_root neither matches the computed root nor is already known")
		}
	}

	for _, r := range receipts {
		for _, l := range r.Logs {
			if !header.Bloom.Test(l.Address.Bytes()) {
				return NewValidationError("logs bloom missing a log address")
			}
			for _, t := range l.Topics {
				if !header.Bloom.Test(t.Bytes()) {
					return NewValidationError("logs bloom missing a log topic")
				}
			}
		}
	}
	return nil
}
