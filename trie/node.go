package trie

import (
	"fmt"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/rlp"
)

// node is the in-memory representation of one trie vertex. Concrete types:
//
//	nil          - the empty subtree
//	valueNode    - a terminal value (only ever held by a shortNode.Val or a
//	               fullNode's 17th slot)
//	hashNode     - an unresolved reference to a node persisted at key =
//	               keccak(RLP(node)); must be resolved via the backing store
//	*shortNode   - a leaf (Val is a valueNode) or extension (Val is anything
//	               else) keyed by a run of nibbles
//	*fullNode    - a 17-way branch: 16 nibble children plus a value slot
type node interface{}

type (
	valueNode []byte
	hashNode  []byte
)

type shortNode struct {
	Key []byte // nibbles, no hex-prefix flag (that's a wire-encoding detail)
	Val node
}

type fullNode struct {
	Children [17]node // Children[16] holds an optional valueNode
}

func isValueNode(n node) bool {
	_, ok := n.(valueNode)
	return ok
}

// ErrMissingNode is raised when a traversal needs a node that is absent from
// the backing store — a corrupt or pruned database, per spec.md §4.1/§7.
type ErrMissingNode struct {
	Hash common.Hash
}

func (e ErrMissingNode) Error() string {
	return fmt.Sprintf("trie: missing node %s", e.Hash.Hex())
}

// decodeNode parses the RLP encoding of a single persisted node.
func decodeNode(enc []byte) (node, error) {
	item, err := rlp.Decode(enc)
	if err != nil {
		return nil, err
	}
	return decodeNodeItem(item)
}

func decodeNodeItem(item *rlp.Item) (node, error) {
	if !item.IsList() {
		return nil, fmt.Errorf("trie: node encoding must be a list")
	}
	switch len(item.List) {
	case 2:
		keyBytes := item.List[0].Bytes
		nibbles, isLeaf := decodeHexPrefix(keyBytes)
		if isLeaf {
			return &shortNode{Key: nibbles, Val: valueNode(item.List[1].Bytes)}, nil
		}
		child, err := decodeChildRef(item.List[1])
		if err != nil {
			return nil, err
		}
		return &shortNode{Key: nibbles, Val: child}, nil

	case 17:
		var full fullNode
		for i := 0; i < 16; i++ {
			child, err := decodeChildRef(item.List[i])
			if err != nil {
				return nil, err
			}
			full.Children[i] = child
		}
		valItem := item.List[16]
		if len(valItem.Bytes) > 0 {
			full.Children[16] = valueNode(valItem.Bytes)
		}
		return &full, nil

	default:
		return nil, fmt.Errorf("trie: invalid node list length %d", len(item.List))
	}
}

func decodeChildRef(item *rlp.Item) (node, error) {
	if item.IsList() {
		return decodeNodeItem(item)
	}
	switch len(item.Bytes) {
	case 0:
		return nil, nil
	case 32:
		return hashNode(item.Bytes), nil
	default:
		return nil, fmt.Errorf("trie: invalid child reference length %d", len(item.Bytes))
	}
}
