package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/common"
)

func TestBloomAddAndTest(t *testing.T) {
	var b Bloom
	addr := common.HexToAddress("0xabc123").Bytes()
	b.Add(addr)
	require.True(t, b.Test(addr))
	require.False(t, b.Test(common.HexToAddress("0x999999").Bytes()))
}

// TestBloomForReceiptsCoversEveryLogAddressAndTopic covers invariant 4: for
// every log and topic, the header bloom must test positive.
func TestBloomForReceiptsCoversEveryLogAddressAndTopic(t *testing.T) {
	addr := common.HexToAddress("0x01")
	topic1 := common.HexToHash("0xaa")
	topic2 := common.HexToHash("0xbb")

	receipts := []*Receipt{
		{Logs: []*Log{{Address: addr, Topics: []common.Hash{topic1, topic2}}}},
	}
	bloom := BloomForReceipts(receipts)

	require.True(t, bloom.Test(addr.Bytes()))
	require.True(t, bloom.Test(topic1.Bytes()))
	require.True(t, bloom.Test(topic2.Bytes()))
}

func TestBloomUnion(t *testing.T) {
	var a, b Bloom
	a.Add([]byte("a"))
	b.Add([]byte("b"))

	union := a
	union.Union(b)
	require.True(t, union.Test([]byte("a")))
	require.True(t, union.Test([]byte("b")))
}
