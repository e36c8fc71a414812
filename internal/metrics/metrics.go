// Package metrics is the rcrowley/go-metrics registry used across the
// block-import and RPC paths, grounded on the teacher's use of
// go-ethereum's metrics package (itself a thin layer over rcrowley/go-metrics)
// for counters like "chain/head/header" and timers around block processing.
package metrics

import "github.com/rcrowley/go-metrics"

var registry = metrics.NewRegistry()

var (
	BlocksMined     = metrics.NewRegisteredCounter("chain/blocks/mined", registry)
	TxApplied       = metrics.NewRegisteredCounter("chain/tx/applied", registry)
	TxDropped       = metrics.NewRegisteredCounter("chain/tx/dropped", registry)
	BlockApplyTimer = metrics.NewRegisteredTimer("chain/block/apply", registry)
	SyncRPCCalls    = metrics.NewRegisteredCounter("rpc/sync/calls", registry)
	ReadRPCCalls    = metrics.NewRegisteredCounter("rpc/read/calls", registry)
)

// Registry exposes the underlying rcrowley/go-metrics registry, e.g. for a
// future metrics.WriteJSON-style debug endpoint.
func Registry() metrics.Registry { return registry }
