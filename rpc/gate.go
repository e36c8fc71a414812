package rpc

import "sync"

// WriteGate is spec.md §5's "blocking flag on the read RPC server": sync
// RPC sets it on NewBlockImportStarted, the read server awaits its resume
// signal before serving further requests, and it clears on
// NewBlockImportFinished/Canceled. Implemented with a plain mutex rather
// than a channel+atomic.Bool pair: a single process-wide RWMutex gives the
// same exclusion with none of the resume-signal bookkeeping.
type WriteGate struct {
	mu sync.RWMutex
}

// BeginWrite blocks until no reader holds the gate, then excludes readers
// until EndWrite.
func (g *WriteGate) BeginWrite() { g.mu.Lock() }

func (g *WriteGate) EndWrite() { g.mu.Unlock() }

// AwaitRead blocks while a write is in progress, then lets the caller read.
func (g *WriteGate) AwaitRead() { g.mu.RLock() }

func (g *WriteGate) DoneRead() { g.mu.RUnlock() }
