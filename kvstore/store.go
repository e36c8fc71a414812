// Package kvstore is the ordered byte-keyed key-value façade every other
// Veda package treats as a primitive. It is backed by goleveldb and wrapped
// with a fastcache read-through cache, the same pairing the teacher uses for
// its trie-node/state database layer.
//
// spec.md §5 describes the KV store as owned by a dedicated database
// process reached over a local socket, with callers holding a process-wide
// lock around each outgoing request. This module realizes that contract
// in-process (see SPEC_FULL.md §5 / DESIGN.md): Store below exposes exactly
// the get/put/delete/batch/exists primitives, serialized by an internal
// mutex standing in for the socket protocol's framing lock.
package kvstore

import (
	"errors"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kvstore: key not found")

// Batch collects a group of writes to be applied atomically.
type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Write() error
	ValueSize() int
	Reset()
}

// Store is the primitive the rest of Veda depends on.
type Store interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	NewBatch() Batch
	Close() error
}

// ldbStore wraps a goleveldb database with a fastcache read-through layer
// and a process-wide lock around each outgoing request, per spec.md §5.
type ldbStore struct {
	mu    sync.Mutex
	db    *leveldb.DB
	cache *fastcache.Cache
}

// Open opens (creating if absent) a goleveldb database at path with a
// cacheSizeBytes fastcache layer in front of it. path == "" opens a
// throwaway in-memory database, used by tests and `trace_transaction`'s
// costless replay state.
func Open(path string, cacheSizeBytes int) (Store, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, &opt.Options{})
	}
	if err != nil {
		return nil, err
	}
	if cacheSizeBytes <= 0 {
		cacheSizeBytes = 32 * 1024 * 1024
	}
	return &ldbStore{db: db, cache: fastcache.New(cacheSizeBytes)}, nil
}

func (s *ldbStore) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.HasGet(nil, key); ok {
		return v, nil
	}
	v, err := s.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.cache.Set(append([]byte{}, key...), v)
	return v, nil
}

func (s *ldbStore) Has(key []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.Has(key) {
		return true, nil
	}
	return s.db.Has(key, nil)
}

func (s *ldbStore) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Put(key, value, nil); err != nil {
		return err
	}
	s.cache.Set(append([]byte{}, key...), value)
	return nil
}

func (s *ldbStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Delete(key, nil); err != nil {
		return err
	}
	s.cache.Del(key)
	return nil
}

func (s *ldbStore) NewBatch() Batch {
	return &ldbBatch{store: s, batch: new(leveldb.Batch)}
}

func (s *ldbStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Reset()
	return s.db.Close()
}

// ldbBatch accumulates writes and applies them as one atomic goleveldb
// batch, satisfying the "writes during block finalization are grouped into
// one atomic batch" requirement from spec.md §4.7.
type ldbBatch struct {
	store *ldbStore
	batch *leveldb.Batch
	keys  [][]byte
	vals  [][]byte
	dels  [][]byte
	size  int
}

func (b *ldbBatch) Put(key, value []byte) {
	b.batch.Put(key, value)
	b.keys = append(b.keys, append([]byte{}, key...))
	b.vals = append(b.vals, append([]byte{}, value...))
	b.size += len(key) + len(value)
}

func (b *ldbBatch) Delete(key []byte) {
	b.batch.Delete(key)
	b.dels = append(b.dels, append([]byte{}, key...))
	b.size += len(key)
}

func (b *ldbBatch) ValueSize() int { return b.size }

func (b *ldbBatch) Reset() {
	b.batch.Reset()
	b.keys, b.vals, b.dels = nil, nil, nil
	b.size = 0
}

func (b *ldbBatch) Write() error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	if err := b.store.db.Write(b.batch, nil); err != nil {
		return err
	}
	for i, k := range b.keys {
		b.store.cache.Set(k, b.vals[i])
	}
	for _, k := range b.dels {
		b.store.cache.Del(k)
	}
	return nil
}
