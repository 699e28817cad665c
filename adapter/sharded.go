package adapter

import (
	"runtime"
	"sync"

	"github.com/spaolacci/murmur3"
	"golang.org/x/sys/cpu"

	"github.com/llxisdsh/mapstress"
)

// Sharded is a baseline of plain Go maps behind per-shard RWMutexes,
// selected by a murmur3 hash of the key. Every operation is atomic.
type Sharded struct {
	shards []shard
}

type shard struct {
	mu sync.RWMutex
	m  map[uint64]uint64
	_  cpu.CacheLinePad
}

func (t *Sharded) Name() string { return "sharded" }

// Rebuild allocates 4 shards per processor, each presized to its share of
// capacity.
func (t *Sharded) Rebuild(capacity int) {
	n := runtime.GOMAXPROCS(0) * 4
	t.shards = make([]shard, n)
	for i := range t.shards {
		t.shards[i].m = make(map[uint64]uint64, capacity/n)
	}
}

func (t *Sharded) Handle(mapstress.Worker) mapstress.Handle {
	return shardedHandle{shards: t.shards}
}

type shardedHandle struct {
	release
	shards []shard
}

func (h shardedHandle) shard(key uint64) *shard {
	return &h.shards[murmur3.Sum64(keyBytes(key))%uint64(len(h.shards))]
}

func (h shardedHandle) Insert(key, value uint64) bool {
	s := h.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertLocked(s.m, key, value)
}

func (h shardedHandle) Find(key uint64) (uint64, bool) {
	s := h.shard(key)
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	return v, ok
}

func (h shardedHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	s := h.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateLocked(s.m, key, fn, arg)
}

func (h shardedHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	s := h.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertLocked(s.m, key, value, fn, arg)
}

func (h shardedHandle) Erase(key uint64) bool {
	s := h.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return eraseLocked(s.m, key)
}

// Locked is a single Go map behind one RWMutex.
type Locked struct {
	mu sync.RWMutex
	m  map[uint64]uint64
}

func (t *Locked) Name() string { return "locked" }

func (t *Locked) Rebuild(capacity int) {
	t.m = make(map[uint64]uint64, capacity)
}

func (t *Locked) Handle(mapstress.Worker) mapstress.Handle {
	return lockedHandle{t}
}

type lockedHandle struct {
	t *Locked
}

func (lockedHandle) Release() {}

func (h lockedHandle) Insert(key, value uint64) bool {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	return insertLocked(h.t.m, key, value)
}

func (h lockedHandle) Find(key uint64) (uint64, bool) {
	h.t.mu.RLock()
	v, ok := h.t.m[key]
	h.t.mu.RUnlock()
	return v, ok
}

func (h lockedHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	return updateLocked(h.t.m, key, fn, arg)
}

func (h lockedHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	return upsertLocked(h.t.m, key, value, fn, arg)
}

func (h lockedHandle) Erase(key uint64) bool {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	return eraseLocked(h.t.m, key)
}

func insertLocked(m map[uint64]uint64, key, value uint64) bool {
	if _, ok := m[key]; ok {
		return false
	}
	m[key] = value
	return true
}

func updateLocked(m map[uint64]uint64, key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	cur, ok := m[key]
	if !ok {
		return 0, false
	}
	next := fn(cur, arg)
	m[key] = next
	return next, true
}

func upsertLocked(m map[uint64]uint64, key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	if cur, ok := m[key]; ok {
		m[key] = fn(cur, arg)
		return false
	}
	m[key] = value
	return true
}

func eraseLocked(m map[uint64]uint64, key uint64) bool {
	if _, ok := m[key]; !ok {
		return false
	}
	delete(m, key)
	return true
}
