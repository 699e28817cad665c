package adapter

import (
	fufuok "github.com/fufuok/cmap"
	orcaman "github.com/orcaman/concurrent-map/v2"
	"github.com/spaolacci/murmur3"

	"github.com/llxisdsh/mapstress"
)

// FufuokCMap is github.com/fufuok/cmap. Only Insert is atomic; the other
// conditional operations are check-then-act.
type FufuokCMap struct {
	m fufuokMap
}

// fufuokMap is the subset of the fufuok map API in use.
type fufuokMap interface {
	Set(key, value uint64)
	SetIfAbsent(key, value uint64) bool
	Get(key uint64) (uint64, bool)
	Remove(key uint64)
}

func (t *FufuokCMap) Name() string { return "fufuok" }

func (t *FufuokCMap) Rebuild(int) {
	t.m = fufuok.NewOf[uint64, uint64]()
}

func (t *FufuokCMap) Handle(mapstress.Worker) mapstress.Handle {
	return fufuokHandle{m: t.m}
}

type fufuokHandle struct {
	release
	m fufuokMap
}

func (h fufuokHandle) Insert(key, value uint64) bool {
	return h.m.SetIfAbsent(key, value)
}

func (h fufuokHandle) Find(key uint64) (uint64, bool) {
	return h.m.Get(key)
}

func (h fufuokHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	cur, ok := h.m.Get(key)
	if !ok {
		return 0, false
	}
	next := fn(cur, arg)
	h.m.Set(key, next)
	return next, true
}

func (h fufuokHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	if h.m.SetIfAbsent(key, value) {
		return true
	}
	if cur, ok := h.m.Get(key); ok {
		h.m.Set(key, fn(cur, arg))
	}
	return false
}

func (h fufuokHandle) Erase(key uint64) bool {
	if _, ok := h.m.Get(key); !ok {
		return false
	}
	h.m.Remove(key)
	return true
}

// OrcamanCMap is github.com/orcaman/concurrent-map/v2 sharded by murmur3.
// Insert, InsertOrUpdate and Erase hold the shard lock; Update is
// check-then-act.
type OrcamanCMap struct {
	m orcaman.ConcurrentMap[uint64, uint64]
}

func (t *OrcamanCMap) Name() string { return "orcaman" }

func (t *OrcamanCMap) Rebuild(int) {
	t.m = orcaman.NewWithCustomShardingFunction[uint64, uint64](shardHash)
}

func (t *OrcamanCMap) Handle(mapstress.Worker) mapstress.Handle {
	return orcamanHandle{m: t.m}
}

type orcamanHandle struct {
	release
	m orcaman.ConcurrentMap[uint64, uint64]
}

func (h orcamanHandle) Insert(key, value uint64) bool {
	return h.m.SetIfAbsent(key, value)
}

func (h orcamanHandle) Find(key uint64) (uint64, bool) {
	return h.m.Get(key)
}

func (h orcamanHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	if !h.m.Has(key) {
		return 0, false
	}
	return h.m.Upsert(key, arg, func(exist bool, inMap, arg uint64) uint64 {
		if !exist {
			return arg
		}
		return fn(inMap, arg)
	}), true
}

func (h orcamanHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	var inserted bool
	h.m.Upsert(key, value, func(exist bool, inMap, value uint64) uint64 {
		if !exist {
			inserted = true
			return value
		}
		return fn(inMap, arg)
	})
	return inserted
}

func (h orcamanHandle) Erase(key uint64) bool {
	_, ok := h.m.Pop(key)
	return ok
}

// shardHash spreads keys over shards with murmur3.
func shardHash(key uint64) uint32 {
	return uint32(murmur3.Sum64WithSeed(keyBytes(key), 0))
}

func keyBytes(key uint64) []byte {
	return []byte{
		byte(key), byte(key >> 8), byte(key >> 16), byte(key >> 24),
		byte(key >> 32), byte(key >> 40), byte(key >> 48), byte(key >> 56),
	}
}
