package adapter

import (
	"sync"

	"github.com/llxisdsh/mapstress"
)

// SyncMap is the standard library sync.Map, kept as the reference every
// other table is compared against.
type SyncMap struct {
	m *sync.Map
}

func (t *SyncMap) Name() string { return "syncmap" }

func (t *SyncMap) Rebuild(int) {
	t.m = new(sync.Map)
}

func (t *SyncMap) Handle(mapstress.Worker) mapstress.Handle {
	return syncHandle{m: t.m}
}

type syncHandle struct {
	release
	m *sync.Map
}

func (h syncHandle) Insert(key, value uint64) bool {
	_, loaded := h.m.LoadOrStore(key, value)
	return !loaded
}

func (h syncHandle) Find(key uint64) (uint64, bool) {
	v, ok := h.m.Load(key)
	if !ok {
		return 0, false
	}
	return v.(uint64), true
}

func (h syncHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	for {
		cur, ok := h.m.Load(key)
		if !ok {
			return 0, false
		}
		next := fn(cur.(uint64), arg)
		if h.m.CompareAndSwap(key, cur, next) {
			return next, true
		}
	}
}

func (h syncHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	for {
		cur, loaded := h.m.LoadOrStore(key, value)
		if !loaded {
			return true
		}
		if h.m.CompareAndSwap(key, cur, fn(cur.(uint64), arg)) {
			return false
		}
	}
}

func (h syncHandle) Erase(key uint64) bool {
	_, loaded := h.m.LoadAndDelete(key)
	return loaded
}
