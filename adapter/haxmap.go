package adapter

import (
	"github.com/alphadose/haxmap"

	"github.com/llxisdsh/mapstress"
)

// HaxMap is github.com/alphadose/haxmap. Conditional updates are
// compare-and-swap loops.
type HaxMap struct {
	m *haxmap.Map[uint64, uint64]
}

func (t *HaxMap) Name() string { return "haxmap" }

func (t *HaxMap) Rebuild(capacity int) {
	t.m = haxmap.New[uint64, uint64](uintptr(max(capacity, 8)))
}

func (t *HaxMap) Handle(mapstress.Worker) mapstress.Handle {
	return haxHandle{m: t.m}
}

type haxHandle struct {
	release
	m *haxmap.Map[uint64, uint64]
}

func (h haxHandle) Insert(key, value uint64) bool {
	_, loaded := h.m.GetOrSet(key, value)
	return !loaded
}

func (h haxHandle) Find(key uint64) (uint64, bool) {
	return h.m.Get(key)
}

func (h haxHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	for {
		cur, ok := h.m.Get(key)
		if !ok {
			return 0, false
		}
		next := fn(cur, arg)
		if h.m.CompareAndSwap(key, cur, next) {
			return next, true
		}
	}
}

func (h haxHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	for {
		cur, loaded := h.m.GetOrSet(key, value)
		if !loaded {
			return true
		}
		if h.m.CompareAndSwap(key, cur, fn(cur, arg)) {
			return false
		}
	}
}

func (h haxHandle) Erase(key uint64) bool {
	_, ok := h.m.GetAndDel(key)
	return ok
}
