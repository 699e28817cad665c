package adapter

import (
	"github.com/Snawoot/lfmap"

	"github.com/llxisdsh/mapstress"
)

// LFMap is the copy-on-write github.com/Snawoot/lfmap. It has no
// conditional writes, so every conditional operation is check-then-act.
type LFMap struct {
	m lfMap
}

// lfMap is the subset of the lfmap API in use.
type lfMap interface {
	Set(key, value uint64)
	Get(key uint64) (uint64, bool)
	Delete(key uint64)
}

func (t *LFMap) Name() string { return "lfmap" }

func (t *LFMap) Rebuild(int) {
	t.m = lfmap.New[uint64, uint64]()
}

func (t *LFMap) Handle(mapstress.Worker) mapstress.Handle {
	return lfHandle{m: t.m}
}

type lfHandle struct {
	release
	m lfMap
}

func (h lfHandle) Insert(key, value uint64) bool {
	if _, ok := h.m.Get(key); ok {
		return false
	}
	h.m.Set(key, value)
	return true
}

func (h lfHandle) Find(key uint64) (uint64, bool) {
	return h.m.Get(key)
}

func (h lfHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	cur, ok := h.m.Get(key)
	if !ok {
		return 0, false
	}
	next := fn(cur, arg)
	h.m.Set(key, next)
	return next, true
}

func (h lfHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	cur, ok := h.m.Get(key)
	if !ok {
		h.m.Set(key, value)
		return true
	}
	h.m.Set(key, fn(cur, arg))
	return false
}

func (h lfHandle) Erase(key uint64) bool {
	if _, ok := h.m.Get(key); !ok {
		return false
	}
	h.m.Delete(key)
	return true
}
