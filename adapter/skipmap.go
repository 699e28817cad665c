package adapter

import (
	"github.com/zhangyunhao116/skipmap"

	"github.com/llxisdsh/mapstress"
)

// SkipMap is the ordered github.com/zhangyunhao116/skipmap. Update and the
// update half of InsertOrUpdate are check-then-act.
type SkipMap struct {
	m *skipmap.OrderedMap[uint64, uint64]
}

func (t *SkipMap) Name() string { return "skipmap" }

func (t *SkipMap) Rebuild(int) {
	t.m = skipmap.New[uint64, uint64]()
}

func (t *SkipMap) Handle(mapstress.Worker) mapstress.Handle {
	return skipHandle{m: t.m}
}

type skipHandle struct {
	release
	m *skipmap.OrderedMap[uint64, uint64]
}

func (h skipHandle) Insert(key, value uint64) bool {
	_, loaded := h.m.LoadOrStore(key, value)
	return !loaded
}

func (h skipHandle) Find(key uint64) (uint64, bool) {
	return h.m.Load(key)
}

func (h skipHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	cur, ok := h.m.Load(key)
	if !ok {
		return 0, false
	}
	next := fn(cur, arg)
	h.m.Store(key, next)
	return next, true
}

func (h skipHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	cur, loaded := h.m.LoadOrStore(key, value)
	if !loaded {
		return true
	}
	h.m.Store(key, fn(cur, arg))
	return false
}

func (h skipHandle) Erase(key uint64) bool {
	_, loaded := h.m.LoadAndDelete(key)
	return loaded
}
