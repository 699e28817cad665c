package adapter

import (
	"github.com/llxisdsh/pb"

	"github.com/llxisdsh/mapstress"
)

// PB is github.com/llxisdsh/pb MapOf. Conditional updates are
// compare-and-swap loops.
type PB struct {
	m *pb.MapOf[uint64, uint64]
}

func (t *PB) Name() string { return "pb" }

func (t *PB) Rebuild(capacity int) {
	t.m = pb.NewMapOf[uint64, uint64](pb.WithPresize(capacity))
}

func (t *PB) Handle(mapstress.Worker) mapstress.Handle {
	return pbHandle{m: t.m}
}

type pbHandle struct {
	release
	m *pb.MapOf[uint64, uint64]
}

func (h pbHandle) Insert(key, value uint64) bool {
	_, loaded := h.m.LoadOrStore(key, value)
	return !loaded
}

func (h pbHandle) Find(key uint64) (uint64, bool) {
	return h.m.Load(key)
}

func (h pbHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	for {
		cur, ok := h.m.Load(key)
		if !ok {
			return 0, false
		}
		next := fn(cur, arg)
		if h.m.CompareAndSwap(key, cur, next) {
			return next, true
		}
	}
}

func (h pbHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	for {
		cur, loaded := h.m.LoadOrStore(key, value)
		if !loaded {
			return true
		}
		if h.m.CompareAndSwap(key, cur, fn(cur, arg)) {
			return false
		}
	}
}

func (h pbHandle) Erase(key uint64) bool {
	_, loaded := h.m.LoadAndDelete(key)
	return loaded
}
