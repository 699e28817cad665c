package adapter

import (
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/llxisdsh/mapstress"
)

// XSync is github.com/puzpuzpuz/xsync/v4 Map. Every conditional operation
// is a single Compute.
type XSync struct {
	m *xsync.Map[uint64, uint64]
}

func (t *XSync) Name() string { return "xsync" }

func (t *XSync) Rebuild(capacity int) {
	t.m = xsync.NewMap[uint64, uint64](xsync.WithPresize(capacity))
}

func (t *XSync) Handle(mapstress.Worker) mapstress.Handle {
	return xsyncHandle{m: t.m}
}

type xsyncHandle struct {
	release
	m *xsync.Map[uint64, uint64]
}

func (h xsyncHandle) Insert(key, value uint64) bool {
	_, loaded := h.m.LoadOrStore(key, value)
	return !loaded
}

func (h xsyncHandle) Find(key uint64) (uint64, bool) {
	return h.m.Load(key)
}

func (h xsyncHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	return h.m.Compute(key, func(old uint64, loaded bool) (uint64, xsync.ComputeOp) {
		if !loaded {
			return old, xsync.CancelOp
		}
		return fn(old, arg), xsync.UpdateOp
	})
}

func (h xsyncHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	var inserted bool
	h.m.Compute(key, func(old uint64, loaded bool) (uint64, xsync.ComputeOp) {
		if !loaded {
			inserted = true
			return value, xsync.UpdateOp
		}
		inserted = false
		return fn(old, arg), xsync.UpdateOp
	})
	return inserted
}

func (h xsyncHandle) Erase(key uint64) bool {
	_, loaded := h.m.LoadAndDelete(key)
	return loaded
}
