package adapter

import (
	csmap "github.com/mhmtszr/concurrent-swiss-map"

	"github.com/llxisdsh/mapstress"
)

// SwissMap is github.com/mhmtszr/concurrent-swiss-map. Conditional writes
// run under the shard lock through SetIf.
type SwissMap struct {
	m *csmap.CsMap[uint64, uint64]
}

func (t *SwissMap) Name() string { return "csmap" }

func (t *SwissMap) Rebuild(int) {
	t.m = csmap.New(csmap.WithShardCount[uint64, uint64](32))
}

func (t *SwissMap) Handle(mapstress.Worker) mapstress.Handle {
	return swissHandle{m: t.m}
}

type swissHandle struct {
	release
	m *csmap.CsMap[uint64, uint64]
}

func (h swissHandle) Insert(key, value uint64) bool {
	var inserted bool
	h.m.SetIf(key, func(_ uint64, found bool) (uint64, bool) {
		inserted = !found
		return value, !found
	})
	return inserted
}

func (h swissHandle) Find(key uint64) (uint64, bool) {
	return h.m.Load(key)
}

func (h swissHandle) Update(key uint64, fn mapstress.Combiner, arg uint64) (uint64, bool) {
	var (
		next uint64
		ok   bool
	)
	h.m.SetIf(key, func(cur uint64, found bool) (uint64, bool) {
		if !found {
			return cur, false
		}
		next, ok = fn(cur, arg), true
		return next, true
	})
	return next, ok
}

func (h swissHandle) InsertOrUpdate(key, value uint64, fn mapstress.Combiner, arg uint64) bool {
	var inserted bool
	h.m.SetIf(key, func(cur uint64, found bool) (uint64, bool) {
		if !found {
			inserted = true
			return value, true
		}
		return fn(cur, arg), true
	})
	return inserted
}

func (h swissHandle) Erase(key uint64) bool {
	return h.m.Delete(key)
}
