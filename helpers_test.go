package mapstress

import "sync"

// memTable is a mutex-guarded Go map. Every dropEvery-th insert is
// acknowledged but not stored, to check that the tests notice.
type memTable struct {
	mu        sync.Mutex
	m         map[uint64]uint64
	inserts   int
	dropEvery int
	handles   int
	released  int

	insertCalls int
	upsertCalls int
}

func newMemTable() *memTable {
	return &memTable{m: make(map[uint64]uint64)}
}

func (t *memTable) Name() string { return "mem" }

func (t *memTable) Rebuild(capacity int) {
	t.m = make(map[uint64]uint64, capacity)
}

func (t *memTable) Handle(Worker) Handle {
	t.mu.Lock()
	t.handles++
	t.mu.Unlock()
	return memHandle{t}
}

type memHandle struct{ t *memTable }

func (h memHandle) Insert(key, value uint64) bool {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	h.t.insertCalls++
	if _, ok := h.t.m[key]; ok {
		return false
	}
	h.t.inserts++
	if h.t.dropEvery > 0 && h.t.inserts%h.t.dropEvery == 0 {
		return true
	}
	h.t.m[key] = value
	return true
}

func (h memHandle) Find(key uint64) (uint64, bool) {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	v, ok := h.t.m[key]
	return v, ok
}

func (h memHandle) Update(key uint64, fn Combiner, arg uint64) (uint64, bool) {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	cur, ok := h.t.m[key]
	if !ok {
		return 0, false
	}
	h.t.m[key] = fn(cur, arg)
	return h.t.m[key], true
}

func (h memHandle) InsertOrUpdate(key, value uint64, fn Combiner, arg uint64) bool {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	h.t.upsertCalls++
	if cur, ok := h.t.m[key]; ok {
		h.t.m[key] = fn(cur, arg)
		return false
	}
	h.t.m[key] = value
	return true
}

func (h memHandle) Erase(key uint64) bool {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	if _, ok := h.t.m[key]; !ok {
		return false
	}
	delete(h.t.m, key)
	return true
}

func (h memHandle) Release() {
	h.t.mu.Lock()
	h.t.released++
	h.t.mu.Unlock()
}
