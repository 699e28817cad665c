//go:build race

package opt

import (
	"sync"
)

const Race = true

// Sema is a counting semaphore built on sync.Mutex and sync.Cond, so the
// race detector sees the happens-before edge between Release and the
// Acquire it unblocks. Zero value is usable.
type Sema struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    uint32
}

func (s *Sema) Acquire() {
	s.mu.Lock()
	for s.n == 0 {
		s.wait()
	}
	s.n--
	s.mu.Unlock()
}

func (s *Sema) Release() {
	s.mu.Lock()
	s.n++
	if s.cond != nil {
		s.cond.Signal()
	}
	s.mu.Unlock()
}

// wait must be called with mu held.
func (s *Sema) wait() {
	if s.cond == nil {
		s.cond = sync.NewCond(&s.mu)
	}
	s.cond.Wait()
}
