package mapstress

import (
	"sync/atomic"

	"github.com/llxisdsh/mapstress/internal/opt"
)

// Barrier is a reusable barrier for a fixed party of workers.
//
// Every call to Await blocks until all parties have called it for the current
// generation; then all of them are released together and the barrier resets
// for the next generation. Writes a worker makes before Await are visible to
// every worker after Await returns, which is the only visibility guarantee
// the phase protocol relies on.
//
// Implementation:
// A single 64-bit word holds the generation (high 32 bits) and the arrival
// count (low 32 bits). Waiters park on a semaphore chosen by generation
// parity, so a fast worker that has already entered generation g+1 cannot
// consume a wake-up meant for a slow worker of generation g.
type Barrier struct {
	_       noCopy
	parties uint32
	state   atomic.Uint64
	sema    [2]opt.Sema
}

// NewBarrier creates a barrier for the given number of parties.
//
// panic if parties <= 0.
func NewBarrier(parties int) *Barrier {
	if parties <= 0 {
		panic("mapstress: parties must be positive")
	}
	return &Barrier{parties: uint32(parties)}
}

// Parties returns the number of workers the barrier waits for.
func (b *Barrier) Parties() int {
	return int(b.parties)
}

// Generation returns how many times the barrier has tripped.
func (b *Barrier) Generation() uint32 {
	return uint32(b.state.Load() >> 32)
}

// Await blocks until all parties have arrived.
// It reports true to exactly one caller per generation: the one whose
// arrival tripped the barrier.
func (b *Barrier) Await() bool {
	if b.parties == 1 {
		b.state.Add(1 << 32)
		return true
	}

	var spins int
	for {
		s := b.state.Load()
		gen := s >> 32
		count := uint32(s)

		if count == b.parties-1 {
			if b.state.CompareAndSwap(s, (gen+1)<<32) {
				sema := &b.sema[gen%2]
				for range count {
					sema.Release()
				}
				return true
			}
		} else if b.state.CompareAndSwap(s, s+1) {
			b.sema[gen%2].Acquire()
			return false
		}
		delay(&spins)
	}
}
