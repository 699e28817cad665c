package mapstress

import (
	"sync/atomic"
	"unsafe"

	"github.com/llxisdsh/mapstress/internal/opt"
)

// paddedCounter keeps one hot counter per cache line.
type paddedCounter struct {
	n atomic.Uint64
	_ [opt.CacheLineSize - unsafe.Sizeof(uint64(0))%opt.CacheLineSize]byte
}

// Counters are the shared anomaly counters of a run.
//
// Workers only ever Add during a phase; the primary reads them after the
// closing barrier, reports, and resets them before the next iteration.
type Counters struct {
	_          noCopy
	errors     paddedCounter
	unsuccDel  paddedCounter
	found      paddedCounter
	outOfOrder paddedCounter
}

// Counts is a point-in-time copy of Counters.
type Counts struct {
	// Errors counts structural violations: duplicate inserts of unique
	// keys, round-trip mismatches, unexpected hits or misses.
	Errors uint64 `json:"errors"`
	// UnsuccessfulDeletes counts erases that found nothing during
	// interleaved insert/delete. Tolerated, reported apart from Errors.
	UnsuccessfulDeletes uint64 `json:"unsuccessful_deletes"`
	// Found counts keys located by a validation pass.
	Found uint64 `json:"found"`
	// OutOfOrder counts mixed-stream operations that failed because
	// workers applied dependent events out of generation order.
	OutOfOrder uint64 `json:"out_of_order"`
}

// AddErrors records structural violations. Zero is a no-op.
func (c *Counters) AddErrors(n uint64) {
	if n != 0 {
		c.errors.n.Add(n)
	}
}

// AddUnsuccessfulDeletes records tolerated erase failures.
func (c *Counters) AddUnsuccessfulDeletes(n uint64) {
	if n != 0 {
		c.unsuccDel.n.Add(n)
	}
}

// AddFound records keys located by a validation pass.
func (c *Counters) AddFound(n uint64) {
	if n != 0 {
		c.found.n.Add(n)
	}
}

// AddOutOfOrder records tolerated mixed-stream failures.
func (c *Counters) AddOutOfOrder(n uint64) {
	if n != 0 {
		c.outOfOrder.n.Add(n)
	}
}

// Load returns the current values.
func (c *Counters) Load() Counts {
	return Counts{
		Errors:              c.errors.n.Load(),
		UnsuccessfulDeletes: c.unsuccDel.n.Load(),
		Found:               c.found.n.Load(),
		OutOfOrder:          c.outOfOrder.n.Load(),
	}
}

// Reset zeroes every counter. Primary only, outside of phases.
func (c *Counters) Reset() {
	c.errors.n.Store(0)
	c.unsuccDel.n.Store(0)
	c.found.n.Store(0)
	c.outOfOrder.n.Store(0)
}

// IsZero reports whether all counts are zero.
func (c Counts) IsZero() bool {
	return c == Counts{}
}
