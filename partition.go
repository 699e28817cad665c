package mapstress

import (
	"sync/atomic"
	"unsafe"

	"github.com/llxisdsh/mapstress/internal/opt"
)

// DefaultBlockSize is the number of indices a worker claims per cursor
// fetch-and-add. Smaller blocks balance load better and contend more.
const DefaultBlockSize = 512

// Cursor divides an index range into disjoint blocks claimed on demand.
//
// The primary resets the cursor before a phase; inside the phase every
// worker claims blocks with a single atomic add, so each index of
// [start, end) is handed out exactly once under any interleaving.
// The cursor sits on its own cache line.
type Cursor struct {
	_   noCopy
	_   opt.CacheLinePad
	pos atomic.Uint64
	_   [opt.CacheLineSize - unsafe.Sizeof(uint64(0))%opt.CacheLineSize]byte
}

// Reset moves the cursor to start. Only the primary may call it, and only
// while no phase is running.
func (c *Cursor) Reset(start int) {
	c.pos.Store(uint64(start))
}

// Claim takes the next block and returns [s, e). ok is false once the
// cursor has passed end.
func (c *Cursor) Claim(end, block int) (s, e int, ok bool) {
	if block <= 0 {
		panic("mapstress: block size must be positive")
	}
	pos := c.pos.Add(uint64(block)) - uint64(block)
	if pos >= uint64(end) {
		return 0, 0, false
	}
	s = int(pos)
	return s, min(s+block, end), true
}

// Blockwise hands contiguous ranges to fn until the cursor passes end.
func (c *Cursor) Blockwise(end, block int, fn func(s, e int)) {
	for {
		s, e, ok := c.Claim(end, block)
		if !ok {
			return
		}
		fn(s, e)
	}
}

// Itemwise hands single indices to fn until the cursor passes end.
func (c *Cursor) Itemwise(end, block int, fn func(i int)) {
	for {
		s, e, ok := c.Claim(end, block)
		if !ok {
			return
		}
		for i := s; i < e; i++ {
			fn(i)
		}
	}
}

// StaticRange splits [start, end) into w.P contiguous slices and returns the
// one owned by w. Slices differ in length by at most one.
func StaticRange(w Worker, start, end int) (s, e int) {
	if end <= start {
		return start, start
	}
	n := end - start
	q, r := n/w.P, n%w.P
	s = start + w.ID*q + min(w.ID, r)
	e = s + q
	if w.ID < r {
		e++
	}
	return s, e
}
