package mapstress

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Worker identifies one member of a Crew. It is created once per run and
// never changes. Exactly one worker, ID 0, is the primary: it owns every
// once-per-phase action (rebuilding the table, resetting the cursor and the
// counters, reporting).
type Worker struct {
	ID      int
	P       int
	Primary bool
}

// Crew owns a fixed pool of P workers that advance through phases together.
//
// Usage:
//
//	c := NewCrew(4, WithPinning(true))
//	err := c.Run(func(t *Thread) error {
//		if t.Primary {
//			cursor.Reset(0)
//		}
//		d := t.Synchronized(func() { cursor.Itemwise(n, 512, work) })
//		_ = d // wall time of the phase, measured on the primary
//		return nil
//	})
type Crew struct {
	p       int
	pin     bool
	cpus    []int
	barrier *Barrier
}

// CrewOption configures a Crew.
type CrewOption func(*Crew)

// WithPinning binds every worker to one processing unit for the whole run.
// Pinning is best effort; a worker that cannot be pinned keeps running.
func WithPinning(enabled bool) CrewOption {
	return func(c *Crew) {
		c.pin = enabled
	}
}

// WithCPUs sets the processing units workers are pinned to, by worker ID
// modulo len(cpus). Implies WithPinning(true).
func WithCPUs(cpus ...int) CrewOption {
	return func(c *Crew) {
		c.cpus = append([]int(nil), cpus...)
		c.pin = len(cpus) > 0
	}
}

// NewCrew creates a crew of p workers.
//
// panic if p <= 0.
func NewCrew(p int, opts ...CrewOption) *Crew {
	if p <= 0 {
		panic("mapstress: crew size must be positive")
	}
	c := &Crew{p: p, barrier: NewBarrier(p)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Workers returns the crew size.
func (c *Crew) Workers() int {
	return c.p
}

// Run starts one goroutine per worker, each locked to its own OS thread,
// and calls fn on all of them. It returns after every worker has returned,
// with the first non-nil error.
//
// fn must pass through the same sequence of barriers on every worker. A
// worker that returns early while others still wait on a barrier leaves
// them blocked forever.
func (c *Crew) Run(fn func(t *Thread) error) error {
	var g errgroup.Group
	for id := range c.p {
		t := &Thread{
			Worker: Worker{ID: id, P: c.p, Primary: id == 0},
			crew:   c,
			cpu:    -1,
		}
		g.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			if c.pin {
				t.cpu = c.cpuFor(t.ID)
				t.pinned = pinToCPU(t.cpu) == nil
			}
			return fn(t)
		})
	}
	return g.Wait()
}

func (c *Crew) cpuFor(id int) int {
	if len(c.cpus) > 0 {
		return c.cpus[id%len(c.cpus)]
	}
	return id % runtime.NumCPU()
}

// Thread is the view a single worker has of its crew.
type Thread struct {
	Worker
	crew   *Crew
	cpu    int
	pinned bool
}

// CPU returns the processing unit the worker was bound to, or -1.
func (t *Thread) CPU() int {
	if !t.pinned {
		return -1
	}
	return t.cpu
}

// Synchronize blocks until every worker of the crew has called it.
func (t *Thread) Synchronize() {
	t.crew.barrier.Await()
}

// Synchronized runs fn on every worker between two barriers. The primary
// returns the wall time from the moment all workers were aligned until the
// last one finished; the others return zero.
func (t *Thread) Synchronized(fn func()) time.Duration {
	_, d := SynchronizedValue(t, func() struct{} {
		fn()
		return struct{}{}
	})
	return d
}

// SynchronizedValue is Synchronized for phase bodies that produce a value.
// Each worker gets its own result back.
func SynchronizedValue[R any](t *Thread, fn func() R) (R, time.Duration) {
	t.Synchronize()
	var start time.Time
	if t.Primary {
		start = time.Now()
	}
	r := fn()
	t.Synchronize()
	if t.Primary {
		return r, time.Since(start)
	}
	return r, 0
}
