package mapstress

import (
	"fmt"
	"time"
)

// RunContext holds everything the workers of one run share: the cursor,
// the counters, the generated buffers and the table. It is created by the
// Runner and handed to every phase body; nothing in it is global.
//
// Buffers are written inside phases at disjoint indices and read only
// after the closing barrier. Every other field is touched by the primary
// alone.
type RunContext struct {
	Cursor   Cursor
	Counters Counters

	Keys      []uint64
	Decisions []Decision
	Events    []Event
	Snapshot  []Event

	Config Config
	Table  Table

	runID string
	sink  Sink
	err   error
}

// NewRunContext prepares a context for cfg. A nil sink discards results.
func NewRunContext(cfg Config, table Table, sink Sink, runID string) *RunContext {
	if sink == nil {
		sink = Discard
	}
	return &RunContext{Config: cfg, Table: table, sink: sink, runID: runID}
}

// RunID returns the identifier stamped on every result.
func (rc *RunContext) RunID() string {
	return rc.runID
}

// AllocKeys sizes the key buffer.
func (rc *RunContext) AllocKeys(n int) {
	rc.Keys = make([]uint64, n)
}

// AllocEvents sizes the decision, event and snapshot buffers.
func (rc *RunContext) AllocEvents(n int) {
	rc.Decisions = make([]Decision, n)
	rc.Events = make([]Event, n)
	rc.Snapshot = make([]Event, n)
}

// Phase resets the cursor to start on the primary and runs fn on every
// worker between barriers. The duration is only meaningful on the primary.
func (rc *RunContext) Phase(t *Thread, start int, fn func()) time.Duration {
	if t.Primary {
		rc.Cursor.Reset(start)
	}
	return t.Synchronized(fn)
}

// Iterate runs the per-iteration lifecycle shared by every test: the
// primary rebuilds the table, all workers acquire a handle, body runs the
// test stages, the handle is released and the primary reports and resets
// the counters. report is called on the primary only.
func (rc *RunContext) Iterate(t *Thread, capacity int, body func(it int, h Handle), report func(it int) Result) {
	for it := range rc.Config.Iterations {
		if t.Primary {
			rc.Table.Rebuild(capacity)
		}
		t.Synchronize()
		h := rc.Table.Handle(t.Worker)
		t.Synchronize()

		body(it, h)

		h.Release()
		t.Synchronize()
		if t.Primary {
			rc.Emit(report(it))
			rc.Counters.Reset()
		}
	}
}

// Emit stamps r with the run identity and hands it to the sink. Only the
// first sink error is kept.
func (rc *RunContext) Emit(r Result) {
	r.RunID = rc.runID
	r.Table = rc.Table.Name()
	r.Workers = rc.Config.Workers
	r.Elements = rc.Config.Elements
	if err := rc.sink.Write(r); err != nil && rc.err == nil {
		rc.err = fmt.Errorf("mapstress: write result: %w", err)
	}
}

// Err returns the first error reported by the sink.
func (rc *RunContext) Err() error {
	return rc.err
}
