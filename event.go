package mapstress

import (
	"math"
	"math/rand/v2"
)

// Op is the kind of a stream event.
type Op uint8

const (
	OpFind Op = iota
	OpInsert
	OpDelete
	OpUpdate
)

func (o Op) String() string {
	switch o {
	case OpFind:
		return "find"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpUpdate:
		return "update"
	}
	return "unknown"
}

// Event is one operation of a mixed stream. Index is the position of Key in
// the population; inserts and updates store EncodeIndex(Index).
type Event struct {
	Key   uint64
	Index uint32
	Op    Op
}

// Decision is the raw per-event randomness, produced in parallel and turned
// into events by Materialize.
type Decision struct {
	// Draw is a population index.
	Draw uint64
	// Mutate selects a write instead of a read.
	Mutate bool
}

// Mix parameterizes a mixed stream.
type Mix struct {
	// Weight is the probability in [0, 1] that an event mutates.
	Weight float64
	// Skew selects population indices by Zipf rank when positive, and
	// uniformly otherwise.
	Skew float64
	// Seed is mixed into every block seed.
	Seed uint64
	// UpdateInPlace turns mutations of live keys into updates instead of
	// deletes, so a mutation inserts an absent key and updates a present
	// one.
	UpdateInPlace bool
}

const eventStream uint64 = 0x6d69785f73747265

// EventGenerator turns a key population into a stream of dependent events.
//
// Generation has two halves. Decide is embarrassingly parallel and
// block-seeded like the key generators. Materialize walks the decisions in
// order on a single worker and tracks which population members are live,
// so that executing the stream in order on one worker never fails.
type EventGenerator struct {
	keys []uint64
	mix  Mix
	zipf *Zipf

	live []int32 // dense set of live population indices
	pos  []int32 // pos[i] is i's slot in live, or -1
}

// NewEventGenerator prepares a generator over keys. When mix.Skew > 0 the
// Zipf normalization is computed here once, in O(len(keys)).
//
// panic if keys is empty or larger than math.MaxInt32.
func NewEventGenerator(keys []uint64, mix Mix) *EventGenerator {
	if len(keys) == 0 || len(keys) > math.MaxInt32 {
		panic("mapstress: event population size out of range")
	}
	g := &EventGenerator{keys: keys, mix: mix}
	if mix.Skew > 0 {
		g.zipf = NewZipf(uint64(len(keys)), mix.Skew)
	}
	return g
}

// WithSeed returns a generator for another stream over the same population
// and distribution. Materialize state is not shared.
func (g *EventGenerator) WithSeed(seed uint64) *EventGenerator {
	mix := g.mix
	mix.Seed = seed
	return &EventGenerator{keys: g.keys, mix: mix, zipf: g.zipf}
}

// Mix returns the parameters of the stream.
func (g *EventGenerator) Mix() Mix {
	return g.mix
}

// Decide fills dst[s:e]. The result depends on s and the seed only.
func (g *EventGenerator) Decide(dst []Decision, s, e int) {
	r := rand.New(rand.NewPCG(uint64(s)*seedMultiplier, eventStream^g.mix.Seed))
	n := uint64(len(g.keys))
	var next func() uint64
	if g.zipf != nil {
		next = g.zipf.Sampler(r)
	} else {
		next = func() uint64 { return r.Uint64N(n) }
	}
	for i := s; i < e; i++ {
		// Draw first so a change of Weight keeps the index sequence.
		dst[i].Draw = next()
		dst[i].Mutate = r.Float64() < g.mix.Weight
	}
}

// Materialize converts decisions into events, in order. Every population
// member starts live, matching a prefilled table. Primary only.
func (g *EventGenerator) Materialize(decisions []Decision, events []Event) {
	g.resetLive()
	for i, d := range decisions {
		idx := int32(d.Draw)
		switch {
		case d.Mutate && g.isLive(idx):
			if g.mix.UpdateInPlace {
				events[i] = g.event(OpUpdate, idx)
				continue
			}
			g.remove(idx)
			events[i] = g.event(OpDelete, idx)
		case d.Mutate:
			g.add(idx)
			events[i] = g.event(OpInsert, idx)
		case g.isLive(idx):
			events[i] = g.event(OpFind, idx)
		case len(g.live) > 0:
			events[i] = g.event(OpFind, g.live[int(d.Draw)%len(g.live)])
		default:
			g.add(idx)
			events[i] = g.event(OpInsert, idx)
		}
	}
}

// Live returns the number of live population members after the last
// Materialize.
func (g *EventGenerator) Live() int {
	return len(g.live)
}

func (g *EventGenerator) event(op Op, idx int32) Event {
	return Event{Key: g.keys[idx], Index: uint32(idx), Op: op}
}

func (g *EventGenerator) resetLive() {
	n := len(g.keys)
	if cap(g.live) < n {
		g.live = make([]int32, n)
		g.pos = make([]int32, n)
	}
	g.live = g.live[:n]
	g.pos = g.pos[:n]
	for i := range n {
		g.live[i] = int32(i)
		g.pos[i] = int32(i)
	}
}

func (g *EventGenerator) isLive(idx int32) bool {
	return g.pos[idx] >= 0
}

func (g *EventGenerator) add(idx int32) {
	g.pos[idx] = int32(len(g.live))
	g.live = append(g.live, idx)
}

func (g *EventGenerator) remove(idx int32) {
	slot := g.pos[idx]
	last := g.live[len(g.live)-1]
	g.live[slot] = last
	g.pos[last] = slot
	g.live = g.live[:len(g.live)-1]
	g.pos[idx] = -1
}

// DecideEvents is the phase body that fills rc.Decisions up to end.
func DecideEvents(rc *RunContext, g *EventGenerator, end, block int) {
	rc.Cursor.Blockwise(end, block, func(s, e int) {
		g.Decide(rc.Decisions, s, e)
	})
}

// CopyEvents is the phase body that snapshots rc.Events into rc.Snapshot.
func CopyEvents(rc *RunContext, end, block int) {
	rc.Cursor.Blockwise(end, block, func(s, e int) {
		copy(rc.Snapshot[s:e], rc.Events[s:e])
	})
}
