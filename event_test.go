package mapstress

import (
	"testing"
)

// stream decides and materializes n events over keys with one goroutine.
func stream(keys []uint64, mix Mix, n, block int) []Event {
	g := NewEventGenerator(keys, mix)
	d := make([]Decision, n)
	for s := 0; s < n; s += block {
		g.Decide(d, s, min(s+block, n))
	}
	ev := make([]Event, n)
	g.Materialize(d, ev)
	return ev
}

func population(n int) []uint64 {
	keys := make([]uint64, n)
	Uniform{}.Fill(keys, 0, n)
	return keys
}

func TestEvents_SerialReplaySucceeds(t *testing.T) {
	keys := population(500)
	for _, mix := range []Mix{
		{Weight: 0.5, Seed: 1},
		{Weight: 0.9, Skew: 0.99, Seed: 2},
		{Weight: 1, Seed: 3},
		{Weight: 0.3, Skew: 1.5, Seed: 4, UpdateInPlace: true},
	} {
		live := make(map[uint64]bool, len(keys))
		for _, k := range keys {
			live[k] = true
		}
		for i, ev := range stream(keys, mix, 5000, 128) {
			if ev.Key != keys[ev.Index] {
				t.Fatalf("%+v: event %d key does not match its index", mix, i)
			}
			switch ev.Op {
			case OpFind, OpUpdate:
				if !live[ev.Key] {
					t.Fatalf("%+v: event %d %v of a dead key", mix, i, ev.Op)
				}
			case OpInsert:
				if live[ev.Key] {
					t.Fatalf("%+v: event %d inserts a live key", mix, i)
				}
				live[ev.Key] = true
			case OpDelete:
				if !live[ev.Key] {
					t.Fatalf("%+v: event %d deletes a dead key", mix, i)
				}
				delete(live, ev.Key)
			}
		}
	}
}

func TestEvents_WeightZeroOnlyFinds(t *testing.T) {
	for _, ev := range stream(population(100), Mix{Seed: 9}, 1000, 64) {
		if ev.Op != OpFind {
			t.Fatalf("op %v with weight 0", ev.Op)
		}
	}
}

func TestEvents_UpdateInPlaceNeverDeletes(t *testing.T) {
	for _, ev := range stream(population(100), Mix{Weight: 1, UpdateInPlace: true}, 1000, 64) {
		if ev.Op != OpUpdate {
			t.Fatalf("op %v, want only updates", ev.Op)
		}
	}
}

func TestEvents_Deterministic(t *testing.T) {
	keys := population(300)
	mix := Mix{Weight: 0.4, Skew: 0.8, Seed: 42}
	a := stream(keys, mix, 4000, 100)
	b := stream(keys, mix, 4000, 100)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("event %d differs between identical runs", i)
		}
	}
	mix.Seed++
	c := stream(keys, mix, 4000, 100)
	same := 0
	for i := range a {
		if a[i] == c[i] {
			same++
		}
	}
	if same == len(a) {
		t.Fatal("a new seed produced the same stream")
	}
}

func TestEvents_WithSeedKeepsPopulation(t *testing.T) {
	g := NewEventGenerator(population(10), Mix{Weight: 1, Seed: 1})
	h := g.WithSeed(7)
	if h.Mix().Seed != 7 || h.Mix().Weight != 1 {
		t.Fatalf("WithSeed mix = %+v", h.Mix())
	}
	d := make([]Decision, 20)
	h.Decide(d, 0, 20)
	ev := make([]Event, 20)
	h.Materialize(d, ev)
	if h.Live() > 10 {
		t.Fatalf("live = %d exceeds population", h.Live())
	}
	if g.Live() != 0 {
		t.Fatal("WithSeed shares live state")
	}
}

func TestOpString(t *testing.T) {
	for op, want := range map[Op]string{OpFind: "find", OpInsert: "insert", OpDelete: "delete", OpUpdate: "update", 9: "unknown"} {
		if op.String() != want {
			t.Errorf("Op(%d).String() = %q, want %q", op, op.String(), want)
		}
	}
}

func TestEvents_DefaultConfigIsUniform(t *testing.T) {
	const n = 20_000
	hottest := func(cfg Config) (int, int) {
		ev := stream(population(n), mixOf(&cfg), n, 512)
		counts := make(map[uint32]int)
		top := 0
		for _, e := range ev {
			counts[e.Index]++
			top = max(top, counts[e.Index])
		}
		return top, len(counts)
	}

	cfg := DefaultConfig()
	if m := mixOf(&cfg); m.Skew != 0 {
		t.Fatalf("default mixed skew %v, want 0", m.Skew)
	}
	top, distinct := hottest(cfg)
	if top > 20 || distinct < n/2 {
		t.Fatalf("uniform stream: hottest key %d events, %d distinct keys", top, distinct)
	}

	cfg.MixSkew = 0.99
	if top, _ := hottest(cfg); top < 200 {
		t.Fatalf("skewed stream: hottest key only %d events", top)
	}
}
