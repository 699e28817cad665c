package mapstress

// Mixed executes a stream of dependent finds, inserts and deletes (or
// updates) over a prefilled population. The stream is consistent when
// replayed in order by one worker; with several workers an event may run
// before the event it depends on, which is counted as out of order.
//
// Stage: t_mix. Passes when out_of_order ≤ Tolerance × S × (p−1) and no
// value failed its round trip.
type Mixed struct {
	gen *EventGenerator
	cur *EventGenerator
}

func (*Mixed) Name() string { return TestMixed }

func (m *Mixed) Prepare(rc *RunContext) error {
	rc.AllocKeys(rc.Config.Elements)
	rc.AllocEvents(rc.Config.Stream)
	return nil
}

func (m *Mixed) Execute(t *Thread, rc *RunContext) {
	cfg := &rc.Config
	n, stream, block := cfg.Elements, cfg.Stream, cfg.BlockSize
	rc.Phase(t, 0, func() {
		GenerateKeys(rc, Uniform{}, n, block)
	})
	if t.Primary {
		m.gen = NewEventGenerator(rc.Keys, mixOf(cfg))
	}

	var tMix Phase
	rc.Iterate(t, cfg.Capacity, func(it int, h Handle) {
		if t.Primary {
			m.cur = m.gen.WithSeed(cfg.Seed + uint64(it))
		}
		rc.Phase(t, 0, func() {
			DecideEvents(rc, m.cur, stream, block)
		})
		t.Synchronized(func() {
			if t.Primary {
				m.cur.Materialize(rc.Decisions, rc.Events)
			}
		})
		rc.Phase(t, 0, func() {
			CopyEvents(rc, stream, block)
		})
		rc.Phase(t, 0, func() {
			rc.Cursor.Blockwise(n, block, func(s, e int) {
				var ooo uint64
				for i := s; i < e; i++ {
					if !h.Insert(rc.Keys[i], EncodeIndex(i)) {
						ooo++
					}
				}
				rc.Counters.AddOutOfOrder(ooo)
			})
		})
		tMix = Phase{"t_mix", rc.Phase(t, 0, func() {
			var ooo, errs uint64
			rc.Cursor.Itemwise(stream, block, func(i int) {
				ev := &rc.Snapshot[i]
				want := EncodeIndex(int(ev.Index))
				switch ev.Op {
				case OpFind:
					v, ok := h.Find(ev.Key)
					if !ok {
						ooo++
					} else if v != want {
						errs++
					}
				case OpInsert:
					if !h.Insert(ev.Key, want) {
						ooo++
					}
				case OpDelete:
					if !h.Erase(ev.Key) {
						ooo++
					}
				case OpUpdate:
					if _, ok := h.Update(ev.Key, Overwrite, want); !ok {
						ooo++
					}
				}
			})
			rc.Counters.AddOutOfOrder(ooo)
			rc.Counters.AddErrors(errs)
		})}
	}, func(it int) Result {
		c := rc.Counters.Load()
		bound := cfg.OutOfOrderBound()
		return Result{
			Test:      TestMixed,
			Iteration: it,
			Capacity:  cfg.Capacity,
			Params:    []Param{{"w_per", cfg.WritePercent}, {"stream", float64(stream)}},
			Phases:    []Phase{tMix},
			Counts:    c,
			Bound:     bound,
			Passed:    c.Errors == 0 && c.OutOfOrder <= bound,
		}
	})
}

func mixOf(cfg *Config) Mix {
	return Mix{
		Weight:        cfg.WritePercent,
		Skew:          cfg.MixSkew,
		Seed:          cfg.Seed,
		UpdateInPlace: cfg.UpdateInPlace,
	}
}
