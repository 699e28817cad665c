package mapstress

// Contention drives n keys with many repeats, drawn from a Zipf
// distribution or from a key file, through a fill, a contended overwrite
// and a contended lookup.
//
// Stages: t_ins_or, t_updt_c, t_find_c. Passes when no errors were counted.
type Contention struct {
	gen KeyGenerator
}

func (*Contention) Name() string { return TestContention }

func (c *Contention) Prepare(rc *RunContext) error {
	cfg := &rc.Config
	switch {
	case cfg.KeyFile != "":
		src, err := OpenFileSource(cfg.KeyFile)
		if err != nil {
			return err
		}
		c.gen = Sampled{Source: src}
	case cfg.Skew > 0:
		c.gen = Skewed{Zipf: NewZipf(uint64(cfg.Elements), cfg.Skew), Offset: MinKey}
	default:
		c.gen = Uniform{Min: MinKey, Max: MinKey + uint64(cfg.Elements) - 1}
	}
	rc.AllocKeys(cfg.Elements)
	return nil
}

func (c *Contention) Execute(t *Thread, rc *RunContext) {
	n, block := rc.Config.Elements, rc.Config.BlockSize
	rc.Phase(t, 0, func() {
		GenerateKeys(rc, c.gen, n, block)
	})

	var tFill, tUpdate, tFind Phase
	rc.Iterate(t, rc.Config.Capacity, func(it int, h Handle) {
		tFill = Phase{"t_ins_or", rc.Phase(t, 0, func() {
			rc.Cursor.Blockwise(n, block, func(s, e int) {
				var errs uint64
				for i := s; i < e; i++ {
					if !fill(h, rc.Keys[i], i) {
						errs++
					}
				}
				rc.Counters.AddErrors(errs)
			})
		})}
		tUpdate = Phase{"t_updt_c", rc.Phase(t, 0, func() {
			var errs uint64
			rc.Cursor.Itemwise(n, block, func(i int) {
				v, ok := h.Update(rc.Keys[i], Overwrite, EncodeIndex(i))
				if !ok || v != EncodeIndex(i) {
					errs++
				}
			})
			rc.Counters.AddErrors(errs)
		})}
		tFind = Phase{"t_find_c", rc.Phase(t, 0, func() {
			var errs uint64
			rc.Cursor.Itemwise(n, block, func(i int) {
				if !roundTrip(h, rc.Keys, i, n) {
					errs++
				}
			})
			rc.Counters.AddErrors(errs)
		})}
	}, func(it int) Result {
		cnt := rc.Counters.Load()
		return Result{
			Test:        TestContention,
			Iteration:   it,
			Capacity:    rc.Config.Capacity,
			Params:      []Param{{"con", rc.Config.Skew}},
			Phases:      []Phase{tFill, tUpdate, tFind},
			Counts:      cnt,
			Fingerprint: Fingerprint(rc.Keys),
			Passed:      cnt.Errors == 0,
		}
	})
}
