package mapstress

// Insert fills the table with n unique keys, then checks that n other keys
// are absent and that every inserted key maps back to its own index.
//
// Stages: t_ins, t_find_-, t_find_+. Passes when no errors were counted.
type Insert struct{}

func (*Insert) Name() string { return TestInsert }

func (*Insert) Prepare(rc *RunContext) error {
	rc.AllocKeys(2 * rc.Config.Elements)
	return nil
}

func (*Insert) Execute(t *Thread, rc *RunContext) {
	n, block := rc.Config.Elements, rc.Config.BlockSize
	rc.Phase(t, 0, func() {
		GenerateKeys(rc, Uniform{}, 2*n, block)
	})

	var tIns, tMiss, tHit Phase
	rc.Iterate(t, rc.Config.Capacity, func(it int, h Handle) {
		tIns = Phase{"t_ins", rc.Phase(t, 0, func() {
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
		tMiss = Phase{"t_find_-", rc.Phase(t, n, func() {
			rc.Cursor.Blockwise(2*n, block, func(s, e int) {
				var errs uint64
				for i := s; i < e; i++ {
					if _, ok := h.Find(rc.Keys[i]); ok {
						errs++
					}
				}
				rc.Counters.AddErrors(errs)
			})
		})}
		tHit = Phase{"t_find_+", rc.Phase(t, 0, func() {
			rc.Cursor.Blockwise(n, block, func(s, e int) {
				var errs uint64
				for i := s; i < e; i++ {
					if !roundTrip(h, rc.Keys, i, n) {
						errs++
					}
				}
				rc.Counters.AddErrors(errs)
			})
		})}
	}, func(it int) Result {
		c := rc.Counters.Load()
		return Result{
			Test:        TestInsert,
			Iteration:   it,
			Capacity:    rc.Config.Capacity,
			Phases:      []Phase{tIns, tMiss, tHit},
			Counts:      c,
			Fingerprint: Fingerprint(rc.Keys),
			Passed:      c.Errors == 0,
		}
	})
}

// fill inserts key with the value of index i. A refused insert is fine
// when the key is already present, as for a repeated key.
func fill(h Handle, key uint64, i int) bool {
	if h.Insert(key, EncodeIndex(i)) {
		return true
	}
	_, ok := h.Find(key)
	return ok
}

// roundTrip looks up keys[i] and reports whether the stored value decodes
// to an index below limit holding the same key.
func roundTrip(h Handle, keys []uint64, i, limit int) bool {
	v, ok := h.Find(keys[i])
	if !ok {
		return false
	}
	j, ok := DecodeIndex(v)
	return ok && j < limit && keys[j] == keys[i]
}
