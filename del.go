package mapstress

// Delete keeps a sliding window of live keys. After a prefill of the first
// ws keys, every worker inserts its static share of the next n keys and,
// after each insert, erases the oldest key it owns: first its share of the
// prefill, then its own inserts. A validation pass counts what is left.
//
// Stages: t_del, t_val. Passes when no errors were counted and the
// remaining keys equal ws plus the unsuccessful deletes.
type Delete struct{}

func (*Delete) Name() string { return TestDelete }

func (*Delete) Prepare(rc *RunContext) error {
	rc.AllocKeys(rc.Config.WindowSize + rc.Config.Elements)
	return nil
}

func (*Delete) Execute(t *Thread, rc *RunContext) {
	ws, n, block := rc.Config.WindowSize, rc.Config.Elements, rc.Config.BlockSize
	total := ws + n
	rc.Phase(t, 0, func() {
		GenerateKeys(rc, Sequential{}, total, block)
	})

	// Erase order of this worker: its prefill share, then its inserts.
	ds, de := StaticRange(t.Worker, 0, ws)
	is, ie := StaticRange(t.Worker, ws, total)
	victim := func(k int) int {
		if k < de-ds {
			return ds + k
		}
		return is + k - (de - ds)
	}

	var tDel, tVal Phase
	rc.Iterate(t, rc.Config.Capacity, func(it int, h Handle) {
		rc.Phase(t, 0, func() {
			rc.Cursor.Blockwise(ws, block, func(s, e int) {
				var errs uint64
				for i := s; i < e; i++ {
					if !h.Insert(rc.Keys[i], EncodeIndex(i)) {
						errs++
					}
				}
				rc.Counters.AddErrors(errs)
			})
		})
		tDel = Phase{"t_del", rc.Phase(t, 0, func() {
			var errs, unsucc uint64
			for k, i := 0, is; i < ie; k, i = k+1, i+1 {
				if !h.Insert(rc.Keys[i], EncodeIndex(i)) {
					errs++
				}
				if !h.Erase(rc.Keys[victim(k)]) {
					unsucc++
				}
			}
			rc.Counters.AddErrors(errs)
			rc.Counters.AddUnsuccessfulDeletes(unsucc)
		})}
		tVal = Phase{"t_val", rc.Phase(t, 0, func() {
			rc.Cursor.Blockwise(total, block, func(s, e int) {
				var errs, found uint64
				for i := s; i < e; i++ {
					v, ok := h.Find(rc.Keys[i])
					if !ok {
						continue
					}
					found++
					if j, ok := DecodeIndex(v); !ok || j != i {
						errs++
					}
				}
				rc.Counters.AddErrors(errs)
				rc.Counters.AddFound(found)
			})
		})}
	}, func(it int) Result {
		c := rc.Counters.Load()
		return Result{
			Test:      TestDelete,
			Iteration: it,
			Capacity:  rc.Config.Capacity,
			Params:    []Param{{"w_size", float64(ws)}},
			Phases:    []Phase{tDel, tVal},
			Counts:    c,
			Passed:    c.Errors == 0 && c.Found == uint64(ws)+c.UnsuccessfulDeletes,
		}
	})
}
