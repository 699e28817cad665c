package mapstress

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestCrew_PrimaryTimesPhase(t *testing.T) {
	const p = 4
	c := NewCrew(p)
	var durations [p]time.Duration
	var primaries atomic.Int32
	err := c.Run(func(th *Thread) error {
		if th.Primary {
			primaries.Add(1)
		}
		durations[th.ID] = th.Synchronized(func() {
			time.Sleep(time.Duration(th.ID+1) * time.Millisecond)
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if primaries.Load() != 1 {
		t.Fatalf("%d primaries, want 1", primaries.Load())
	}
	// The slowest worker sleeps p ms; the primary waits for it.
	if durations[0] < p*time.Millisecond {
		t.Errorf("primary measured %v, want >= %v", durations[0], p*time.Millisecond)
	}
	for id := 1; id < p; id++ {
		if durations[id] != 0 {
			t.Errorf("worker %d measured %v, want 0", id, durations[id])
		}
	}
}

func TestCrew_PrimaryWritesVisibleAfterBarrier(t *testing.T) {
	c := NewCrew(6)
	var shared int
	var bad atomic.Int32
	_ = c.Run(func(th *Thread) error {
		for round := range 50 {
			if th.Primary {
				shared = round
			}
			th.Synchronize()
			if shared != round {
				bad.Add(1)
			}
			th.Synchronize()
		}
		return nil
	})
	if bad.Load() != 0 {
		t.Errorf("%d stale reads after barrier", bad.Load())
	}
}

func TestSynchronizedValue(t *testing.T) {
	c := NewCrew(3)
	var sum atomic.Int64
	_ = c.Run(func(th *Thread) error {
		v, _ := SynchronizedValue(th, func() int { return th.ID * 10 })
		sum.Add(int64(v))
		return nil
	})
	if sum.Load() != 30 {
		t.Errorf("sum = %d, want 30", sum.Load())
	}
}

func TestCrew_RunReturnsError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCrew(3)
	err := c.Run(func(th *Thread) error {
		th.Synchronize()
		if th.ID == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want boom", err)
	}
}

func TestCrew_PinningBestEffort(t *testing.T) {
	c := NewCrew(2, WithCPUs(0))
	var cpus [2]int
	err := c.Run(func(th *Thread) error {
		cpus[th.ID] = th.CPU()
		th.Synchronize()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for id, cpu := range cpus {
		if cpu != 0 && cpu != -1 {
			t.Errorf("worker %d reports cpu %d", id, cpu)
		}
	}
}

func TestCrew_Unpinned(t *testing.T) {
	c := NewCrew(1)
	_ = c.Run(func(th *Thread) error {
		if th.CPU() != -1 {
			t.Errorf("unpinned worker reports cpu %d", th.CPU())
		}
		return nil
	})
}
