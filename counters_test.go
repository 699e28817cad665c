package mapstress

import (
	"sync"
	"testing"
)

func TestCounters_AddAndReset(t *testing.T) {
	var c Counters
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				c.AddErrors(1)
				c.AddUnsuccessfulDeletes(2)
				c.AddFound(3)
				c.AddOutOfOrder(4)
			}
		}()
	}
	wg.Wait()

	want := Counts{Errors: 8000, UnsuccessfulDeletes: 16000, Found: 24000, OutOfOrder: 32000}
	if got := c.Load(); got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
	c.Reset()
	if got := c.Load(); !got.IsZero() {
		t.Fatalf("after Reset: %+v", got)
	}
}

func TestCounters_AddZero(t *testing.T) {
	var c Counters
	c.AddErrors(0)
	c.AddOutOfOrder(0)
	if !c.Load().IsZero() {
		t.Fatal("adding zero changed a counter")
	}
}

func TestIndexRoundTrip(t *testing.T) {
	for _, i := range []int{0, 1, 2, 1 << 20, 1<<40 + 7} {
		j, ok := DecodeIndex(EncodeIndex(i))
		if !ok || j != i {
			t.Errorf("DecodeIndex(EncodeIndex(%d)) = %d, %v", i, j, ok)
		}
	}
	for _, v := range []uint64{0, 1} {
		if _, ok := DecodeIndex(v); ok {
			t.Errorf("DecodeIndex(%d) accepted a reserved value", v)
		}
	}
}
