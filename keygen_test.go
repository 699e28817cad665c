package mapstress

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// generate fills n keys with p workers.
func generate(t *testing.T, p, n, block int, g KeyGenerator) []uint64 {
	t.Helper()
	rc := NewRunContext(Config{}, nil, nil, "")
	rc.AllocKeys(n)
	err := NewCrew(p).Run(func(th *Thread) error {
		rc.Phase(th, 0, func() { GenerateKeys(rc, g, n, block) })
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return rc.Keys
}

func TestGenerateKeys_IndependentOfWorkers(t *testing.T) {
	gens := map[string]KeyGenerator{
		"uniform": Uniform{},
		"skewed":  Skewed{Zipf: NewZipf(5000, 0.9), Offset: MinKey},
		"sampled": Sampled{Source: SliceSource{5, 6, 7}},
	}
	for name, g := range gens {
		one := generate(t, 1, 20_000, 256, g)
		four := generate(t, 4, 20_000, 256, g)
		if !slices.Equal(one, four) {
			t.Errorf("%s: keys differ between p=1 and p=4", name)
		}
		if Fingerprint(one) != Fingerprint(four) {
			t.Errorf("%s: fingerprints differ", name)
		}
	}
}

func TestUniform_Bounds(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("keys stay within [Min, Max]", prop.ForAll(
		func(lo, span uint64, s int) bool {
			g := Uniform{Min: lo, Max: lo + span}
			dst := make([]uint64, s+64)
			g.Fill(dst, s, s+64)
			for _, k := range dst[s:] {
				if k < g.Min || k > g.Max {
					return false
				}
			}
			return true
		},
		gen.UInt64Range(1, 1<<40),
		gen.UInt64Range(0, 1<<20),
		gen.IntRange(0, 1<<16),
	))
	properties.TestingRun(t)
}

func TestUniform_DefaultRange(t *testing.T) {
	dst := make([]uint64, 4096)
	Uniform{}.Fill(dst, 0, len(dst))
	for _, k := range dst {
		if k < MinKey || k > MaxKey {
			t.Fatalf("key %d outside [%d, %d]", k, MinKey, MaxKey)
		}
	}
}

func TestSequential(t *testing.T) {
	dst := make([]uint64, 10)
	Sequential{}.Fill(dst, 3, 10)
	for i := 3; i < 10; i++ {
		if dst[i] != uint64(i) {
			t.Fatalf("dst[%d] = %d", i, dst[i])
		}
	}
	Sequential{Offset: 100}.Fill(dst, 0, 1)
	if dst[0] != 100 {
		t.Fatalf("dst[0] = %d, want 100", dst[0])
	}
}

func TestSkewed_RepeatsHotKeys(t *testing.T) {
	keys := generate(t, 2, 10_000, 512, Skewed{Zipf: NewZipf(10_000, 0.99), Offset: MinKey})
	hot := 0
	for _, k := range keys {
		if k < MinKey {
			t.Fatalf("key %d below offset", k)
		}
		if k == MinKey {
			hot++
		}
	}
	if hot < 100 {
		t.Errorf("hottest key drawn %d times out of 10000", hot)
	}
}

func TestFingerprint_Distinguishes(t *testing.T) {
	a := []uint64{1, 2, 3}
	b := []uint64{1, 2, 4}
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("different buffers share a fingerprint")
	}
	if Fingerprint(a) != Fingerprint(slices.Clone(a)) {
		t.Error("equal buffers differ")
	}
	if len(Fingerprint(nil)) != 32 {
		t.Error("fingerprint of empty buffer has wrong length")
	}
}
