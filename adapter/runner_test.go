package adapter

import (
	"testing"

	"github.com/llxisdsh/mapstress"
)

// Every table runs every test with a single worker, where no race can
// excuse a failure.
func TestRunnerSingleWorker(t *testing.T) {
	for _, name := range Names() {
		for _, test := range mapstress.Tests() {
			t.Run(name+"/"+test, func(t *testing.T) {
				tbl, _ := New(name)
				var out mapstress.Collector
				r := mapstress.Runner{
					Config: mapstress.Config{
						Test:         test,
						Elements:     1000,
						Workers:      1,
						Iterations:   2,
						BlockSize:    64,
						WritePercent: 0.3,
						Skew:         0.8,
						Seed:         3,
					},
					Table: tbl,
					Sink:  &out,
				}
				if err := r.Run(); err != nil {
					t.Fatal(err)
				}
				if len(out.Results) != 2 {
					t.Fatalf("got %d results, want 2", len(out.Results))
				}
				for _, res := range out.Results {
					if !res.Passed {
						t.Errorf("iteration %d failed: %+v", res.Iteration, res.Counts)
					}
					if res.Table != name {
						t.Errorf("result table = %q", res.Table)
					}
				}
			})
		}
	}
}

// The atomic tables must pass the contended tests with several workers.
func TestRunnerContended(t *testing.T) {
	for _, name := range []string{"pb", "xsync", "syncmap", "sharded", "locked", "csmap"} {
		for _, test := range mapstress.Tests() {
			t.Run(name+"/"+test, func(t *testing.T) {
				tbl, _ := New(name)
				var out mapstress.Collector
				r := mapstress.Runner{
					Config: mapstress.Config{
						Test:       test,
						Elements:   5000,
						Workers:    4,
						Iterations: 1,
						BlockSize:  32,
						Skew:       0.99,
						Tolerance:  1,
						Seed:       1,
					},
					Table: tbl,
					Sink:  &out,
				}
				if err := r.Run(); err != nil {
					t.Fatal(err)
				}
				for _, res := range out.Results {
					if !res.Passed {
						t.Errorf("%+v", res)
					}
				}
			})
		}
	}
}
