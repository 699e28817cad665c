// Package adapter binds concurrent map implementations to the
// mapstress.Table contract.
//
// Every table stores uint64 keys and values. Handles hold no per-worker
// state, so acquisition returns a view of the current map and Release is a
// no-op.
//
// Adapters whose map offers no atomic conditional write implement the
// conditional operations as check-then-act sequences. Under contention
// those may report results no serial execution could produce; the harness
// counts them like any other anomaly.
package adapter

import (
	"fmt"
	"slices"

	"github.com/llxisdsh/mapstress"
)

var registry = map[string]func() mapstress.Table{
	"pb":      func() mapstress.Table { return new(PB) },
	"xsync":   func() mapstress.Table { return new(XSync) },
	"haxmap":  func() mapstress.Table { return new(HaxMap) },
	"fufuok":  func() mapstress.Table { return new(FufuokCMap) },
	"orcaman": func() mapstress.Table { return new(OrcamanCMap) },
	"csmap":   func() mapstress.Table { return new(SwissMap) },
	"skipmap": func() mapstress.Table { return new(SkipMap) },
	"lfmap":   func() mapstress.Table { return new(LFMap) },
	"syncmap": func() mapstress.Table { return new(SyncMap) },
	"sharded": func() mapstress.Table { return new(Sharded) },
	"locked":  func() mapstress.Table { return new(Locked) },
}

// New returns an empty table of the named implementation.
func New(name string) (mapstress.Table, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", mapstress.ErrUnknownTable, name, Names())
	}
	t := mk()
	t.Rebuild(0)
	return t, nil
}

// Names returns the registered implementation names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// release is embedded by handles that keep no state.
type release struct{}

func (release) Release() {}
