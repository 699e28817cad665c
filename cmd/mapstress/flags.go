package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/llxisdsh/mapstress"
)

// flags are the persistent flags shared by every subcommand. Only flags set
// on the command line override the configuration file.
type flags struct {
	set  *pflag.FlagSet
	cfg  mapstress.Config
	file string
}

func (f *flags) register(cmd *cobra.Command) {
	d := mapstress.DefaultConfig()
	pf := cmd.PersistentFlags()
	f.set = pf
	pf.StringVar(&f.file, "config", "", "YAML configuration file")
	pf.StringVar(&f.cfg.Table, "table", d.Table, "map implementation under test")
	pf.IntVarP(&f.cfg.Elements, "n", "n", d.Elements, "number of keys")
	pf.IntVarP(&f.cfg.Workers, "p", "p", d.Workers, "number of workers")
	pf.IntVarP(&f.cfg.Capacity, "cap", "c", 0, "initial table capacity (default n, or ws for del)")
	pf.IntVarP(&f.cfg.Iterations, "it", "i", d.Iterations, "iterations")
	pf.IntVar(&f.cfg.BlockSize, "block", d.BlockSize, "indices claimed per cursor fetch")
	pf.IntVar(&f.cfg.WindowSize, "ws", 0, "live window of the delete test (default n/100)")
	pf.Float64Var(&f.cfg.WritePercent, "wperc", d.WritePercent, "mutation probability of the mixed stream")
	pf.IntVar(&f.cfg.Stream, "stream", 0, "events of the mixed stream (default n)")
	pf.Float64Var(&f.cfg.Skew, "con", d.Skew, "Zipf skew of the contention keys; 0 is uniform")
	pf.Float64Var(&f.cfg.MixSkew, "mskew", d.MixSkew, "Zipf skew of the mixed stream; 0 is uniform")
	pf.StringVar(&f.cfg.KeyFile, "file", "", "key file for the contention test")
	pf.Float64Var(&f.cfg.Tolerance, "tolerance", d.Tolerance, "out-of-order tolerance of the mixed test")
	pf.BoolVar(&f.cfg.UpdateInPlace, "update", false, "mixed stream updates live keys instead of deleting them")
	pf.Uint64Var(&f.cfg.Seed, "seed", d.Seed, "seed of the mixed stream")
	pf.BoolVar(&f.cfg.Pin, "pin", false, "pin workers to processing units")
	pf.IntSliceVar(&f.cfg.CPUs, "cpus", nil, "processing units to pin to")
	pf.StringVar(&f.cfg.Report.Format, "format", d.Report.Format, "output format: table or jsonl")
	pf.StringVar(&f.cfg.Report.Out, "out", "", "output file (default stdout)")
	pf.StringVar(&f.cfg.Report.SQLite, "sqlite", "", "also store results in this SQLite database")
}

// config resolves the configuration: defaults, then the file, then the
// environment, then the flags that were set explicitly.
func (f *flags) config() (mapstress.Config, error) {
	cfg := mapstress.DefaultConfig()
	if f.file != "" {
		var err error
		if cfg, err = mapstress.LoadConfig(f.file); err != nil {
			return cfg, err
		}
	}
	mapstress.LoadFromEnv(&cfg)
	for name, apply := range overrides {
		if fl := f.set.Lookup(name); fl != nil && fl.Changed {
			apply(&cfg, &f.cfg)
		}
	}
	return cfg, nil
}

var overrides = map[string]func(dst, src *mapstress.Config){
	"table":     func(d, s *mapstress.Config) { d.Table = s.Table },
	"n":         func(d, s *mapstress.Config) { d.Elements = s.Elements },
	"p":         func(d, s *mapstress.Config) { d.Workers = s.Workers },
	"cap":       func(d, s *mapstress.Config) { d.Capacity = s.Capacity },
	"it":        func(d, s *mapstress.Config) { d.Iterations = s.Iterations },
	"block":     func(d, s *mapstress.Config) { d.BlockSize = s.BlockSize },
	"ws":        func(d, s *mapstress.Config) { d.WindowSize = s.WindowSize },
	"wperc":     func(d, s *mapstress.Config) { d.WritePercent = s.WritePercent },
	"stream":    func(d, s *mapstress.Config) { d.Stream = s.Stream },
	"con":       func(d, s *mapstress.Config) { d.Skew = s.Skew },
	"mskew":     func(d, s *mapstress.Config) { d.MixSkew = s.MixSkew },
	"file":      func(d, s *mapstress.Config) { d.KeyFile = s.KeyFile },
	"tolerance": func(d, s *mapstress.Config) { d.Tolerance = s.Tolerance },
	"update":    func(d, s *mapstress.Config) { d.UpdateInPlace = s.UpdateInPlace },
	"seed":      func(d, s *mapstress.Config) { d.Seed = s.Seed },
	"pin":       func(d, s *mapstress.Config) { d.Pin = s.Pin },
	"cpus":      func(d, s *mapstress.Config) { d.CPUs = s.CPUs },
	"format":    func(d, s *mapstress.Config) { d.Report.Format = s.Report.Format },
	"out":       func(d, s *mapstress.Config) { d.Report.Out = s.Report.Out },
	"sqlite":    func(d, s *mapstress.Config) { d.Report.SQLite = s.Report.SQLite },
}
