package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/llxisdsh/mapstress"
	"github.com/llxisdsh/mapstress/adapter"
	"github.com/llxisdsh/mapstress/internal/report"
)

// errFailed is returned when at least one iteration did not pass.
var errFailed = errors.New("mapstress: validation failed")

func newTestCmd(name, short string, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config()
			if err != nil {
				return err
			}
			cfg.Test = name
			return run(cfg, cmd.OutOrStdout())
		},
	}
}

func run(cfg mapstress.Config, stdout io.Writer) error {
	table, err := adapter.New(cfg.Table)
	if err != nil {
		return err
	}
	sink, err := openSinks(cfg.Report, stdout)
	if err != nil {
		return err
	}
	// Counts failed iterations on the way to the real sinks.
	tally := &tally{next: sink}

	log.Printf("mapstress: %s on %s, p=%d n=%d", cfg.Test, cfg.Table, cfg.Workers, cfg.Elements)
	r := mapstress.Runner{Config: cfg, Table: table, Sink: tally}
	runErr := r.Run()
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	if tally.failed > 0 {
		log.Printf("mapstress: %d of %d iterations failed", tally.failed, tally.total)
		return errFailed
	}
	return nil
}

func openSinks(rc mapstress.ReportConfig, stdout io.Writer) (mapstress.Sink, error) {
	w := stdout
	var file *os.File
	if rc.Out != "" {
		var err error
		if file, err = os.Create(rc.Out); err != nil {
			return nil, fmt.Errorf("mapstress: create output: %w", err)
		}
		w = file
	}
	var sinks report.Multi
	switch rc.Format {
	case "", "table":
		sinks = append(sinks, report.NewText(w))
	case "jsonl":
		sinks = append(sinks, report.NewJSONL(w))
	default:
		if file != nil {
			file.Close()
		}
		return nil, &mapstress.ConfigError{Field: "format", Reason: fmt.Sprintf("unknown format %q", rc.Format)}
	}
	if rc.SQLite != "" {
		db, err := report.OpenSQLite(rc.SQLite)
		if err != nil {
			_ = sinks.Close()
			if file != nil {
				file.Close()
			}
			return nil, err
		}
		sinks = append(sinks, db)
	}
	if file != nil {
		sinks = append(sinks, report.CloseOnly(file))
	}
	return sinks, nil
}

type tally struct {
	next          mapstress.Sink
	total, failed int
}

func (t *tally) Write(r mapstress.Result) error {
	t.total++
	if !r.Passed {
		t.failed++
	}
	return t.next.Write(r)
}

func (t *tally) Close() error { return nil }

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the map implementations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range adapter.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newKeysCmd(f *flags) *cobra.Command {
	var compress bool
	cmd := &cobra.Command{
		Use:   "keys FILE",
		Short: "Write n Zipf keys to a file usable with --file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config()
			if err != nil {
				return err
			}
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			var gen mapstress.KeyGenerator = mapstress.Uniform{}
			if cfg.Skew > 0 {
				gen = mapstress.Skewed{Zipf: mapstress.NewZipf(uint64(cfg.Elements), cfg.Skew), Offset: mapstress.MinKey}
			}
			// Same blocks as the harness, so the fingerprints match.
			keys := make([]uint64, cfg.Elements)
			for s := 0; s < len(keys); s += cfg.BlockSize {
				gen.Fill(keys, s, min(s+cfg.BlockSize, len(keys)))
			}

			file, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := mapstress.WriteKeys(file, keys, compress); err != nil {
				file.Close()
				return err
			}
			log.Printf("mapstress: wrote %d keys to %s (%s)", len(keys), args[0], mapstress.Fingerprint(keys))
			return file.Close()
		},
	}
	cmd.Flags().BoolVar(&compress, "snappy", false, "snappy framed output")
	return cmd
}
