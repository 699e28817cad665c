package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/llxisdsh/mapstress"
	"github.com/llxisdsh/mapstress/internal/report"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTablesCommand(t *testing.T) {
	out, err := execute(t, "tables")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"pb", "xsync", "syncmap"} {
		if !strings.Contains(out, name+"\n") {
			t.Errorf("tables output lacks %s:\n%s", name, out)
		}
	}
}

func TestInsCommandTable(t *testing.T) {
	out, err := execute(t, "ins", "-n", "500", "-p", "2", "-i", "2", "--table", "locked")
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.Contains(lines[0], "t_find_+") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDelCommandJSONLAndSQLite(t *testing.T) {
	dir := t.TempDir()
	jsonl := filepath.Join(dir, "del.jsonl")
	db := filepath.Join(dir, "del.db")
	_, err := execute(t, "del", "-n", "2000", "--ws", "50", "-p", "2", "-i", "1",
		"--table", "sharded", "--format", "jsonl", "--out", jsonl, "--sqlite", db)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(jsonl)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	res, err := report.ReadJSONL(f)
	if err != nil || len(res) != 1 {
		t.Fatalf("read %d results: %v", len(res), err)
	}
	if res[0].Test != "del" || res[0].Counts.Found != 50 || !res[0].Passed {
		t.Fatalf("result %+v", res[0])
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("sqlite database not created: %v", err)
	}
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.yaml")
	if err := os.WriteFile(path, []byte("n: 400\np: 1\niterations: 1\ntable: pb\nwrite_percent: 0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := new(flags)
	cmd := &cobra.Command{Use: "mapstress"}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"--config", path, "-n", "800"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := f.config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Elements != 800 || cfg.Workers != 1 || cfg.WritePercent != 0.5 || cfg.Table != "pb" {
		t.Fatalf("resolved %+v", cfg)
	}
}

func TestUnknownTableAndFormat(t *testing.T) {
	if _, err := execute(t, "ins", "-n", "10", "--table", "nope"); !errors.Is(err, mapstress.ErrUnknownTable) {
		t.Errorf("unknown table: %v", err)
	}
	if _, err := execute(t, "ins", "-n", "10", "--table", "locked", "--format", "xml"); !errors.Is(err, mapstress.ErrInvalidConfig) {
		t.Errorf("unknown format: %v", err)
	}
}

func TestKeysCommandFeedsContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.sz")
	if _, err := execute(t, "keys", path, "-n", "1000", "--con", "0.9", "--snappy"); err != nil {
		t.Fatal(err)
	}
	src, err := mapstress.OpenFileSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Len() != 1000 {
		t.Fatalf("wrote %d keys", src.Len())
	}
	if _, err := execute(t, "con", "-n", "1000", "-p", "2", "-i", "1", "--table", "xsync", "--file", path); err != nil {
		t.Fatal(err)
	}
}
