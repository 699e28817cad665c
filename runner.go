package mapstress

import (
	"fmt"

	"github.com/google/uuid"
)

// Runner executes one configured test against one table.
type Runner struct {
	Config Config
	Table  Table
	// Sink receives one Result per iteration. Nil discards them.
	Sink Sink
}

// Run applies defaults, validates the configuration, prepares the test
// buffers and drives the crew through every iteration. It returns the
// first configuration, preparation or sink error.
//
// Counted anomalies never fail Run; they are reported in each Result.
func (r *Runner) Run() error {
	cfg := r.Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if r.Table == nil {
		return fmt.Errorf("%w: no table", ErrUnknownTable)
	}
	test, err := NewTest(cfg.Test)
	if err != nil {
		return err
	}

	rc := NewRunContext(cfg, r.Table, r.Sink, uuid.NewString())
	if err := test.Prepare(rc); err != nil {
		return fmt.Errorf("mapstress: prepare %s: %w", test.Name(), err)
	}

	opts := []CrewOption{WithPinning(cfg.Pin)}
	if len(cfg.CPUs) > 0 {
		opts = append(opts, WithCPUs(cfg.CPUs...))
	}
	crew := NewCrew(cfg.Workers, opts...)
	if err := crew.Run(func(t *Thread) error {
		test.Execute(t, rc)
		return nil
	}); err != nil {
		return err
	}
	return rc.Err()
}
