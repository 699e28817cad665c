package mapstress

import "time"

// Param is a named test parameter reported with a Result, such as the
// window size of the delete test.
type Param struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Phase is the measured wall time of one timed stage.
type Phase struct {
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Result is the record emitted by the primary at the end of every
// iteration.
type Result struct {
	RunID       string  `json:"run_id"`
	Test        string  `json:"test"`
	Table       string  `json:"table"`
	Iteration   int     `json:"iteration"`
	Workers     int     `json:"p"`
	Elements    int     `json:"n"`
	Capacity    int     `json:"cap"`
	Params      []Param `json:"params,omitempty"`
	Phases      []Phase `json:"phases"`
	Counts      Counts  `json:"counts"`
	Bound       uint64  `json:"bound"`
	Fingerprint string  `json:"keys,omitempty"`
	Passed      bool    `json:"passed"`
}

// Phase returns the elapsed time of the named phase.
func (r *Result) Phase(name string) (time.Duration, bool) {
	for _, p := range r.Phases {
		if p.Name == name {
			return p.Elapsed, true
		}
	}
	return 0, false
}

// Sink receives results. Write is only ever called from the primary, so
// implementations need not be safe for concurrent use.
type Sink interface {
	Write(r Result) error
	Close() error
}

// Collector is a Sink that keeps every result in memory.
type Collector struct {
	Results []Result
}

func (c *Collector) Write(r Result) error {
	c.Results = append(c.Results, r)
	return nil
}

func (c *Collector) Close() error {
	return nil
}

// Discard is a Sink that drops every result.
var Discard Sink = discard{}

type discard struct{}

func (discard) Write(Result) error { return nil }
func (discard) Close() error       { return nil }
