package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/llxisdsh/mapstress"
)

// Text prints one aligned row per result, with a header line before the
// first row of every test. Phase times are in milliseconds.
type Text struct {
	w    io.Writer
	last string
}

// NewText writes to w. Close does not close w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

func (t *Text) Write(r mapstress.Result) error {
	if r.Test != t.last {
		t.last = r.Test
		if _, err := io.WriteString(t.w, header(r)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(t.w, row(r))
	return err
}

func (t *Text) Close() error {
	return nil
}

func header(r mapstress.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%-9s %-3s %-10s %-10s %-3s", "table", "p", "n", "cap", "it")
	for _, p := range r.Params {
		fmt.Fprintf(&b, " %-8s", p.Name)
	}
	for _, p := range r.Phases {
		fmt.Fprintf(&b, " %-10s", p.Name)
	}
	for _, c := range counterColumns(r) {
		fmt.Fprintf(&b, " %-10s", c.name)
	}
	b.WriteString(" passed\n")
	return b.String()
}

func row(r mapstress.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %-3d %-10d %-10d %-3d", r.Table, r.Workers, r.Elements, r.Capacity, r.Iteration)
	for _, p := range r.Params {
		fmt.Fprintf(&b, " %-8g", p.Value)
	}
	for _, p := range r.Phases {
		fmt.Fprintf(&b, " %-10.3f", float64(p.Elapsed.Microseconds())/1000)
	}
	for _, c := range counterColumns(r) {
		fmt.Fprintf(&b, " %-10d", c.value)
	}
	fmt.Fprintf(&b, " %t\n", r.Passed)
	return b.String()
}

type column struct {
	name  string
	value uint64
}

// counterColumns selects the counters a test actually maintains.
func counterColumns(r mapstress.Result) []column {
	c := r.Counts
	switch r.Test {
	case mapstress.TestDelete:
		return []column{{"unsucc", c.UnsuccessfulDeletes}, {"remain", c.Found}, {"errors", c.Errors}}
	case mapstress.TestMixed:
		return []column{{"ooo", c.OutOfOrder}, {"bound", r.Bound}, {"errors", c.Errors}}
	default:
		return []column{{"errors", c.Errors}}
	}
}
