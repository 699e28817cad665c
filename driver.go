package mapstress

import (
	"fmt"
	"slices"
)

// Test is a staged workload. Prepare runs once on the calling goroutine
// before any worker starts; Execute runs on every worker of the crew and
// must pass through the same barriers on all of them.
type Test interface {
	Name() string
	Prepare(rc *RunContext) error
	Execute(t *Thread, rc *RunContext)
}

var tests = map[string]func() Test{
	TestInsert:     func() Test { return new(Insert) },
	TestContention: func() Test { return new(Contention) },
	TestDelete:     func() Test { return new(Delete) },
	TestMixed:      func() Test { return new(Mixed) },
}

// NewTest returns the driver registered under name.
func NewTest(name string) (Test, error) {
	mk, ok := tests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTest, name)
	}
	return mk(), nil
}

// Tests returns the registered test names, sorted.
func Tests() []string {
	names := make([]string, 0, len(tests))
	for name := range tests {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
