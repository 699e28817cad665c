//go:build linux

package mapstress

import (
	"golang.org/x/sys/unix"
)

// pinToCPU binds the calling OS thread to cpu. The caller must have locked
// its goroutine to the thread.
func pinToCPU(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
