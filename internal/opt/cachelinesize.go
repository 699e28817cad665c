package opt

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the padding unit used to keep hot shared words (the
// partition cursor, the error counters) on cache lines of their own.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})

// CacheLinePad occupies one full cache line.
type CacheLinePad = cpu.CacheLinePad
