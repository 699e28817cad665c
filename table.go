package mapstress

// Table is the contract every concurrent map under test exposes to the
// harness.
//
// Rebuild is only ever called by the primary while all other workers are
// parked on a barrier, so implementations need no synchronization there.
// Handles obtained before a Rebuild must not be used after it.
type Table interface {
	// Name identifies the implementation in reports.
	Name() string

	// Rebuild discards the current contents and starts over with room for
	// capacity entries.
	Rebuild(capacity int)

	// Handle returns an accessor owned by w. It is the acquisition hook:
	// implementations that keep per-worker state set it up here.
	Handle(w Worker) Handle
}

// Handle is a worker-scoped accessor into a Table. A handle is never shared
// between workers; its thread-safety with respect to other handles of the
// same table is the implementation's business.
type Handle interface {
	// Insert stores value under key if key is absent.
	// It reports false if key was already present.
	Insert(key, value uint64) bool

	// Find returns the value stored under key. ok is false when the key is
	// absent, which plays the role of the "end" sentinel.
	Find(key uint64) (value uint64, ok bool)

	// Update replaces the value under key with fn(current, arg) and returns
	// the new value. ok is false, and nothing is stored, if key is absent.
	Update(key uint64, fn Combiner, arg uint64) (value uint64, ok bool)

	// InsertOrUpdate inserts value if key is absent, otherwise replaces the
	// current value with fn(current, arg). It reports whether it inserted.
	InsertOrUpdate(key, value uint64, fn Combiner, arg uint64) (inserted bool)

	// Erase removes key and reports whether an entry was removed.
	Erase(key uint64) bool

	// Release is the retirement hook. The handle must not be used after it.
	Release()
}

// Combiner computes the new value of an entry from its current value and an
// argument.
type Combiner func(current, arg uint64) uint64

// Overwrite replaces the current value with arg.
func Overwrite(_, arg uint64) uint64 {
	return arg
}

// Increment adds arg to the current value.
func Increment(current, arg uint64) uint64 {
	return current + arg
}

// EncodeIndex returns the value stored for the key at index i. Values 0 and
// 1 are never produced, so an adapter that uses them as sentinels cannot
// confuse a stored value with a miss.
func EncodeIndex(i int) uint64 {
	return uint64(i) + 2
}

// DecodeIndex inverts EncodeIndex. ok is false for the reserved values.
func DecodeIndex(v uint64) (i int, ok bool) {
	if v < 2 {
		return 0, false
	}
	return int(v - 2), true
}
