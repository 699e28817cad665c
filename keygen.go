package mapstress

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/spaolacci/murmur3"
)

const (
	// MinKey and MaxKey bound uniformly generated keys.
	MinKey uint64 = 2
	MaxKey uint64 = 1<<62 - 1

	// seedMultiplier spreads block start indices over the seed space.
	seedMultiplier uint64 = 10293903128401092
)

// KeyGenerator fills dst[s:e] with keys.
//
// The keys written for an index range depend only on the range, never on
// which worker claimed it or when, so a buffer generated by any number of
// workers is identical to one generated by a single worker with the same
// block size.
type KeyGenerator interface {
	Fill(dst []uint64, s, e int)
}

// blockRand returns the generator for a block. It is seeded from the
// block's starting index only.
func blockRand(s int, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(s)*seedMultiplier, stream))
}

// Uniform draws keys uniformly from [Min, Max]. The zero value draws from
// [MinKey, MaxKey]. Keys are not deduplicated.
type Uniform struct {
	Min, Max uint64
}

func (u Uniform) Fill(dst []uint64, s, e int) {
	lo, hi := u.Min, u.Max
	if lo == 0 && hi == 0 {
		lo, hi = MinKey, MaxKey
	}
	r := blockRand(s, 0)
	span := hi - lo + 1
	for i := s; i < e; i++ {
		if span == 0 {
			dst[i] = r.Uint64()
		} else {
			dst[i] = lo + r.Uint64N(span)
		}
	}
}

// Sequential writes keys[i] = i + Offset. Keys are unique.
type Sequential struct {
	Offset uint64
}

func (g Sequential) Fill(dst []uint64, s, e int) {
	for i := s; i < e; i++ {
		dst[i] = uint64(i) + g.Offset
	}
}

// Skewed writes Zipf ranks shifted by Offset, so hot ranks repeat often.
type Skewed struct {
	Zipf   *Zipf
	Offset uint64
}

func (g Skewed) Fill(dst []uint64, s, e int) {
	next := g.Zipf.Sampler(blockRand(s, 1))
	for i := s; i < e; i++ {
		dst[i] = next() + g.Offset
	}
}

// Sampled copies keys from an external source.
type Sampled struct {
	Source KeySource
}

func (g Sampled) Fill(dst []uint64, s, e int) {
	g.Source.Sample(dst, s, e)
}

// GenerateKeys is the phase body that fills rc.Keys up to end in blocks.
// The primary must have reset the cursor to the first index before the
// phase.
func GenerateKeys(rc *RunContext, gen KeyGenerator, end, block int) {
	rc.Cursor.Blockwise(end, block, func(s, e int) {
		gen.Fill(rc.Keys, s, e)
	})
}

// Fingerprint returns a murmur3 digest of keys. Two runs with the same
// parameters must report the same fingerprint.
func Fingerprint(keys []uint64) string {
	h := murmur3.New128()
	buf := make([]byte, 0, 8*512)
	for i, k := range keys {
		buf = binary.LittleEndian.AppendUint64(buf, k)
		if len(buf) == cap(buf) || i == len(keys)-1 {
			_, _ = h.Write(buf)
			buf = buf[:0]
		}
	}
	h1, h2 := h.Sum128()
	return fmt.Sprintf("%016x%016x", h1, h2)
}
