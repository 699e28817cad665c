package mapstress

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
)

// KeySource supplies raw key samples from outside the harness.
type KeySource interface {
	// Len returns the number of distinct sample positions.
	Len() int
	// Sample fills dst[s:e]; index i receives sample i modulo Len.
	Sample(dst []uint64, s, e int)
}

// SliceSource serves samples from memory.
type SliceSource []uint64

func (s SliceSource) Len() int {
	return len(s)
}

func (s SliceSource) Sample(dst []uint64, from, to int) {
	for i := from; i < to; i++ {
		dst[i] = s[i%len(s)]
	}
}

// FileSource serves samples loaded from a file of little-endian uint64
// values. Files named *.sz or *.snappy are read through a snappy framed
// stream.
type FileSource struct {
	SliceSource
	path string
}

// OpenFileSource reads the whole file into memory.
func OpenFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeySource, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sz", ".snappy":
		r = snappy.NewReader(f)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrKeySource, path, err)
	}
	if len(raw) == 0 || len(raw)%8 != 0 {
		return nil, fmt.Errorf("%w: %s: size %d is not a positive multiple of 8", ErrKeySource, path, len(raw))
	}
	keys := make([]uint64, len(raw)/8)
	for i := range keys {
		keys[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}
	return &FileSource{SliceSource: keys, path: path}, nil
}

// Path returns the file the samples were read from.
func (s *FileSource) Path() string {
	return s.path
}

// WriteKeys stores keys in the format OpenFileSource reads, snappy framed
// when compress is set.
func WriteKeys(w io.Writer, keys []uint64, compress bool) error {
	var sw *snappy.Writer
	if compress {
		sw = snappy.NewBufferedWriter(w)
		w = sw
	}
	buf := make([]byte, 0, 8*512)
	for i, k := range keys {
		buf = binary.LittleEndian.AppendUint64(buf, k)
		if len(buf) == cap(buf) || i == len(keys)-1 {
			if _, err := w.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	if sw != nil {
		return sw.Close()
	}
	return nil
}
