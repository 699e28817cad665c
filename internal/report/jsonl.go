package report

import (
	"bufio"
	"io"

	"github.com/sugawarayuuta/sonnet"

	"github.com/llxisdsh/mapstress"
)

// JSONL writes one JSON object per result and line.
type JSONL struct {
	bw *bufio.Writer
}

// NewJSONL writes to w. Close flushes but does not close w.
func NewJSONL(w io.Writer) *JSONL {
	return &JSONL{bw: bufio.NewWriter(w)}
}

func (j *JSONL) Write(r mapstress.Result) error {
	data, err := sonnet.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := j.bw.Write(data); err != nil {
		return err
	}
	if err := j.bw.WriteByte('\n'); err != nil {
		return err
	}
	// Results are rare; flush so a crashed run keeps what it reported.
	return j.bw.Flush()
}

func (j *JSONL) Close() error {
	return j.bw.Flush()
}

// ReadJSONL decodes results written by JSONL.
func ReadJSONL(r io.Reader) ([]mapstress.Result, error) {
	var out []mapstress.Result
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var res mapstress.Result
		if err := sonnet.Unmarshal(sc.Bytes(), &res); err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, sc.Err()
}
