package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrFormat is returned for headers whose counts do not agree.
var ErrFormat = errors.New("invalid dataset format")

const readChunk = 4096

// baseParser reads little-endian values and keeps the first error.
type baseParser struct {
	r   io.Reader
	err error
}

func (p *baseParser) read(v interface{}) {
	if p.err != nil {
		return
	}
	if err := binary.Read(p.r, binary.LittleEndian, v); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		p.err = err
	}
}

func (p *baseParser) readInt() int {
	var v uint32
	p.read(&v)
	return int(v)
}

// readFloats reads n float32 values. Large counts are read in chunks so a
// corrupt header fails on EOF instead of allocating up front.
func (p *baseParser) readFloats(n int) []float64 {
	out := make([]float64, 0, min(n, readChunk))
	buf := make([]float32, min(n, readChunk))
	for len(out) < n && p.err == nil {
		b := buf[:min(n-len(out), len(buf))]
		p.read(b)
		for _, f := range b {
			out = append(out, float64(f))
		}
	}
	return out
}

// readStats reads n interleaved (mean, std) pairs.
func (p *baseParser) readStats(n int) (mean, std []float64) {
	pairs := p.readFloats(n * 2)
	if p.err != nil {
		return nil, nil
	}
	mean = make([]float64, n)
	std = make([]float64, n)
	for i := 0; i < n; i++ {
		mean[i] = pairs[i*2]
		std[i] = pairs[i*2+1]
	}
	return mean, std
}

// readOptionalFloats reads n float32 values that may be missing entirely.
// It returns nil without error when the input ends before the first value.
func (p *baseParser) readOptionalFloats(n int) []float64 {
	if p.err != nil || n == 0 {
		return nil
	}
	var first float32
	if err := binary.Read(p.r, binary.LittleEndian, &first); err != nil {
		if err != io.EOF {
			p.err = err
		}
		return nil
	}
	return append([]float64{float64(first)}, p.readFloats(n-1)...)
}

func (p *baseParser) error(what string) error {
	if p.err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, p.err)
}

type baseWriter struct {
	w   io.Writer
	err error
}

func (w *baseWriter) write(v interface{}) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.w, binary.LittleEndian, v)
}

func (w *baseWriter) writeInt(v int) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		if w.err == nil {
			w.err = fmt.Errorf("count %d out of range: %w", v, ErrFormat)
		}
		return
	}
	w.write(uint32(v))
}

func (w *baseWriter) writeFloats(v []float64) {
	buf := make([]float32, 0, min(len(v), readChunk))
	for len(v) > 0 && w.err == nil {
		buf = buf[:0]
		for _, f := range v[:min(len(v), readChunk)] {
			buf = append(buf, float32(f))
		}
		w.write(buf)
		v = v[len(buf):]
	}
}

func (w *baseWriter) writeStats(mean, std []float64) {
	pairs := make([]float64, 0, len(mean)*2)
	for i := range mean {
		pairs = append(pairs, mean[i], std[i])
	}
	w.writeFloats(pairs)
}
