package mmd

import (
	"bytes"
	"encoding/binary"
	"io"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

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

// readString reads a fixed size, NUL terminated Shift_JIS string.
func (p *baseParser) readString(size int) string {
	b := make([]byte, size)
	p.read(b)
	utf8Data, _, _ := transform.Bytes(japanese.ShiftJIS.NewDecoder(), bytes.SplitN(b, []byte{0}, 2)[0])
	return string(utf8Data)
}

type baseWriter struct {
	w   io.Writer
	err error
}

func (p *baseWriter) write(v interface{}) {
	if p.err != nil {
		return
	}
	p.err = binary.Write(p.w, binary.LittleEndian, v)
}

func (p *baseWriter) writeInt(v int) {
	p.write(uint32(v))
}

// writeString writes s as Shift_JIS padded with NUL to size bytes. Longer
// names are truncated.
func (p *baseWriter) writeString(s string, size int) {
	b := make([]byte, size)
	enc, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil && p.err == nil {
		p.err = err
	}
	copy(b, enc)
	p.write(b)
}
