package inspect

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// errOverflow is returned when a LEB128 value exceeds its maximum size.
var errOverflow = errors.New("leb128: overflow")

// reader tracks a byte position over a wasm binary slice.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("offset %d: %w", r.pos, io.ErrUnexpectedEOF)
	}
	buf := r.data[r.pos : r.pos+n]
	r.pos += n
	return buf, nil
}

// readU32 reads an unsigned LEB128 encoded uint32.
func (r *reader) readU32() (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, errOverflow
		}
	}
}

// readU32LE reads a fixed-width little-endian uint32 (header fields only).
func (r *reader) readU32LE() (uint32, error) {
	buf, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}

// readName reads a length-prefixed UTF-8 name.
func (r *reader) readName() (string, error) {
	n, err := r.readU32()
	if err != nil {
		return "", err
	}
	buf, err := r.readBytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("offset %d: name is not valid UTF-8", r.pos)
	}
	return string(buf), nil
}
