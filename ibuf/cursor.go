package ibuf

import (
	"math"

	"github.com/threedeyes/hvif-tools/endian"
)

// ReadCursor is a bounds-checked read cursor over a byte slice. It refuses
// to advance past the end of the slice and reports failure without
// mutating its position, matching the original LittleEndianBuffer::Read
// semantics.
//
// A ReadCursor does not own the backing slice; multiple cursors may read
// the same slice independently (§9 "read cursors are separate values").
type ReadCursor struct {
	buf []byte
	pos int
}

// NewReadCursor wraps buf for sequential reading from position 0.
func NewReadCursor(buf []byte) *ReadCursor {
	return &ReadCursor{buf: buf}
}

// Remaining returns the number of unread bytes.
func (c *ReadCursor) Remaining() int { return len(c.buf) - c.pos }

// Pos returns the current read offset.
func (c *ReadCursor) Pos() int { return c.pos }

// ReadByte reads a single byte.
func (c *ReadCursor) ReadByte() (uint8, bool) {
	if c.Remaining() < 1 {
		return 0, false
	}
	v := c.buf[c.pos]
	c.pos++

	return v, true
}

// ReadBytes reads exactly n raw bytes and returns a copy.
func (c *ReadCursor) ReadBytes(n int) ([]byte, bool) {
	if n < 0 || c.Remaining() < n {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:c.pos+n])
	c.pos += n

	return out, true
}

// ReadUint16 reads a little-endian uint16.
func (c *ReadCursor) ReadUint16() (uint16, bool) {
	if c.Remaining() < 2 {
		return 0, false
	}
	v := endian.LE.Uint16(c.buf[c.pos:])
	c.pos += 2

	return v, true
}

// ReadUint32 reads a little-endian uint32.
func (c *ReadCursor) ReadUint32() (uint32, bool) {
	if c.Remaining() < 4 {
		return 0, false
	}
	v := endian.LE.Uint32(c.buf[c.pos:])
	c.pos += 4

	return v, true
}

// ReadFloat32 reads a little-endian IEEE-754 binary32.
func (c *ReadCursor) ReadFloat32() (float32, bool) {
	v, ok := c.ReadUint32()
	if !ok {
		return 0, false
	}

	return math.Float32frombits(v), true
}

// ReadFloat64 reads a little-endian IEEE-754 binary64.
func (c *ReadCursor) ReadFloat64() (float64, bool) {
	if c.Remaining() < 8 {
		return 0, false
	}
	v := endian.LE.Uint64(c.buf[c.pos:])
	c.pos += 8

	return math.Float64frombits(v), true
}

// Sub transfers exactly n bytes into an independent cursor positioned at 0,
// advancing this cursor past them without copying the backing array twice.
// This mirrors LittleEndianBuffer::Read(other, bytes), used by the path
// command stream to carve out its command-bits segment before parsing the
// coord payload that follows it.
func (c *ReadCursor) Sub(n int) (*ReadCursor, bool) {
	b, ok := c.ReadBytes(n)
	if !ok {
		return nil, false
	}

	return NewReadCursor(b), true
}
