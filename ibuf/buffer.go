// Package ibuf provides the growable little-endian write buffer and the
// bounded read cursor the flat-icon codec is built on (§4.2).
package ibuf

import (
	"math"

	"github.com/threedeyes/hvif-tools/endian"
)

// chunkSize is the allocation granularity a WriteBuffer grows by, matching
// the original LittleEndianBuffer's CHUNK_SIZE.
const chunkSize = 256

// WriteBuffer is a growable little-endian byte buffer. It grows in
// chunkSize increments via reallocation, the way the original C++
// LittleEndianBuffer does. Once growth fails (see NewWriteBufferWithLimit) the buffer
// enters a sticky failed state: every subsequent append reports failure
// without touching the underlying slice.
//
// A WriteBuffer is not safe for concurrent use.
type WriteBuffer struct {
	buf    []byte
	limit  int // 0 means unlimited; otherwise the hard cap on buf's capacity
	failed bool
}

// NewWriteBuffer returns an empty buffer with no capacity limit.
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{buf: make([]byte, 0, chunkSize)}
}

// NewWriteBufferWithLimit returns an empty buffer that enters the sticky
// failed state instead of growing past limit bytes. This exists to
// exercise the OutOfMemory error path (§7), since Go's allocator does not
// otherwise fail in a way this codec can observe.
func NewWriteBufferWithLimit(limit int) *WriteBuffer {
	capacity := chunkSize
	if limit > 0 && limit < chunkSize {
		capacity = limit
	}

	return &WriteBuffer{buf: make([]byte, 0, capacity), limit: limit}
}

// Failed reports whether a previous append exhausted the buffer's limit.
func (b *WriteBuffer) Failed() bool { return b.failed }

// Len returns the number of bytes written so far.
func (b *WriteBuffer) Len() int { return len(b.buf) }

// Bytes returns the written bytes. The returned slice aliases the buffer's
// storage and is invalidated by the next append.
func (b *WriteBuffer) Bytes() []byte { return b.buf }

// grow ensures at least n more bytes of capacity, chunkSize at a time.
// Returns false (and sticks the buffer in the failed state) if doing so
// would exceed the configured limit.
func (b *WriteBuffer) grow(n int) bool {
	if b.failed {
		return false
	}

	need := len(b.buf) + n
	if cap(b.buf) >= need {
		return true
	}

	newCap := cap(b.buf)
	for newCap < need {
		newCap += chunkSize
	}

	if b.limit > 0 && newCap > b.limit {
		b.failed = true
		return false
	}

	grown := make([]byte, len(b.buf), newCap)
	copy(grown, b.buf)
	b.buf = grown

	return true
}

// WriteByte appends a single byte.
func (b *WriteBuffer) WriteByte(v uint8) bool {
	if !b.grow(1) {
		return false
	}
	b.buf = append(b.buf, v)

	return true
}

// WriteBytes appends raw bytes verbatim (no byte-order conversion).
func (b *WriteBuffer) WriteBytes(p []byte) bool {
	if len(p) == 0 {
		return !b.failed
	}
	if !b.grow(len(p)) {
		return false
	}
	b.buf = append(b.buf, p...)

	return true
}

// WriteUint16 appends a little-endian uint16.
func (b *WriteBuffer) WriteUint16(v uint16) bool {
	if !b.grow(2) {
		return false
	}
	b.buf = endian.LE.AppendUint16(b.buf, v)

	return true
}

// WriteUint32 appends a little-endian uint32.
func (b *WriteBuffer) WriteUint32(v uint32) bool {
	if !b.grow(4) {
		return false
	}
	b.buf = endian.LE.AppendUint32(b.buf, v)

	return true
}

// WriteFloat32 appends a little-endian IEEE-754 binary32.
func (b *WriteBuffer) WriteFloat32(v float32) bool {
	return b.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends a little-endian IEEE-754 binary64.
func (b *WriteBuffer) WriteFloat64(v float64) bool {
	if !b.grow(8) {
		return false
	}
	b.buf = endian.LE.AppendUint64(b.buf, math.Float64bits(v))

	return true
}

// Write appends the full contents of other, used when assembling
// section payloads built up in their own sub-buffers (e.g. the path
// command stream's command-bits and payload segments).
func (b *WriteBuffer) Write(other *WriteBuffer) bool {
	return b.WriteBytes(other.Bytes())
}
