// Package lebuf provides cursor-based reads over an in-memory buffer
// of little-endian binary data.
//
// Reads report success with a boolean rather than an error, so
// container walkers can treat an exhausted buffer as a loop exit
// instead of plumbing io errors through every field read.
package lebuf

import "encoding/binary"

// Reader is a read cursor over a byte slice. The zero value reads
// from an empty buffer.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a reader positioned at the start of data. The
// reader aliases data; it never copies.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current read position.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Skip advances the cursor by n bytes. It reports false and leaves
// the cursor unchanged when fewer than n bytes remain.
func (r *Reader) Skip(n int) bool {
	if n < 0 || r.Remaining() < n {
		return false
	}
	r.pos += n
	return true
}

// Bytes returns the next n bytes without copying and advances the
// cursor. The returned slice aliases the reader's buffer.
func (r *Reader) Bytes(n int) ([]byte, bool) {
	if n < 0 || r.Remaining() < n {
		return nil, false
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, true
}

// Uint16 reads a little-endian 16-bit value.
func (r *Reader) Uint16() (uint16, bool) {
	b, ok := r.Bytes(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

// Uint32 reads a little-endian 32-bit value.
func (r *Reader) Uint32() (uint32, bool) {
	b, ok := r.Bytes(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// Uint64 reads a little-endian 64-bit value.
func (r *Reader) Uint64() (uint64, bool) {
	b, ok := r.Bytes(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

// PeekUint32 reads a little-endian 32-bit value without advancing the
// cursor.
func (r *Reader) PeekUint32() (uint32, bool) {
	if r.Remaining() < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(r.data[r.pos:]), true
}
